package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fwojciec/fmkit"
	"github.com/fwojciec/fmkit/directory"
)

const browseHelp = `Commands:
  search <text>      filter by nation name (no text clears the search)
  tab <category>     all, mens or womens
  sort <column>      name, nickname, newgens or category (repeat to cycle asc, desc, off)
  size <n>           page size: 10, 20, 30, 50 or 100
  first, prev, next, last
  page <n>           go to page n
  open <n>           show the detail link of row n
  refresh            fetch the nations listing again
  help               show this help
  quit               leave`

// Run executes the browse command.
func (c *BrowseCmd) Run(deps *Dependencies) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "fmkit> ",
		Stdin:           deps.Stdin,
		Stdout:          deps.Stdout,
		Stderr:          deps.Stderr,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer rl.Close()

	b := NewBrowser(deps.Session, rl.Stdout())
	if c.Refresh || !deps.Session.Status().Loaded {
		b.Exec(deps.Ctx, "refresh")
	} else {
		b.Render()
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(rl.Stdout(), "Use 'quit' to leave.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if b.Exec(deps.Ctx, line) {
			return nil
		}
	}
}

// Browser interprets browse commands against a session and prints the
// resulting view.
type Browser struct {
	session *directory.Session
	out     io.Writer
}

// NewBrowser creates a Browser writing to out.
func NewBrowser(session *directory.Session, out io.Writer) *Browser {
	return &Browser{session: session, out: out}
}

// Render prints the current view.
func (b *Browser) Render() {
	renderView(b.out, b.session.View(), b.session.State(), b.session.Status())
}

// Exec runs one command line and reports whether the user asked to quit.
func (b *Browser) Exec(ctx context.Context, line string) (quit bool) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "":
		return false
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(b.out, browseHelp)
		return false
	case "search", "s":
		b.session.Search(arg)
	case "tab", "t":
		category, err := fmkit.ParseCategoryFilter(arg)
		if err != nil {
			b.error(err)
			return false
		}
		b.session.SetCategory(category)
	case "sort":
		field, err := fmkit.ParseSortField(arg)
		if err != nil {
			b.error(err)
			return false
		}
		b.session.ToggleSort(field)
	case "size":
		n, err := strconv.Atoi(arg)
		if err != nil {
			b.error(fmkit.Errorf(fmkit.EINVALID, "size needs a number"))
			return false
		}
		if _, err := b.session.SetPageSize(n); err != nil {
			b.error(err)
			return false
		}
	case "first":
		b.session.FirstPage()
	case "prev", "p":
		b.session.PrevPage()
	case "next", "n":
		b.session.NextPage()
	case "last":
		b.session.LastPage()
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			b.error(fmkit.Errorf(fmkit.EINVALID, "page needs a number"))
			return false
		}
		b.session.GoToPage(n)
	case "open", "o":
		b.open(arg)
		return false
	case "refresh", "r":
		fmt.Fprintln(b.out, "Loading...")
		// The error is kept in the session status and shown by Render.
		_ = b.session.Refresh(ctx)
	default:
		fmt.Fprintf(b.out, "Unknown command %q. Type 'help' for commands.\n", name)
		return false
	}

	b.Render()
	return false
}

// open prints the detail URL of row n of the current page, numbered as
// shown in the table.
func (b *Browser) open(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		b.error(fmkit.Errorf(fmkit.EINVALID, "open needs a row number"))
		return
	}
	v := b.session.View()
	i := n - v.Start()
	if v.TotalCount == 0 || i < 0 || i >= len(v.Nations) {
		b.error(fmkit.Errorf(fmkit.EINVALID, "row %d is not on this page", n))
		return
	}
	nation := &v.Nations[i]
	if nation.DetailURL == "" {
		fmt.Fprintf(b.out, "%s has no detail link\n", nation.Name)
		return
	}
	fmt.Fprintf(b.out, "%s: %s\n", nation.Name, nation.DetailURL)
}

func (b *Browser) error(err error) {
	fmt.Fprintf(b.out, "error: %s\n", fmkit.ErrorMessage(err))
}
