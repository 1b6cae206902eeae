package goquery_test

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/fwojciec/fmkit"
	"github.com/fwojciec/fmkit/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row renders one nations table row in the sortitoutsi.net layout.
func row(class, id, name, nickname, rating string) string {
	nick := ""
	if nickname != "" {
		nick = fmt.Sprintf(`<div class="text-muted small">%s</div>`, nickname)
	}
	return fmt.Sprintf(`
<tr class="%s">
  <td class="icon"><img src="https://cdn.sortitoutsi.net/flags/%s.png" alt=""></td>
  <td class="title">
    <a href="https://sortitoutsi.net/football-manager-2024/nation/%s/%s"> %s </a>
    %s
  </td>
  <td> %s </td>
  <td><a href="#">Download</a></td>
</tr>`, class, id, id, strings.ToLower(name), name, nick, rating)
}

func page(rows ...string) string {
	return `<!DOCTYPE html><html><body>
<table class="table nations">
  <thead><tr><th></th><th>Nation</th><th>Newgens</th><th></th></tr></thead>
  <tbody>` + strings.Join(rows, "\n") + `</tbody>
</table>
</body></html>`
}

func TestNationExtractor_ExtractNations(t *testing.T) {
	t.Parallel()

	t.Run("extracts all fields from a well-formed row", func(t *testing.T) {
		t.Parallel()

		html := page(row("", "793", "England", "The Three Lions", "Excellent"))

		nations, err := goquery.NewNationExtractor().ExtractNations(html)

		require.NoError(t, err)
		require.Len(t, nations, 1)
		assert.Equal(t, fmkit.Nation{
			ID:        "793",
			Name:      "England",
			Nickname:  "The Three Lions",
			LogoURL:   "https://cdn.sortitoutsi.net/flags/793.png",
			Newgens:   "Excellent",
			IsWomens:  false,
			DetailURL: "https://sortitoutsi.net/football-manager-2024/nation/793/england",
		}, nations[0])
	})

	t.Run("distinguishes men's and women's rows sharing an id", func(t *testing.T) {
		t.Parallel()

		html := page(
			row("", "1", "Argentina", "", "Good"),
			row("", "2", "Brazil", "", "Excellent"),
			row("womens", "1", "Argentina", "", "Average"),
		)

		nations, err := goquery.NewNationExtractor().ExtractNations(html)

		require.NoError(t, err)
		require.Len(t, nations, 3)
		keys := make([]string, 0, len(nations))
		for _, n := range nations {
			keys = append(keys, n.Key())
		}
		assert.Equal(t, []string{"1-m", "2-m", "1-w"}, keys)
	})

	t.Run("detects women's marker inside the row", func(t *testing.T) {
		t.Parallel()

		html := page(`
<tr>
  <td class="icon"><img src="flag.png"><span class="badge womens">W</span></td>
  <td class="title"><a href="/nation/55/spain">Spain</a></td>
  <td>Good</td>
</tr>`)

		nations, err := goquery.NewNationExtractor().ExtractNations(html)

		require.NoError(t, err)
		require.Len(t, nations, 1)
		assert.True(t, nations[0].IsWomens)
	})

	t.Run("preserves document order", func(t *testing.T) {
		t.Parallel()

		html := page(
			row("", "3", "Zambia", "", "Poor"),
			row("", "1", "Albania", "", "Basic"),
			row("", "2", "Mexico", "", "Good"),
		)

		nations, err := goquery.NewNationExtractor().ExtractNations(html)

		require.NoError(t, err)
		require.Len(t, nations, 3)
		assert.Equal(t, "Zambia", nations[0].Name)
		assert.Equal(t, "Albania", nations[1].Name)
		assert.Equal(t, "Mexico", nations[2].Name)
	})

	t.Run("empty nickname when muted text is absent", func(t *testing.T) {
		t.Parallel()

		nations, err := goquery.NewNationExtractor().ExtractNations(page(row("", "9", "Wales", "", "Average")))

		require.NoError(t, err)
		require.Len(t, nations, 1)
		assert.Empty(t, nations[0].Nickname)
	})

	t.Run("keeps unknown rating as free text", func(t *testing.T) {
		t.Parallel()

		nations, err := goquery.NewNationExtractor().ExtractNations(page(row("", "9", "Wales", "", "Unrated")))

		require.NoError(t, err)
		require.Len(t, nations, 1)
		assert.Equal(t, "Unrated", nations[0].Newgens)
	})

	t.Run("missing logo yields empty logo URL", func(t *testing.T) {
		t.Parallel()

		html := page(`
<tr>
  <td class="icon"></td>
  <td class="title"><a href="/nation/12/peru">Peru</a></td>
  <td>Basic</td>
</tr>`)

		nations, err := goquery.NewNationExtractor().ExtractNations(html)

		require.NoError(t, err)
		require.Len(t, nations, 1)
		assert.Empty(t, nations[0].LogoURL)
		assert.Equal(t, "12", nations[0].ID)
	})

	t.Run("falls back to lazy-loaded image source", func(t *testing.T) {
		t.Parallel()

		html := page(`
<tr>
  <td class="icon"><img data-src="https://cdn.example/flag.png"></td>
  <td class="title"><a href="/nation/12/peru">Peru</a></td>
  <td>Basic</td>
</tr>`)

		nations, err := goquery.NewNationExtractor().ExtractNations(html)

		require.NoError(t, err)
		require.Len(t, nations, 1)
		assert.Equal(t, "https://cdn.example/flag.png", nations[0].LogoURL)
	})

	t.Run("skips malformed rows without failing", func(t *testing.T) {
		t.Parallel()

		html := page(
			row("", "1", "Chile", "", "Good"),
			// no title link
			`<tr><td class="icon"></td><td class="title">Nothing here</td><td>Good</td></tr>`,
			// link without nation id
			`<tr><td class="icon"></td><td class="title"><a href="/nations/about">About</a></td><td>Good</td></tr>`,
			// id but blank name
			`<tr><td class="icon"></td><td class="title"><a href="/nation/77/x">   </a></td><td>Good</td></tr>`,
			// id pattern requires the trailing slash
			`<tr><td class="icon"></td><td class="title"><a href="/nation/78">Peru</a></td><td>Good</td></tr>`,
			row("", "2", "Colombia", "", "Basic"),
		)

		nations, err := goquery.NewNationExtractor().ExtractNations(html)

		require.NoError(t, err)
		require.Len(t, nations, 2)
		assert.Equal(t, "Chile", nations[0].Name)
		assert.Equal(t, "Colombia", nations[1].Name)
		for _, n := range nations {
			assert.NotEmpty(t, n.Name)
			assert.NotEmpty(t, n.ID)
		}
	})

	t.Run("returns empty result for a page without rows", func(t *testing.T) {
		t.Parallel()

		for _, html := range []string{"", "<html><body><p>Just a moment...</p></body></html>", page()} {
			nations, err := goquery.NewNationExtractor().ExtractNations(html)

			require.NoError(t, err)
			assert.NotNil(t, nations)
			assert.Empty(t, nations)
		}
	})

	t.Run("ignores header rows outside the table body", func(t *testing.T) {
		t.Parallel()

		nations, err := goquery.NewNationExtractor().ExtractNations(page(row("", "4", "Ghana", "", "Good")))

		require.NoError(t, err)
		assert.Len(t, nations, 1)
	})
}

func TestNationExtractor_WithSchema(t *testing.T) {
	t.Parallel()

	html := `<html><body><ul class="list">
  <li class="w"><img class="flag" src="a.png"><span class="t"><a href="/n-10">Norway</a><em>Vikings</em></span><b>x</b><b>y</b><i>Good</i></li>
</ul></body></html>`

	schema := goquery.Schema{
		Rows:        "ul.list li",
		WomensClass: "w",
		Logo:        "img.flag",
		TitleCell:   "span.t",
		TitleLink:   "a",
		Nickname:    "em",
		Cells:       "b, i",
		RatingCell:  2,
		IDPattern:   regexp.MustCompile(`/n-(\d+)`),
	}

	nations, err := goquery.NewNationExtractor(goquery.WithSchema(schema)).ExtractNations(html)

	require.NoError(t, err)
	require.Len(t, nations, 1)
	assert.Equal(t, "10", nations[0].ID)
	assert.Equal(t, "Norway", nations[0].Name)
	assert.Equal(t, "Vikings", nations[0].Nickname)
	assert.True(t, nations[0].IsWomens)
	assert.Equal(t, "a.png", nations[0].LogoURL)
	assert.Equal(t, "Good", nations[0].Newgens)
}
