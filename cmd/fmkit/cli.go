package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/fmkit"
	"github.com/fwojciec/fmkit/directory"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config Config

	// Session is set for the commands that show the directory.
	Session *directory.Session

	Settings fmkit.SettingsService
	Faces    fmkit.FaceCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`
	Browser bool `help:"Fetch through headless Chrome (same as FMKIT_BROWSER=1)"`

	Nations  NationsCmd  `cmd:"" help:"Show a page of the nations directory"`
	Browse   BrowseCmd   `cmd:"" help:"Browse the nations directory interactively"`
	Serve    ServeCmd    `cmd:"" help:"Serve the nations directory as a JSON API"`
	Faces    FacesCmd    `cmd:"" help:"Count face images in the configured folders"`
	Settings SettingsCmd `cmd:"" help:"Show or save the face folder settings"`
}

// NationsCmd is the "nations" subcommand.
type NationsCmd struct {
	Search   string `short:"s" help:"Filter by nation name"`
	Category string `short:"c" default:"all" help:"all, mens or womens"`
	Sort     string `help:"Sort by name, nickname, newgens or category"`
	Order    string `help:"Sort order: asc or desc (default asc)"`
	Page     int    `short:"p" default:"1" help:"Page number"`
	Size     int    `short:"n" default:"10" help:"Page size: 10, 20, 30, 50 or 100"`
	Refresh  bool   `short:"r" help:"Fetch the listing before showing it"`
	JSON     bool   `help:"Print the page as JSON"`
}

// BrowseCmd is the "browse" subcommand.
type BrowseCmd struct {
	Refresh bool `short:"r" help:"Fetch the listing on start"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:"${addr}" help:"Listen address"`
}

// FacesCmd is the "faces" subcommand.
type FacesCmd struct{}

// SettingsCmd is the "settings" subcommand.
type SettingsCmd struct {
	Normal string `help:"Folder holding normal face images"`
	Icon   string `help:"Folder holding icon face images"`
}
