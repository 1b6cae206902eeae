package main

import (
	"fmt"

	"github.com/fwojciec/fmkit"
)

// Run executes the settings command. Without flags it shows the stored
// settings; with flags it saves them.
func (c *SettingsCmd) Run(deps *Dependencies) error {
	if c.Normal == "" && c.Icon == "" {
		settings, err := deps.Settings.FindSettings(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", fmkit.ErrorMessage(err))
			return err
		}
		printSettings(deps, settings)
		return nil
	}

	settings := &fmkit.Settings{NormalPath: c.Normal, IconPath: c.Icon}
	if err := deps.Settings.SaveSettings(deps.Ctx, settings); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fmkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "Settings saved.")
	printSettings(deps, settings)
	return nil
}

func printSettings(deps *Dependencies, s *fmkit.Settings) {
	fmt.Fprintf(deps.Stdout, "Normal faces folder: %s\n", orNotSet(s.NormalPath))
	fmt.Fprintf(deps.Stdout, "Icon faces folder:   %s\n", orNotSet(s.IconPath))
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
