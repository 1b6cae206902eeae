package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/fmkit"
)

// Run executes the faces command.
func (c *FacesCmd) Run(deps *Dependencies) error {
	settings, err := deps.Settings.FindSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fmkit.ErrorMessage(err))
		return err
	}
	if !settings.Configured() {
		fmt.Fprintln(deps.Stderr, "Face folders are not configured. Use 'fmkit settings --normal PATH --icon PATH'.")
		return fmkit.Errorf(fmkit.EINVALID, "face folders not configured")
	}

	counts, err := deps.Faces.CountFaces(deps.Ctx, settings.NormalPath, settings.IconPath)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fmkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Normal faces: %d  (last modified %s)  %s\n", counts.Normal, formatModified(counts.NormalModified), settings.NormalPath)
	fmt.Fprintf(deps.Stdout, "Icon faces:   %d  (last modified %s)  %s\n", counts.Icon, formatModified(counts.IconModified), settings.IconPath)
	return nil
}

func formatModified(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
