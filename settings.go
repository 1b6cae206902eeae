package fmkit

import (
	"context"
	"strings"
)

// Settings holds the face folder locations configured by the user.
type Settings struct {
	NormalPath string `json:"normalPath"`
	IconPath   string `json:"iconPath"`
}

// Normalize trims surrounding whitespace from both paths.
func (s *Settings) Normalize() {
	s.NormalPath = strings.TrimSpace(s.NormalPath)
	s.IconPath = strings.TrimSpace(s.IconPath)
}

// Validate returns an error if either path is missing.
func (s *Settings) Validate() error {
	if s.NormalPath == "" {
		return Errorf(EINVALID, "normal faces path required")
	}
	if s.IconPath == "" {
		return Errorf(EINVALID, "icon faces path required")
	}
	return nil
}

// Configured reports whether both paths are set.
func (s *Settings) Configured() bool {
	return s.NormalPath != "" && s.IconPath != ""
}

// SettingsService persists user settings.
type SettingsService interface {
	// FindSettings returns the stored settings. Paths default to empty.
	FindSettings(ctx context.Context) (*Settings, error)

	// SaveSettings normalizes, validates and stores both paths.
	SaveSettings(ctx context.Context, s *Settings) error
}
