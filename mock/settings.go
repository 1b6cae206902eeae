package mock

import (
	"context"

	"github.com/fwojciec/fmkit"
)

var _ fmkit.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of fmkit.SettingsService.
type SettingsService struct {
	FindSettingsFn func(ctx context.Context) (*fmkit.Settings, error)
	SaveSettingsFn func(ctx context.Context, s *fmkit.Settings) error
}

func (s *SettingsService) FindSettings(ctx context.Context) (*fmkit.Settings, error) {
	return s.FindSettingsFn(ctx)
}

func (s *SettingsService) SaveSettings(ctx context.Context, settings *fmkit.Settings) error {
	return s.SaveSettingsFn(ctx, settings)
}

var _ fmkit.FaceCounter = (*FaceCounter)(nil)

// FaceCounter is a mock implementation of fmkit.FaceCounter.
type FaceCounter struct {
	CountFacesFn func(ctx context.Context, normalPath, iconPath string) (*fmkit.FaceCounts, error)
}

func (c *FaceCounter) CountFaces(ctx context.Context, normalPath, iconPath string) (*fmkit.FaceCounts, error) {
	return c.CountFacesFn(ctx, normalPath, iconPath)
}
