package sqlite

import (
	"context"

	"github.com/fwojciec/fmkit"
)

// Settings keys.
const (
	settingNormalPath = "normal_path"
	settingIconPath   = "icon_path"
)

// Compile-time interface verification.
var _ fmkit.SettingsService = (*SettingsService)(nil)

// SettingsService implements fmkit.SettingsService using SQLite.
type SettingsService struct {
	db *DB
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(db *DB) *SettingsService {
	return &SettingsService{db: db}
}

// FindSettings returns the stored settings. Missing keys are empty.
func (s *SettingsService) FindSettings(ctx context.Context) (*fmkit.Settings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings fmkit.Settings
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		switch key {
		case settingNormalPath:
			settings.NormalPath = value
		case settingIconPath:
			settings.IconPath = value
		}
	}

	return &settings, rows.Err()
}

// SaveSettings trims and validates both paths, then stores them together.
func (s *SettingsService) SaveSettings(ctx context.Context, settings *fmkit.Settings) error {
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for key, value := range map[string]string{
		settingNormalPath: settings.NormalPath,
		settingIconPath:   settings.IconPath,
	} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}
