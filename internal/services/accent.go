package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/ports"
)

// AccentKey is the settings key holding the work color.
const AccentKey = "workColor"

// AccentService loads and saves the accent color.
type AccentService struct {
	settings ports.SettingsRepository
	logger   *log.Logger
}

// NewAccentService creates a new accent service.
func NewAccentService(settings ports.SettingsRepository, logger *log.Logger) *AccentService {
	if logger == nil {
		logger = log.Default()
	}
	return &AccentService{settings: settings, logger: logger}
}

// Load returns the saved accent. Any failure yields the default gold.
func (s *AccentService) Load(ctx context.Context) domain.Color {
	value, err := s.settings.Get(ctx, AccentKey)
	if err != nil {
		if !errors.Is(err, domain.ErrSettingNotFound) {
			s.logger.Warn("failed to load accent, using default", "err", err)
		}
		return domain.DefaultAccent
	}

	c, err := domain.ParseColor(value)
	if err != nil {
		s.logger.Warn("stored accent is invalid, using default", "value", value, "err", err)
		return domain.DefaultAccent
	}
	return c
}

// Save persists c.
func (s *AccentService) Save(ctx context.Context, c domain.Color) error {
	if err := s.settings.Set(ctx, AccentKey, c.String()); err != nil {
		return fmt.Errorf("failed to save accent: %w", err)
	}
	return nil
}

// SetByName resolves a palette name, index or hex value and saves it.
func (s *AccentService) SetByName(ctx context.Context, value string) (domain.Color, error) {
	c, err := domain.ParseColor(value)
	if err != nil {
		return 0, err
	}
	return c, s.Save(ctx, c)
}
