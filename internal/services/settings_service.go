package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"helpful/internal/config"
	"helpful/internal/repositories"
	"helpful/pkg/utils"
)

type SettingsServiceInterface interface {
	// Load returns the site settings. Call it once per request and pass the
	// result down.
	Load(ctx context.Context) (config.Settings, error)
	Save(ctx context.Context, options map[string]string) (config.Settings, error)
	Defaults() config.Settings
}

type SettingsService struct {
	optionRepo repositories.OptionRepository
	defaults   config.Settings
}

func NewSettingsService(optionRepo repositories.OptionRepository, cfg *config.Config) SettingsServiceInterface {
	return &SettingsService{
		optionRepo: optionRepo,
		defaults:   config.DefaultSettings(cfg),
	}
}

func (s *SettingsService) Defaults() config.Settings { return s.defaults }

func (s *SettingsService) Load(ctx context.Context) (config.Settings, error) {
	options, err := s.optionRepo.GetAll(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("loading options")
		return s.defaults, utils.ErrDatabaseError
	}
	return config.FromOptions(s.defaults, options), nil
}

// Save stores only known option keys and returns the resulting settings.
func (s *SettingsService) Save(ctx context.Context, options map[string]string) (config.Settings, error) {
	known := s.defaults.ToOptions()
	filtered := make(map[string]string, len(options))
	for k, v := range options {
		if _, ok := known[k]; ok {
			filtered[k] = v
		}
	}

	if err := s.optionRepo.SetMany(ctx, filtered); err != nil {
		log.Error().Stack().Err(err).Msg("saving options")
		return s.defaults, utils.ErrDatabaseError
	}
	return s.Load(ctx)
}
