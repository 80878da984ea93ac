package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"helpful/internal/config"
	"helpful/internal/infra"
	"helpful/internal/models/db_models"
	"helpful/internal/models/request_models"
	"helpful/internal/repositories"
	"helpful/internal/services"
	"helpful/pkg/logger"
)

// bootstrap loads the configuration and opens the database for one-shot
// commands.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Configure(cfg.LogLevel, "")

	db, err := infra.OpenDatabase(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer infra.CloseDatabase(db)

			if err := infra.Migrate(db); err != nil {
				return err
			}
			log.Info().Msg("schema up to date")
			return nil
		},
	}
}

func newCreateAdminCommand() *cobra.Command {
	var req request_models.SignUpRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer infra.CloseDatabase(db)

			if err := infra.Migrate(db); err != nil {
				return err
			}

			accounts := services.NewAccountService(repositories.NewAccountRepository(db), cfg)
			account, err := accounts.CreateAccount(cmd.Context(), req, db_models.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", account.Email, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Export or import the site options as YAML",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file.yaml>",
		Short: "Write the current options to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), func(ctx context.Context, s services.SettingsServiceInterface) error {
				return exportSettings(ctx, s, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Store the options found in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), func(ctx context.Context, s services.SettingsServiceInterface) error {
				return importSettings(ctx, s, args[0])
			})
		},
	})

	return cmd
}

func withSettings(ctx context.Context, fn func(context.Context, services.SettingsServiceInterface) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer infra.CloseDatabase(db)

	if err := infra.Migrate(db); err != nil {
		return err
	}
	return fn(ctx, services.NewSettingsService(repositories.NewOptionRepository(db), cfg))
}

func exportSettings(ctx context.Context, s services.SettingsServiceInterface, path string) error {
	settings, err := s.Load(ctx)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(settings.ToOptions())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("settings exported")
	return nil
}

func importSettings(ctx context.Context, s services.SettingsServiceInterface, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var options map[string]string
	if err := yaml.Unmarshal(raw, &options); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if _, err := s.Save(ctx, options); err != nil {
		return err
	}
	log.Info().Str("file", path).Int("options", len(options)).Msg("settings imported")
	return nil
}
