// Package config holds the process configuration read once at startup and the
// per-request Settings loaded from the options table.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Driver    string // postgres | mysql | sqlite
	DSN       string
	SQLDriver string // pgx | postgres (lib/pq), postgres dialector only
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool
	RequireTLS bool
}

type ModerationConfig struct {
	Provider string // none | openai | gemini
	APIKey   string
	Model    string
}

type Config struct {
	Port               string
	Database           DatabaseConfig
	JWTSecret          string
	SessionSecret      string
	SMTP               SMTPConfig
	PushURLs           []string
	Moderation         ModerationConfig
	ThemeDir           string
	LogLevel           string
	LogFile            string
	RateLimitPerMinute int
	NonceTTL           time.Duration
	SiteName           string
	SiteURL            string
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port: v.GetString("port"),
		Database: DatabaseConfig{
			Driver:    strings.ToLower(v.GetString("db_driver")),
			DSN:       v.GetString("db_dsn"),
			SQLDriver: strings.ToLower(v.GetString("db_sql_driver")),
		},
		JWTSecret:     v.GetString("jwt_secret"),
		SessionSecret: v.GetString("session_secret"),
		SMTP: SMTPConfig{
			Host:       v.GetString("smtp_host"),
			Port:       v.GetInt("smtp_port"),
			Username:   v.GetString("smtp_username"),
			Password:   v.GetString("smtp_password"),
			From:       v.GetString("smtp_from"),
			FromName:   v.GetString("smtp_from_name"),
			UseSSL:     v.GetBool("smtp_use_ssl"),
			RequireTLS: v.GetBool("smtp_require_tls"),
		},
		PushURLs: SplitList(v.GetString("push_urls")),
		Moderation: ModerationConfig{
			Provider: strings.ToLower(v.GetString("moderation_provider")),
			APIKey:   v.GetString("moderation_api_key"),
			Model:    v.GetString("moderation_model"),
		},
		ThemeDir:           v.GetString("theme_dir"),
		LogLevel:           v.GetString("log_level"),
		LogFile:            v.GetString("log_file"),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		NonceTTL:           v.GetDuration("nonce_ttl"),
		SiteName:           v.GetString("site_name"),
		SiteURL:            v.GetString("site_url"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_dsn", "")
	v.SetDefault("db_sql_driver", "pgx")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_from_name", "Helpful")
	v.SetDefault("smtp_use_ssl", false)
	v.SetDefault("smtp_require_tls", true)
	v.SetDefault("moderation_provider", "none")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "helpful.log")
	v.SetDefault("rate_limit_per_minute", 20)
	v.SetDefault("nonce_ttl", 12*time.Hour)
	v.SetDefault("site_name", "Helpful")
	v.SetDefault("site_url", "http://localhost:8080")
}

// SplitList splits a comma-separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
