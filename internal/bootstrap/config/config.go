package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"kudosimport/internal/bootstrap/logging"
	"kudosimport/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// GitHubConfig selects the upstream auth mode: a personal token, or a GitHub
// App installation when app_id/installation_id/private_key_path are all set.
// With neither, the client runs unauthenticated (only useful in tests).
type GitHubConfig struct {
	Token          string        `mapstructure:"token"`
	AppID          int64         `mapstructure:"app_id"`
	InstallationID int64         `mapstructure:"installation_id"`
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	BaseURL        string        `mapstructure:"base_url"`
	PageSize       int           `mapstructure:"page_size"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("KUDOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Int("github_page_size", cfg.GitHub.PageSize),
	)

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if cfg.GitHub.PageSize < 1 || cfg.GitHub.PageSize > 100 {
		return fmt.Errorf("github.page_size must be within 1..100, got %d", cfg.GitHub.PageSize)
	}
	if cfg.GitHub.Timeout <= 0 {
		return fmt.Errorf("github.timeout must be positive, got %s", cfg.GitHub.Timeout)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "kudosimport")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".data/kudos.sqlite")

	// Register every github key so env-only values survive Unmarshal.
	v.SetDefault("github.token", "")
	v.SetDefault("github.app_id", 0)
	v.SetDefault("github.installation_id", 0)
	v.SetDefault("github.private_key_path", "")
	v.SetDefault("github.base_url", "")
	v.SetDefault("github.page_size", 100)
	v.SetDefault("github.timeout", "30s")

	v.SetDefault("http.addr", ":8080")
}
