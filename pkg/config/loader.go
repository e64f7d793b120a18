package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/giftgram/giftgram/pkg/logger"
)

// Load reads configuration from ./configs/<APP_ENV>.yaml and environment
// variables, validates it, and returns the resulting Config alongside the
// viper instance for optional watching.
func Load() (*Config, *viper.Viper, error) {
	// Missing env files are fine; deployment injects real environment.
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env
	cfg.Logger.SentryEnabled = cfg.Sentry.Enabled

	applyDefaults(&cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, v, nil
}

// WatchLogLevel re-reads the log level when the config file changes on disk.
// Only the level is hot-reloaded; everything else requires a restart.
func WatchLogLevel(v *viper.Viper, log *slog.Logger) {
	v.OnConfigChange(func(event fsnotify.Event) {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}

		level := v.GetString("logger.level")
		logger.SetLevel(level)

		if log != nil {
			log.Info("log level reloaded",
				slog.String("file", event.Name),
				slog.String("level", level),
			)
		}
	})
	v.WatchConfig()
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime <= 0 {
		cfg.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Bot.PollTimeout <= 0 {
		cfg.Bot.PollTimeout = 10 * time.Second
	}
	if cfg.Bot.ClientTimeout <= 0 {
		cfg.Bot.ClientTimeout = 5 * time.Second
	}
	if cfg.Bot.DedupTTL <= 0 {
		cfg.Bot.DedupTTL = 10 * time.Minute
	}
}
