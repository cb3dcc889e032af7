package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SA"

// Defaults applied before any file or environment value.
const (
	DefaultPort                   = 8080
	DefaultLogLevel               = "info"
	DefaultRequestTimeoutSeconds  = 60
	DefaultShutdownTimeoutSeconds = 15
	DefaultTokenLifetimeMinutes   = 7 * 24 * 60
	DefaultBCryptCost             = 10
	DefaultModelName              = "gemini-2.5-flash"
	DefaultTemperature            = 0.7
	DefaultLLMTimeoutSeconds      = 60
	DefaultRequestsPerMinute      = 20
	DefaultBurst                  = 5
)

// legacyEnv maps config keys to the unprefixed variable names used by
// existing deployments' .env files. Prefixed variables take precedence.
var legacyEnv = map[string]string{
	"server.port":        "PORT",
	"database.url":       "DATABASE_URL",
	"auth.jwt_secret":    "JWT_SECRET",
	"llm.gemini_api_key": "GEMINI_API_KEY",
}

// Load configuration from environment variables and optionally config files.
// A .env file in the working directory is loaded first if present, then an
// optional config.yaml. Environment variables take precedence over values
// from config files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.request_timeout_seconds", DefaultRequestTimeoutSeconds)
	v.SetDefault("server.shutdown_timeout_seconds", DefaultShutdownTimeoutSeconds)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.token_lifetime_minutes", DefaultTokenLifetimeMinutes)
	v.SetDefault("auth.bcrypt_cost", DefaultBCryptCost)

	v.SetDefault("llm.model_name", DefaultModelName)
	v.SetDefault("llm.temperature", DefaultTemperature)
	v.SetDefault("llm.max_output_tokens", 0)
	v.SetDefault("llm.timeout_seconds", DefaultLLMTimeoutSeconds)

	v.SetDefault("rate_limit.requests_per_minute", DefaultRequestsPerMinute)
	v.SetDefault("rate_limit.burst", DefaultBurst)
}

// bindEnv registers keys that have no default, since AutomaticEnv only
// resolves keys viper already knows about during Unmarshal.
func bindEnv(v *viper.Viper) error {
	keys := []string{"database.url", "auth.jwt_secret", "llm.gemini_api_key", "llm.base_url", "server.port"}
	for _, key := range keys {
		names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("error binding environment for %s: %w", key, err)
		}
	}
	return nil
}
