package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix prefixes every environment override, e.g.
// TRAINER_REDIS_ADDRS or TRAINER_AUTH_SECRET.
const DefaultEnvPrefix = "TRAINER"

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	ConfigPath    string // directory holding config_<env>.yaml, default "./configs"
	EnvPrefix     string // environment variable prefix, default "TRAINER"
	EnvFile       string // .env file; ENV_FILE or ".env" when empty
	AllowNoConfig bool   // run from defaults and environment only
}

var defaults = map[string]interface{}{
	"app.env":                "dev",
	"app.http_addr":          ":8080",
	"app.grpc_addr":          ":50051",
	"app.shutdown_timeout":   30 * time.Second,
	"log.format":             "json",
	"log.level":              "info",
	"log.report_caller":      false,
	"log.file.enabled":       false,
	"log.file.dir":           "./logs",
	"log.file.filename":      "trainer-api",
	"log.file.max_age_days":  7,
	"log.file.rotation_days": 1,
	"redis.mode":             RedisModeSingle,
	"redis.addrs":            []string{"localhost:6379"},
	"redis.master_name":      "",
	"redis.username":         "",
	"redis.password":         "",
	"redis.db":               0,
	"redis.pool_size":        10,
	"redis.max_retries":      3,
	"redis.use_tls":          false,
	"auth.secret":            "",
	"auth.issuer":            "trainer-api",
	"auth.token_ttl":         time.Hour,
	"auth.clock_skew":        30 * time.Second,
}

// Load reads the configuration and validates it
func Load(opts LoadOptions) (*Config, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = "./configs"
	}
	if opts.EnvPrefix == "" {
		opts.EnvPrefix = DefaultEnvPrefix
	}

	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(fmt.Sprintf("config_%s", GetEnv()))
	v.SetConfigType("yaml")
	v.AddConfigPath(opts.ConfigPath)

	v.SetEnvPrefix(opts.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || !opts.AllowNoConfig {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		path = os.Getenv("ENV_FILE")
	}
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s failed: %w", path, err)
	}
	return nil
}

// GetEnv returns APP_ENV, defaulting to "dev"
func GetEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "dev"
}
