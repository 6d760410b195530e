// Package config loads trainer-api settings from .env files, an optional
// YAML file per environment and TRAINER_* environment variables.
package config

import (
	"time"

	"github.com/KirkDiggler/trainer-api/internal/errors"
)

// Redis connection modes
const (
	RedisModeSingle   = "single"
	RedisModeCluster  = "cluster"
	RedisModeFailover = "failover"
)

// Config is the full service configuration
type Config struct {
	App   AppConfig   `yaml:"app" mapstructure:"app"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
	Auth  AuthConfig  `yaml:"auth" mapstructure:"auth"`
}

// AppConfig holds listener settings
type AppConfig struct {
	Env             string        `yaml:"env" mapstructure:"env"`
	HTTPAddr        string        `yaml:"http_addr" mapstructure:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr" mapstructure:"grpc_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LogConfig controls the logger
type LogConfig struct {
	Format       string        `yaml:"format" mapstructure:"format"`
	Level        string        `yaml:"level" mapstructure:"level"`
	ReportCaller bool          `yaml:"report_caller" mapstructure:"report_caller"`
	File         LogFileConfig `yaml:"file" mapstructure:"file"`
}

// LogFileConfig enables rotated log files next to stdout
type LogFileConfig struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir          string `yaml:"dir" mapstructure:"dir"`
	Filename     string `yaml:"filename" mapstructure:"filename"`
	MaxAgeDays   int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	RotationDays int    `yaml:"rotation_days" mapstructure:"rotation_days"`
}

// RedisConfig selects and configures the Redis client
type RedisConfig struct {
	Mode       string   `yaml:"mode" mapstructure:"mode"`
	Addrs      []string `yaml:"addrs" mapstructure:"addrs"`
	MasterName string   `yaml:"master_name" mapstructure:"master_name"`
	Username   string   `yaml:"username" mapstructure:"username"`
	Password   string   `yaml:"password" mapstructure:"password"`
	DB         int      `yaml:"db" mapstructure:"db"`
	PoolSize   int      `yaml:"pool_size" mapstructure:"pool_size"`
	MaxRetries int      `yaml:"max_retries" mapstructure:"max_retries"`
	UseTLS     bool     `yaml:"use_tls" mapstructure:"use_tls"`
}

// AuthConfig controls bearer token verification
type AuthConfig struct {
	Secret    string        `yaml:"secret" mapstructure:"secret"`
	Issuer    string        `yaml:"issuer" mapstructure:"issuer"`
	TokenTTL  time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
	ClockSkew time.Duration `yaml:"clock_skew" mapstructure:"clock_skew"`
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.App.HTTPAddr == "" {
		vb.RequiredField("app.http_addr")
	}
	if c.App.ShutdownTimeout <= 0 {
		vb.Field("app.shutdown_timeout", "must be positive")
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		vb.InvalidField("log.format", "must be json or text")
	}

	switch c.Redis.Mode {
	case RedisModeSingle, RedisModeCluster:
	case RedisModeFailover:
		if c.Redis.MasterName == "" {
			vb.Field("redis.master_name", "is required in failover mode")
		}
	default:
		vb.InvalidField("redis.mode", "must be single, cluster or failover")
	}
	if len(c.Redis.Addrs) == 0 {
		vb.RequiredField("redis.addrs")
	}

	if c.Auth.Secret == "" {
		vb.RequiredField("auth.secret")
	}
	if c.Auth.TokenTTL <= 0 {
		vb.Field("auth.token_ttl", "must be positive")
	}

	return vb.Build()
}
