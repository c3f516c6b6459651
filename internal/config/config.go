package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // Gym time zones must resolve in minimal containers

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Gym      GymConfig      `mapstructure:"gym"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Reports  ReportsConfig  `mapstructure:"reports"`
	Rollbar  RollbarConfig  `mapstructure:"rollbar"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"` // Duration string in the file, e.g. "8h"
}

// GymConfig holds settings of the gym itself.
type GymConfig struct {
	// Timezone decides what "the same calendar day" means for duplicate check-ins.
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone, falling back to UTC when unset.
func (g GymConfig) Location() (*time.Location, error) {
	if g.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(g.Timezone)
}

// NotifyConfig selects and configures the e-mail provider for plan notifications.
type NotifyConfig struct {
	Provider       string `mapstructure:"provider"` // log, resend or sendgrid
	From           string `mapstructure:"from"`
	AppName        string `mapstructure:"app_name"`
	ResendAPIKey   string `mapstructure:"resend_api_key"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
}

// ReportsConfig controls archiving of completed-plan reports in object storage.
type ReportsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type RollbarConfig struct {
	Token       string `mapstructure:"token"`
	Environment string `mapstructure:"environment"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or text
}

// LoadConfig reads configuration from file or environment variables.
// A .env file next to the config file is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	// server.address -> SERVER_ADDRESS, notify.resend_api_key -> NOTIFY_RESEND_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// --- Defaults ---
	// Every key needs a default (or a file entry) for AutomaticEnv to reach it on Unmarshal.
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "gym_membership")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "8h") // One front-desk shift
	v.SetDefault("gym.timezone", "UTC")
	v.SetDefault("notify.provider", "log")
	v.SetDefault("notify.from", "")
	v.SetDefault("notify.app_name", "Gym")
	v.SetDefault("notify.resend_api_key", "")
	v.SetDefault("notify.sendgrid_api_key", "")
	v.SetDefault("reports.enabled", false)
	v.SetDefault("rollbar.token", "")
	v.SetDefault("rollbar.environment", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// --- Read Config File ---
	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file: run on defaults and environment only.
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	if _, err = config.Gym.Location(); err != nil {
		return
	}

	return config, nil
}
