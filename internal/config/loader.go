package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Optionally read from config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/issueboard")

	// Ignore error if config file not found
	_ = v.ReadInConfig()

	var cfg Config

	// Server
	cfg.Server.Host = v.GetString("server_host")
	cfg.Server.Port = v.GetInt("server_port")
	cfg.Server.Env = v.GetString("server_env")

	// MongoDB
	cfg.Mongo.URI = v.GetString("mongo_uri")
	cfg.Mongo.Database = v.GetString("mongo_db")
	cfg.Mongo.TimeoutSeconds = v.GetInt("mongo_timeout_seconds")
	cfg.Mongo.ConnectTimeout = time.Duration(cfg.Mongo.TimeoutSeconds) * time.Second

	// Logging
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Format = v.GetString("log_format")

	// CORS
	cfg.CORS.AllowedOrigins = v.GetStringSlice("cors_allowed_origins")

	// Metrics
	cfg.Metrics.Enabled = v.GetBool("metrics_enabled")

	// Validate required fields
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8080)
	v.SetDefault("server_env", "development")

	// MongoDB defaults
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "issueboard")
	v.SetDefault("mongo_timeout_seconds", 10)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// CORS defaults
	v.SetDefault("cors_allowed_origins", []string{"*"})

	// Metrics defaults
	v.SetDefault("metrics_enabled", true)
}

func validate(cfg *Config) error {
	if cfg.Mongo.URI == "" {
		return fmt.Errorf("mongo URI must not be empty")
	}
	if cfg.Mongo.Database == "" {
		return fmt.Errorf("mongo database must not be empty")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	return nil
}
