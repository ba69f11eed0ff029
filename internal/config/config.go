package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Log     LogConfig
	CORS    CORSConfig
	Metrics MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	ConnectTimeout time.Duration `mapstructure:"-"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// IsProduction returns true if the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
