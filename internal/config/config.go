package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Reference  ReferenceConfig  `mapstructure:"reference"`
	AppSource  AppSourceConfig  `mapstructure:"app_source"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SettlementConfig holds settlement engine configuration. ReferenceRate is
// the fixed foreign-to-home rate applied to per-diem standards; it is
// deliberately independent of the editable per-expense exchange rates and of
// the currency reference table.
type SettlementConfig struct {
	ReferenceRate float64 `mapstructure:"reference_rate"`
}

// ReferenceConfig holds reference table configuration. An empty
// LocationTablePath selects the built-in per-diem table.
type ReferenceConfig struct {
	LocationTablePath string `mapstructure:"location_table_path"`
}

// AppSourceConfig holds application-source configuration
type AppSourceConfig struct {
	FetchLatency time.Duration `mapstructure:"fetch_latency"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Preload .env for local development; absence is fine
	_ = gotenv.Load()

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file falls back to defaults + env
		if _, statErr := os.Stat(configPath); statErr == nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Settlement defaults
	viper.SetDefault("settlement.reference_rate", 7.23)

	// Reference table defaults
	viper.SetDefault("reference.location_table_path", "")

	// Application source defaults
	viper.SetDefault("app_source.fetch_latency", 600*time.Millisecond)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("settlement.reference_rate", "SETTLEMENT_REFERENCE_RATE")
	viper.BindEnv("reference.location_table_path", "LOCATION_TABLE_PATH")
	viper.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Settlement.ReferenceRate <= 0 {
		return fmt.Errorf("settlement.reference_rate must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number")
	}
	return nil
}
