package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Datasets DatasetsConfig
	Engine   EngineConfig
	DB       DatabaseConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	RateLimit int // requests per second, global
}

type DatasetsConfig struct {
	PerimeterPath string
	IAPPath       string
}

type EngineConfig struct {
	Workers         int // batch perimeter processing concurrency
	DefaultRadiusKm float64
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "localhost"),
			Port:      getEnvInt("SERVER_PORT", 8080),
			RateLimit: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		Datasets: DatasetsConfig{
			PerimeterPath: getEnv("PERIMETER_DATASET", "./data/fire-perimeters.geojson"),
			IAPPath:       getEnv("IAP_DATASET", "./data/iap-records.json"),
		},
		Engine: EngineConfig{
			Workers:         getEnvInt("ENGINE_WORKERS", 4),
			DefaultRadiusKm: getEnvFloat("DEFAULT_RADIUS_KM", 100),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/fireline.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Server.RateLimit < 1 {
		return fmt.Errorf("rate limit must be at least 1 rps")
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("engine workers must be at least 1")
	}
	if c.Engine.DefaultRadiusKm <= 0 {
		return fmt.Errorf("default radius must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}
