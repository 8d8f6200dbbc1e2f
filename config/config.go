package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	APIBaseURL string `mapstructure:"API_BASE_URL"`
	Env        string `mapstructure:"ENV"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	// HTTP bounds, applied identically to every request.
	HTTPConnectTimeout time.Duration `mapstructure:"HTTP_CONNECT_TIMEOUT"`
	HTTPReadTimeout    time.Duration `mapstructure:"HTTP_READ_TIMEOUT"`
	HTTPWriteTimeout   time.Duration `mapstructure:"HTTP_WRITE_TIMEOUT"`
	MaxRequestsPerMin  int           `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Circuit breaker.
	BreakerEnabled     bool          `mapstructure:"BREAKER_ENABLED"`
	BreakerMaxFailures uint32        `mapstructure:"BREAKER_MAX_FAILURES"`
	BreakerOpenTimeout time.Duration `mapstructure:"BREAKER_OPEN_TIMEOUT"`

	// Session persistence.
	SessionBackend   string `mapstructure:"SESSION_BACKEND"`
	SessionNamespace string `mapstructure:"SESSION_NAMESPACE"`
	SessionFile      string `mapstructure:"SESSION_FILE"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// Mongo configuration.
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
}

var AppConfig Config

// Default returns the configuration used when nothing is set in the environment.
func Default() Config {
	return Config{
		APIBaseURL:         "http://localhost:8080/",
		Env:                "development",
		LogLevel:           "info",
		HTTPConnectTimeout: 30 * time.Second,
		HTTPReadTimeout:    30 * time.Second,
		HTTPWriteTimeout:   30 * time.Second,
		MaxRequestsPerMin:  600,
		BreakerEnabled:     true,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: 10 * time.Second,
		SessionBackend:     "file",
		SessionNamespace:   "room_rental_prefs",
		SessionFile:        defaultSessionFile(),
		RedisAddr:          "localhost:6379",
		RedisSessionDB:     0,
		DatabaseURL:        "mongodb://localhost:27017",
		MongoDatabase:      "roomrental",
	}
}

// LoadConfig reads config.yaml (if any), a .env file (if any) and the environment,
// in increasing order of precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ignoring unreadable .env file: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("API_BASE_URL", d.APIBaseURL)
	v.SetDefault("ENV", d.Env)
	v.SetDefault("LOG_LEVEL", d.LogLevel)
	v.SetDefault("HTTP_CONNECT_TIMEOUT", d.HTTPConnectTimeout)
	v.SetDefault("HTTP_READ_TIMEOUT", d.HTTPReadTimeout)
	v.SetDefault("HTTP_WRITE_TIMEOUT", d.HTTPWriteTimeout)
	v.SetDefault("MAX_REQUESTS_PER_MIN", d.MaxRequestsPerMin)
	v.SetDefault("BREAKER_ENABLED", d.BreakerEnabled)
	v.SetDefault("BREAKER_MAX_FAILURES", d.BreakerMaxFailures)
	v.SetDefault("BREAKER_OPEN_TIMEOUT", d.BreakerOpenTimeout)
	v.SetDefault("SESSION_BACKEND", d.SessionBackend)
	v.SetDefault("SESSION_NAMESPACE", d.SessionNamespace)
	v.SetDefault("SESSION_FILE", d.SessionFile)
	v.SetDefault("REDIS_ADDR", d.RedisAddr)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", d.RedisSessionDB)
	v.SetDefault("DATABASE_URL", d.DatabaseURL)
	v.SetDefault("MONGO_DATABASE", d.MongoDatabase)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	AppConfig = cfg
	return &cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "roomrental", "session.json")
}
