// Package config reads process configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// shop client
	APIURL      string
	UserID      string
	LoadTimeout time.Duration
}

// Load reads .env (outside production) and then the environment.
// Variables already set in the environment win over .env entries.
func Load() (Config, error) {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8082")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("API_URL", "http://localhost:8082")
	v.SetDefault("USER_ID", "guest")
	v.SetDefault("LOAD_TIMEOUT", "10s")
	for _, key := range []string{"DATABASE_URL", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	timeout, err := time.ParseDuration(v.GetString("LOAD_TIMEOUT"))
	if err != nil {
		return Config{}, fmt.Errorf("LOAD_TIMEOUT: %w", err)
	}

	return Config{
		Env:         v.GetString("ENV"),
		Port:        strings.TrimPrefix(v.GetString("PORT"), ":"),
		LogLevel:    strings.ToLower(v.GetString("LOG_LEVEL")),
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),
		APIURL:      strings.TrimRight(v.GetString("API_URL"), "/"),
		UserID:      v.GetString("USER_ID"),
		LoadTimeout: timeout,
	}, nil
}

// DSN returns DATABASE_URL or builds a connection string from the DB_*
// variables.
func (c Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode), nil
}

// Logger builds a development logger for LOG_LEVEL=debug and a production
// logger otherwise.
func (c Config) Logger() (*zap.Logger, error) {
	if c.LogLevel == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(c.LogLevel); err == nil {
		cfg.Level = lvl
	}
	return cfg.Build()
}
