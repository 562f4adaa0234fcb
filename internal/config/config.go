package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env           string        `yaml:"env"`
	LogLevel      string        `yaml:"log_level"`
	HTTPAddr      string        `yaml:"http_addr"`
	APIKey        string        `yaml:"-"`
	GeminiModel   string        `yaml:"gemini_model"`
	GeminiBaseURL string        `yaml:"gemini_base_url"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads .env, then the YAML file named by SLEEPSCOPE_CONFIG, then the
// environment. Later sources win. It panics on an invalid result.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		c, err := Parse(os.Getenv("SLEEPSCOPE_CONFIG"))
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

func Default() *Config {
	return &Config{
		Env:           "development",
		LogLevel:      "info",
		HTTPAddr:      ":8088",
		GeminiModel:   "gemini-2.5-flash",
		GeminiBaseURL: "https://generativelanguage.googleapis.com",
		SessionTTL:    30 * time.Minute,
	}
}

// Parse builds a Config without touching the package singleton.
func Parse(path string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config: parse YAML %s: %w", path, err)
		}
	}

	c.Env = getEnv("APP_ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.APIKey = getEnv("API_KEY", getEnv("GEMINI_API_KEY", ""))
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.GeminiBaseURL = getEnv("GEMINI_BASE_URL", c.GeminiBaseURL)
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate does not require APIKey: only commands that call the model need it.
func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR must not be empty")
	}
	if c.GeminiModel == "" {
		return errors.New("GEMINI_MODEL must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
