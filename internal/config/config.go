package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is where client commands look for the backend when nothing
// else is configured.
const DefaultBaseURL = "http://localhost:8000"

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Quiz struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"quiz"`
	Client struct {
		BaseURL  string `yaml:"base_url"`
		TokenDir string `yaml:"token_dir"`
	} `yaml:"client"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault reads the config file if it exists; a missing file yields the
// zero config so client commands work without any local setup.
func LoadOrDefault(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		return Config{}
	}
	return cfg
}

// BaseURL resolves the client base URL: SPARK_QUIZ_API_URL, then config file,
// then the local development default.
func (c Config) BaseURL() string {
	if env := os.Getenv("SPARK_QUIZ_API_URL"); env != "" {
		return env
	}
	if c.Client.BaseURL != "" {
		return c.Client.BaseURL
	}
	return DefaultBaseURL
}

// TTLDuration parses a duration string or returns the fallback if empty or invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
