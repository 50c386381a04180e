// Package config loads the settings needed to talk to a recipe API, either
// from a YAML file with environment variable substitution or from the
// process environment alone.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"philcali.me/foodrecipes/internal/mealdb"
	"philcali.me/foodrecipes/internal/recipeapi"
)

const (
	BackendRecipeAPI = "recipeapi"
	BackendMealDB    = "mealdb"
)

type Config struct {
	RecipeAPI  RecipeAPIConfig  `yaml:"recipe_api"`
	PageTokens PageTokensConfig `yaml:"page_tokens"`
	CORS       CORSConfig       `yaml:"cors"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CORSConfig lists the browser origins allowed to call the HTTP API. Empty
// allows any origin.
type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// RecipeAPIConfig selects the remote backend and how requests are issued.
type RecipeAPIConfig struct {
	Backend   string          `yaml:"backend"` // recipeapi, mealdb
	BaseURL   string          `yaml:"base_url"`
	APIKey    string          `yaml:"api_key"`
	Timeout   time.Duration   `yaml:"timeout"`
	PageSize  int             `yaml:"page_size"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig throttles outgoing calls. A zero PerSecond disables it.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// PageTokensConfig keys the nextToken cursors handed out by the HTTP API.
type PageTokensConfig struct {
	Secret string `yaml:"secret"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads a YAML config file, expanding environment variables first.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse([]byte(os.ExpandEnv(string(raw))))
}

func Parse(raw []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return Resolve(cfg)
}

// FromEnv builds a config from RECIPE_* and LOG_* variables. Used by the
// Lambda handler, which has no config file.
func FromEnv() (*Config, error) {
	cfg := &Config{
		RecipeAPI: RecipeAPIConfig{
			Backend: os.Getenv("RECIPE_BACKEND"),
			BaseURL: os.Getenv("RECIPE_API_URL"),
			APIKey:  os.Getenv("RECIPE_API_KEY"),
		},
		PageTokens: PageTokensConfig{
			Secret: os.Getenv("PAGE_TOKEN_SECRET"),
		},
		CORS: CORSConfig{
			Origins: splitList(os.Getenv("CORS_ORIGINS")),
		},
		Logging: LoggingConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
		},
	}
	if v := os.Getenv("RECIPE_API_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parsing RECIPE_API_TIMEOUT: %w", err)
		}
		cfg.RecipeAPI.Timeout = timeout
	}
	if v := os.Getenv("RECIPE_PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parsing RECIPE_PAGE_SIZE: %w", err)
		}
		cfg.RecipeAPI.PageSize = size
	}
	// The HTTP API seals its page tokens with this secret.
	if cfg.PageTokens.Secret == "" {
		return nil, errors.New("validating config: PAGE_TOKEN_SECRET is required")
	}
	return Resolve(cfg)
}

// Resolve fills in defaults and validates a config assembled by hand, such
// as one built from CLI flags.
func Resolve(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	r := &cfg.RecipeAPI
	if r.Backend == "" {
		r.Backend = BackendRecipeAPI
	}
	if r.BaseURL == "" {
		switch r.Backend {
		case BackendMealDB:
			r.BaseURL = mealdb.DefaultBaseURL
		default:
			r.BaseURL = recipeapi.DefaultBaseURL
		}
	}
	// TheMealDB accepts "1" as its public development key.
	if r.APIKey == "" && r.Backend == BackendMealDB {
		r.APIKey = "1"
	}
	if r.Timeout == 0 {
		r.Timeout = 30 * time.Second
	}
	if r.PageSize == 0 {
		r.PageSize = 30
	}
	if r.RateLimit.PerSecond > 0 && r.RateLimit.Burst == 0 {
		r.RateLimit.Burst = 1
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error
	r := cfg.RecipeAPI
	switch r.Backend {
	case BackendRecipeAPI, BackendMealDB:
	default:
		errs = append(errs, fmt.Errorf("recipe_api.backend %q is not one of %s, %s", r.Backend, BackendRecipeAPI, BackendMealDB))
	}
	if r.APIKey == "" {
		errs = append(errs, errors.New("recipe_api.api_key is required"))
	}
	if r.PageSize < 0 {
		errs = append(errs, errors.New("recipe_api.page_size must not be negative"))
	}
	if r.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("recipe_api.rate_limit.per_second must not be negative"))
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
