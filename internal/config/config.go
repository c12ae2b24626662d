// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/learnscout/internal/corpus"
	"github.com/jonathan/learnscout/internal/llm"
	"github.com/jonathan/learnscout/internal/logger"
	"github.com/jonathan/learnscout/internal/pipeline"
	"github.com/jonathan/learnscout/internal/reddit"
)

// APIKeyEnv is the environment variable consulted when no API key is configured.
const APIKeyEnv = "GEMINI_API_KEY"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from CLI flags.
type Config struct {
	// Classifier
	APIKey string `json:"api_key,omitempty"` // Gemini API key
	Model  string `json:"model,omitempty"`   // Overrides the lite-tier model

	// Content platform
	BaseURL     string `json:"base_url,omitempty" validate:"omitempty,url"`
	UserAgent   string `json:"user_agent,omitempty"`
	WindowYears int    `json:"window_years,omitempty" validate:"gte=-1"`           // 0 = default, -1 = no cutoff
	SearchLimit int    `json:"search_limit,omitempty" validate:"gte=0,lte=100"`    // Results per search request
	Concurrency int    `json:"concurrency,omitempty" validate:"gte=0,lte=256"`     // Max in-flight detail fetches
	MaxDepth    int    `json:"max_reply_depth,omitempty" validate:"gte=0,lte=500"` // Reply-tree depth guard

	// Trimming
	BodyCap        int `json:"body_cap,omitempty" validate:"gte=0"`
	CommentCap     int `json:"comment_cap,omitempty" validate:"gte=0"`
	CommentBodyCap int `json:"comment_body_cap,omitempty" validate:"gte=0"`

	// Behavior
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Verbose  bool   `json:"verbose,omitempty"` // Print a corpus summary box
}

// Default returns the built-in configuration.
func Default() Config {
	limits := corpus.DefaultLimits()
	return Config{
		BaseURL:        reddit.DefaultBaseURL,
		UserAgent:      reddit.DefaultUserAgent,
		WindowYears:    reddit.DefaultWindowYears,
		SearchLimit:    reddit.DefaultSearchLimit,
		Concurrency:    pipeline.DefaultConcurrency,
		MaxDepth:       reddit.DefaultMaxReplyDepth,
		BodyCap:        limits.BodyCap,
		CommentCap:     limits.CommentCap,
		CommentBodyCap: limits.CommentBodyCap,
		LogLevel:       "info",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required values such as the API key are checked by the CLI after merging.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("'%s' fails %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.WindowYears == 0 {
		result.WindowYears = defaults.WindowYears
	}
	if result.SearchLimit == 0 {
		result.SearchLimit = defaults.SearchLimit
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.MaxDepth == 0 {
		result.MaxDepth = defaults.MaxDepth
	}
	if result.BodyCap == 0 {
		result.BodyCap = defaults.BodyCap
	}
	if result.CommentCap == 0 {
		result.CommentCap = defaults.CommentCap
	}
	if result.CommentBodyCap == 0 {
		result.CommentBodyCap = defaults.CommentBodyCap
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ResolveAPIKey returns the configured key, falling back to the environment.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(APIKeyEnv)
}

// RedditOptions converts the config into content platform client options.
func (c *Config) RedditOptions() *reddit.Options {
	opts := reddit.DefaultOptions()
	if c.BaseURL != "" {
		opts.BaseURL = c.BaseURL
	}
	if c.UserAgent != "" {
		opts.UserAgent = c.UserAgent
	}
	if c.SearchLimit > 0 {
		opts.SearchLimit = c.SearchLimit
	}
	if c.MaxDepth > 0 {
		opts.MaxReplyDepth = c.MaxDepth
	}
	return opts
}

// Limits returns the trimming caps.
func (c *Config) Limits() corpus.Limits {
	return corpus.Limits{
		BodyCap:        c.BodyCap,
		CommentCap:     c.CommentCap,
		CommentBodyCap: c.CommentBodyCap,
	}
}

// LLMConfig returns the classifier configuration with any model override applied.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	if c.Model != "" {
		cfg = cfg.WithModel(llm.TierLite, c.Model)
	}
	return cfg
}

// LoggerConfig returns the logger configuration. Verbose mode lowers the level to debug.
func (c *Config) LoggerConfig() logger.Config {
	level := c.LogLevel
	if c.Verbose {
		level = "debug"
	}
	cfg := logger.Config{Level: level}
	cfg.SetDefaults()
	return cfg
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
