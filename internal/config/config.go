// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// DefaultTimezone is the locale all posting windows are computed in.
const DefaultTimezone = "Africa/Lagos"

// Config holds every setting the pipeline needs. Values come from a JSON
// config file, environment variables, or CLI flags, in increasing order of
// precedence. The pass threshold and attempt cap are fixed constants, not
// configuration.
type Config struct {
	// Provider credentials
	GeminiAPIKey     string `json:"gemini_api_key,omitempty" validate:"required"`
	TavilyAPIKey     string `json:"tavily_api_key,omitempty"`
	NotionAPIKey     string `json:"notion_api_key,omitempty"`
	NotionDatabaseID string `json:"notion_database_id,omitempty"`

	// Calendar
	CalendarID         string `json:"calendar_id,omitempty"`
	ServiceAccountFile string `json:"service_account_file,omitempty"`

	// Locale for posting windows
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`

	// Optional run persistence
	DatabaseURL string `json:"database_url,omitempty"`

	// WritingSample biases the writer's voice toward the creator's own
	// published text. Path to a plain text file; optional.
	WritingSample string `json:"writing_sample,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Load reads configuration from a JSON file. Returns an error if the file
// cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

// FromEnv returns a Config populated from environment variables.
func FromEnv() *Config {
	return &Config{
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		TavilyAPIKey:       os.Getenv("TAVILY_API_KEY"),
		NotionAPIKey:       os.Getenv("NOTION_API_KEY"),
		NotionDatabaseID:   os.Getenv("NOTION_DATABASE_ID"),
		CalendarID:         os.Getenv("GOOGLE_CALENDAR_ID"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		Timezone:           os.Getenv("CONTENT_TIMEZONE"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		WritingSample:      os.Getenv("WRITING_SAMPLE_PATH"),
	}
}

// MergeWithDefaults fills empty fields of c from defaults and returns the
// result. Bool fields are not merged; flags always win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.TavilyAPIKey == "" {
		result.TavilyAPIKey = defaults.TavilyAPIKey
	}
	if result.NotionAPIKey == "" {
		result.NotionAPIKey = defaults.NotionAPIKey
	}
	if result.NotionDatabaseID == "" {
		result.NotionDatabaseID = defaults.NotionDatabaseID
	}
	if result.CalendarID == "" {
		result.CalendarID = defaults.CalendarID
	}
	if result.ServiceAccountFile == "" {
		result.ServiceAccountFile = defaults.ServiceAccountFile
	}
	if result.Timezone == "" {
		result.Timezone = defaults.Timezone
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.WritingSample == "" {
		result.WritingSample = defaults.WritingSample
	}

	return result
}

// Validate checks the configuration using struct validation tags plus the
// cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}

	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Notion credentials travel in pairs.
	if (c.NotionAPIKey == "") != (c.NotionDatabaseID == "") {
		return fmt.Errorf("config error: notion_api_key and notion_database_id must be set together")
	}

	if c.WritingSample != "" {
		if _, err := os.Stat(c.WritingSample); os.IsNotExist(err) {
			return fmt.Errorf("config error: writing sample file not found: %s", c.WritingSample)
		}
	}

	return nil
}

// LoadWritingSample reads the configured writing sample file. Returns an
// empty string when no sample is configured.
func (c *Config) LoadWritingSample() (string, error) {
	if c.WritingSample == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.WritingSample)
	if err != nil {
		return "", fmt.Errorf("failed to read writing sample %s: %w", c.WritingSample, err)
	}
	return string(data), nil
}
