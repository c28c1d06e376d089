package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds all application configuration
type Config struct {
	// TMDb
	TMDBAPIKey       string
	TMDBBaseURL      string // e.g. https://api.themoviedb.org/3/
	TMDBImageBaseURL string // prefix for poster/backdrop paths
	DiscoverEndpoint string // relative to TMDBBaseURL
	TrendingEndpoint string // relative to TMDBBaseURL
	IncludeAdult     bool
	Language         string // canonical BCP 47 tag, empty when not configured
	HTTPTimeout      time.Duration

	// Server
	ServerPort string

	// Scheduler
	RefreshSchedule string // cron spec, empty disables periodic refresh

	// Observability
	LogLevel       string
	TracingEnabled bool // log finished spans at debug level
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3/")
	v.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500/")
	v.SetDefault("TMDB_DISCOVER_ENDPOINT", "discover/movie")
	v.SetDefault("TMDB_TRENDING_ENDPOINT", "trending/movie/week")
	v.SetDefault("TMDB_INCLUDE_ADULT", false)
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRACING_ENABLED", false)
}

func fromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	config := &Config{
		// TMDb
		TMDBAPIKey:       strings.TrimSpace(v.GetString("TMDB_API_KEY")),
		TMDBBaseURL:      v.GetString("TMDB_BASE_URL"),
		TMDBImageBaseURL: v.GetString("TMDB_IMAGE_BASE_URL"),
		DiscoverEndpoint: v.GetString("TMDB_DISCOVER_ENDPOINT"),
		TrendingEndpoint: v.GetString("TMDB_TRENDING_ENDPOINT"),
		IncludeAdult:     v.GetBool("TMDB_INCLUDE_ADULT"),
		HTTPTimeout:      time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,

		// Server
		ServerPort: v.GetString("SERVER_PORT"),

		// Scheduler
		RefreshSchedule: strings.TrimSpace(v.GetString("REFRESH_SCHEDULE")),

		// Observability
		LogLevel:       v.GetString("LOG_LEVEL"),
		TracingEnabled: v.GetBool("TRACING_ENABLED"),
	}

	// Validate required fields
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if _, err := url.Parse(config.TMDBBaseURL); err != nil || config.TMDBBaseURL == "" {
		return nil, fmt.Errorf("TMDB_BASE_URL is invalid: %q", config.TMDBBaseURL)
	}
	if config.DiscoverEndpoint == "" || config.TrendingEndpoint == "" {
		return nil, fmt.Errorf("TMDB_DISCOVER_ENDPOINT and TMDB_TRENDING_ENDPOINT must not be empty")
	}
	if config.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}

	if raw := strings.TrimSpace(v.GetString("TMDB_LANGUAGE")); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("TMDB_LANGUAGE is not a valid language tag: %w", err)
		}
		config.Language = tag.String()
	}

	return config, nil
}
