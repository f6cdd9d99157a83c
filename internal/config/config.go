package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the aura service.
// Environment variables are parsed from the AURA_ prefix.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store selection: memory, sqlite or postgres
	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// External cleanup verifier (image pair -> verdict)
	VerifierURL            string `envconfig:"VERIFIER_URL" default:""`
	VerifierTimeoutSeconds int    `envconfig:"VERIFIER_TIMEOUT_SECONDS" default:"20"`

	// Text-to-speech collaborator (ElevenLabs-compatible API)
	SpeechURL            string `envconfig:"SPEECH_URL" default:"https://api.elevenlabs.io"`
	SpeechAPIKey         string `envconfig:"SPEECH_API_KEY" default:""`
	SpeechVoiceID        string `envconfig:"SPEECH_VOICE_ID" default:"EXAVITQu4vr4xnSDxMaL"`
	SpeechTimeoutSeconds int    `envconfig:"SPEECH_TIMEOUT_SECONDS" default:"30"`

	// Browser frontend origins
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Scoring policy. Bounds are inclusive at both edges.
	MinWalkSeconds     float64 `envconfig:"MIN_WALK_SECONDS" default:"600"`
	MinBikeSeconds     float64 `envconfig:"MIN_BIKE_SECONDS" default:"600"`
	MinBikeMeters      float64 `envconfig:"MIN_BIKE_METERS" default:"2000"`
	MinBikeKmh         float64 `envconfig:"MIN_BIKE_KMH" default:"8.0"`
	MaxBikeKmh         float64 `envconfig:"MAX_BIKE_KMH" default:"35.0"`
	MinWasteConfidence float64 `envconfig:"MIN_WASTE_CONFIDENCE" default:"0.70"`

	MindfulnessDailyCap int `envconfig:"MINDFULNESS_DAILY_CAP" default:"2"`

	WellbeingPoints int `envconfig:"WELLBEING_POINTS" default:"5"`
	WalkPoints      int `envconfig:"WALK_POINTS" default:"20"`
	BikePoints      int `envconfig:"BIKE_POINTS" default:"20"`
	WastePoints     int `envconfig:"WASTE_POINTS" default:"25"`

	// Neighborhood assigned on first-seen lookup when unset.
	DefaultNeighborhood string `envconfig:"DEFAULT_NEIGHBORHOOD" default:"unassigned"`

	// Health monitoring
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"5"`
}

// Validate checks driver selection and policy constants for basic sanity.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "memory":
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("AURA_SQLITE_PATH required for sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("AURA_POSTGRES_DSN required for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}

	if c.MinBikeKmh > c.MaxBikeKmh {
		return fmt.Errorf("MIN_BIKE_KMH %.1f exceeds MAX_BIKE_KMH %.1f", c.MinBikeKmh, c.MaxBikeKmh)
	}
	if c.MinWasteConfidence < 0 || c.MinWasteConfidence > 1 {
		return fmt.Errorf("MIN_WASTE_CONFIDENCE must be in [0,1], got %f", c.MinWasteConfidence)
	}
	if c.MindfulnessDailyCap < 1 {
		return fmt.Errorf("MINDFULNESS_DAILY_CAP must be at least 1")
	}
	if c.WellbeingPoints < 0 || c.WalkPoints < 0 || c.BikePoints < 0 || c.WastePoints < 0 {
		return fmt.Errorf("point values must be non-negative")
	}
	return nil
}

// AllowedOrigins splits the configured CORS origin list.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// New creates a Config by parsing AURA_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("AURA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewForTesting returns a config with default policy values and the
// in-memory store, suitable for unit tests.
func NewForTesting() *Config {
	return &Config{
		HTTPPort:                  8080,
		StoreDriver:               "memory",
		VerifierTimeoutSeconds:    20,
		SpeechURL:                 "https://api.elevenlabs.io",
		SpeechVoiceID:             "EXAVITQu4vr4xnSDxMaL",
		SpeechTimeoutSeconds:      30,
		CORSAllowedOrigins:        "http://localhost:3000",
		MinWalkSeconds:            600,
		MinBikeSeconds:            600,
		MinBikeMeters:             2000,
		MinBikeKmh:                8.0,
		MaxBikeKmh:                35.0,
		MinWasteConfidence:        0.70,
		MindfulnessDailyCap:       2,
		WellbeingPoints:           5,
		WalkPoints:                20,
		BikePoints:                20,
		WastePoints:               25,
		DefaultNeighborhood:       "unassigned",
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 5,
	}
}
