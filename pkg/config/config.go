package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/khonager/Trans/pkg/location"
	"github.com/khonager/Trans/pkg/route"
	"github.com/khonager/Trans/pkg/search"
	"github.com/khonager/Trans/pkg/transit"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

const envPrefix = "TRANS_"

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	BaseURL       string        `yaml:"base_url" validate:"required,url"`
	Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
	Attempts      int           `yaml:"attempts" validate:"gte=1,lte=10"`
	Debounce      time.Duration `yaml:"debounce" validate:"gte=0"`
	SearchResults int           `yaml:"search_results" validate:"gte=1,lte=50"`
	NearbyResults int           `yaml:"nearby_results" validate:"gte=1,lte=50"`

	Cache       CacheConfig      `yaml:"cache"`
	Location    LocationConfig   `yaml:"location"`
	Annotations AnnotationConfig `yaml:"annotations"`

	HomeStationID   string `yaml:"home_station_id,omitempty"`
	HomeStationName string `yaml:"home_station_name,omitempty"`

	Timezone    string `yaml:"timezone,omitempty" validate:"omitempty,timezone"`
	AccentColor string `yaml:"accent_color,omitempty" validate:"omitempty,hexcolor|numeric"`
	LogLevel    string `yaml:"log_level" validate:"oneof=trace debug info warn error disabled"`
}

type CacheConfig struct {
	Backend   string        `yaml:"backend" validate:"oneof=memory redis none"`
	RedisAddr string        `yaml:"redis_addr,omitempty" validate:"omitempty,hostname_port"`
	TTL       time.Duration `yaml:"ttl" validate:"gte=0"`
}

// LocationConfig stands in for a device location service. Coordinates are
// only reported when Enabled is set.
type LocationConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Latitude  *float64 `yaml:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `yaml:"longitude,omitempty" validate:"omitempty,longitude"`
}

type AnnotationConfig struct {
	AlertChance   float64 `yaml:"alert_chance" validate:"gte=0,lte=1"`
	SeatingChance float64 `yaml:"seating_chance" validate:"gte=0,lte=1"`
	MaxChatCount  int     `yaml:"max_chat_count" validate:"gte=0"`
}

// Default returns the settings used when nothing is configured.
func Default() *AppConfig {
	odds := route.DefaultAnnotationOdds()
	return &AppConfig{
		BaseURL:       "https://v6.db.transport.rest",
		Timeout:       30 * time.Second,
		Attempts:      3,
		Debounce:      search.DefaultDebounce,
		SearchResults: transit.DefaultSearchResults,
		NearbyResults: transit.DefaultNearbyResults,
		Cache: CacheConfig{
			Backend: CacheMemory,
			TTL:     10 * time.Minute,
		},
		Annotations: AnnotationConfig{
			AlertChance:   odds.AlertChance,
			SeatingChance: odds.SeatingChance,
			MaxChatCount:  odds.MaxChatCount,
		},
		LogLevel: "warn",
	}
}

// getConfigPath returns the absolute path to ~/.trans.yaml
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".trans.yaml"), nil
}

// Load reads the application configuration from disk.
// Returns the defaults if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadRuntime is Load plus a .env file in the working directory and TRANS_*
// environment overrides. The result should not be saved back to disk.
func LoadRuntime() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New("invalid configuration: the redis cache needs redis_addr")
	}
	if (c.Location.Latitude == nil) != (c.Location.Longitude == nil) {
		return errors.New("invalid configuration: latitude and longitude must be set together")
	}
	return nil
}

// ApplyEnv overrides fields from TRANS_* variables.
func (c *AppConfig) ApplyEnv() error {
	strs := map[string]*string{
		"BASE_URL":     &c.BaseURL,
		"CACHE":        &c.Cache.Backend,
		"REDIS_ADDR":   &c.Cache.RedisAddr,
		"TIMEZONE":     &c.Timezone,
		"LOG_LEVEL":    &c.LogLevel,
		"HOME_STATION": &c.HomeStationID,
	}
	for key, dst := range strs {
		if value := os.Getenv(envPrefix + key); value != "" {
			*dst = value
		}
	}

	durations := map[string]*time.Duration{
		"TIMEOUT":   &c.Timeout,
		"DEBOUNCE":  &c.Debounce,
		"CACHE_TTL": &c.Cache.TTL,
	}
	for key, dst := range durations {
		if value := os.Getenv(envPrefix + key); value != "" {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"ATTEMPTS":       &c.Attempts,
		"SEARCH_RESULTS": &c.SearchResults,
		"NEARBY_RESULTS": &c.NearbyResults,
	}
	for key, dst := range ints {
		if value := os.Getenv(envPrefix + key); value != "" {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	lat, lng := os.Getenv(envPrefix+"LAT"), os.Getenv(envPrefix+"LNG")
	if lat != "" || lng != "" {
		pos, err := ParsePosition(lat, lng)
		if err != nil {
			return err
		}
		c.SetPosition(pos)
	}

	return nil
}

// ParsePosition parses a pair of decimal degrees.
func ParsePosition(lat, lng string) (location.Position, error) {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return location.Position{}, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	longitude, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return location.Position{}, fmt.Errorf("invalid longitude %q: %w", lng, err)
	}

	pos := location.Position{Latitude: latitude, Longitude: longitude}
	if !pos.Valid() {
		return location.Position{}, fmt.Errorf("coordinates %s are out of range", pos)
	}
	return pos, nil
}

// SetPosition enables location and pins it to pos.
func (c *AppConfig) SetPosition(pos location.Position) {
	c.Location.Enabled = true
	c.Location.Latitude = &pos.Latitude
	c.Location.Longitude = &pos.Longitude
}

// Level maps LogLevel to a zerolog level, defaulting to warn.
func (c *AppConfig) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return level
}

// TimeLocation returns the zone clock times are rendered in. Nil means each
// timestamp keeps its own offset.
func (c *AppConfig) TimeLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("could not load timezone: %w", err)
	}
	return loc, nil
}

// LookupCache builds the configured station lookup cache, or nil when
// caching is off.
func (c *AppConfig) LookupCache() *transit.LookupCache {
	switch c.Cache.Backend {
	case CacheRedis:
		return transit.NewRedisCache(c.Cache.RedisAddr, c.Cache.TTL)
	case CacheNone:
		return nil
	default:
		return transit.NewMemoryCache(c.Cache.TTL)
	}
}

// Gateway wires an API client and gateway from the settings.
func (c *AppConfig) Gateway() *transit.Gateway {
	client := transit.NewClient(
		transit.WithBaseURL(c.BaseURL),
		transit.WithTimeout(c.Timeout),
		transit.WithAttempts(c.Attempts),
		transit.WithCache(c.LookupCache()),
	)
	return transit.NewGateway(client,
		transit.WithSearchResults(c.SearchResults),
		transit.WithNearbyResults(c.NearbyResults),
	)
}

// Platform returns the location platform described by the settings.
func (c *AppConfig) Platform() location.Platform {
	if c.Location.Latitude == nil || c.Location.Longitude == nil {
		if !c.Location.Enabled {
			return location.NewStatic(nil).Deny()
		}
		return location.NewStatic(nil)
	}

	pos := &location.Position{Latitude: *c.Location.Latitude, Longitude: *c.Location.Longitude}
	if !c.Location.Enabled {
		return location.NewStatic(pos).Deny()
	}
	return location.NewStatic(pos)
}

// Presenter builds a route presenter using the configured annotation odds
// and time zone.
func (c *AppConfig) Presenter() (*route.Presenter, error) {
	loc, err := c.TimeLocation()
	if err != nil {
		return nil, err
	}

	odds := route.AnnotationOdds{
		AlertChance:   c.Annotations.AlertChance,
		SeatingChance: c.Annotations.SeatingChance,
		MaxChatCount:  c.Annotations.MaxChatCount,
	}

	return route.NewPresenter(
		route.WithAnnotator(route.NewRandomAnnotator(odds, nil)),
		route.WithLocation(loc),
	), nil
}

// HomeStation returns the saved home station, if any.
func (c *AppConfig) HomeStation() (transit.Station, bool) {
	if c.HomeStationID == "" {
		return transit.Station{}, false
	}
	name := c.HomeStationName
	if name == "" {
		name = transit.UnknownStationName
	}
	return transit.Station{Type: "station", ID: c.HomeStationID, Name: name}, true
}
