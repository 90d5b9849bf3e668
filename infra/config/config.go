package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds application-level configuration.
type Config struct {
	BackendURL     string  // Base URL of the Meetify backend
	Token          string  // Bearer token for the backend API
	UserID         string  // The authenticated user's id
	Username       string  // Display name shown on own posts
	HomeLat        float64 // Home location for the "nearby events" filter
	HomeLng        float64
	NearbyRadiusKm float64 // Radius for the nearby filter
	LogPath        string  // File the logger writes to (TUI owns the terminal)
}

// tomlConfig mirrors the optional config file at
// ~/.config/meetify/config.toml.
type tomlConfig struct {
	Backend        string  `toml:"backend"`
	Token          string  `toml:"token"`
	UserID         string  `toml:"user_id"`
	Username       string  `toml:"username"`
	HomeLat        float64 `toml:"home_lat"`
	HomeLng        float64 `toml:"home_lng"`
	NearbyRadiusKm float64 `toml:"nearby_radius_km"`
	LogPath        string  `toml:"log_path"`
}

// Load reads the config file (if present), then applies environment
// overrides:
//
//	MEETIFY_BACKEND      backend base URL (required one way or the other)
//	MEETIFY_TOKEN        bearer token
//	MEETIFY_USER         user id
//	MEETIFY_USERNAME     display name (default: "you")
//	MEETIFY_HOME         "lat,lng" home location
//	MEETIFY_RADIUS_KM    nearby radius (default: 25)
//	MEETIFY_LOG          log file path (default: ~/.config/meetify/meetify.log)
//	MEETIFY_CONFIG       alternate config file path
func Load() (Config, error) {
	var file tomlConfig
	path := os.Getenv("MEETIFY_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".config", "meetify", "config.toml")
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	cfg := Config{
		BackendURL:     pick(os.Getenv("MEETIFY_BACKEND"), file.Backend),
		Token:          pick(os.Getenv("MEETIFY_TOKEN"), file.Token),
		UserID:         pick(os.Getenv("MEETIFY_USER"), file.UserID),
		Username:       pick(os.Getenv("MEETIFY_USERNAME"), file.Username, "you"),
		HomeLat:        file.HomeLat,
		HomeLng:        file.HomeLng,
		NearbyRadiusKm: file.NearbyRadiusKm,
		LogPath:        pick(os.Getenv("MEETIFY_LOG"), file.LogPath),
	}

	if home := os.Getenv("MEETIFY_HOME"); home != "" {
		lat, lng, err := parseLatLng(home)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MEETIFY_HOME: %w", err)
		}
		cfg.HomeLat, cfg.HomeLng = lat, lng
	}
	if radius := os.Getenv("MEETIFY_RADIUS_KM"); radius != "" {
		r, err := strconv.ParseFloat(radius, 64)
		if err != nil || r <= 0 {
			return Config{}, fmt.Errorf("invalid MEETIFY_RADIUS_KM: %q", radius)
		}
		cfg.NearbyRadiusKm = r
	}
	if cfg.NearbyRadiusKm == 0 {
		cfg.NearbyRadiusKm = 25
	}

	if cfg.BackendURL == "" {
		return Config{}, fmt.Errorf("backend URL not configured: set MEETIFY_BACKEND or 'backend' in %s", path)
	}
	parsed, err := url.Parse(cfg.BackendURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid backend URL: must be absolute")
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		// Plain http is only for local development backends.
		if hostname := parsed.Hostname(); hostname != "localhost" && hostname != "127.0.0.1" {
			return Config{}, fmt.Errorf("invalid backend URL: http is only allowed for localhost")
		}
	default:
		return Config{}, fmt.Errorf("invalid backend URL: unsupported scheme %q", parsed.Scheme)
	}
	cfg.BackendURL = strings.TrimRight(parsed.String(), "/")

	if cfg.UserID == "" {
		return Config{}, fmt.Errorf("user id not configured: set MEETIFY_USER or 'user_id' in the config file")
	}

	if cfg.LogPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfg.LogPath = filepath.Join(home, ".config", "meetify", "meetify.log")
	}

	return cfg, nil
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseLatLng(s string) (float64, float64, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want \"lat,lng\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("out of range: %q", s)
	}
	return lat, lng, nil
}
