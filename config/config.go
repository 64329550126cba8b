package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-errors/errors"
)

type Config struct {
	Port           string
	ReleaseMode    bool
	PlannerAPIURL  string
	PlannerTimeout time.Duration
	FrontendURLs   []string
	TrustedProxies []string
	SessionTTL     time.Duration
	Map            Map
	MetricsEnabled bool
}

// Map holds the Leaflet settings handed to the search panel template.
type Map struct {
	TileURL    string
	Zoom       int
	MarkerIcon string
}

const (
	DefaultPort           = "8080"
	DefaultPlannerAPIURL  = "http://localhost:5000"
	DefaultPlannerTimeout = 60 * time.Second
	DefaultSessionTTL     = 30 * time.Minute
	DefaultMapTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultMapZoom        = 10
	DefaultMapMarkerIcon  = "https://leafletjs.com/examples/custom-icons/leaf-red.png"
)

var (
	ErrPlannerURLInvalid = errors.New("PLANNER_API_URL must be an absolute http(s) URL")
	ErrTimeoutInvalid    = errors.New("PLANNER_TIMEOUT must be positive")
	ErrSessionTTLInvalid = errors.New("SESSION_TTL must be positive")
	ErrZoomInvalid       = errors.New("MAP_ZOOM must be between 1 and 19")
)

// Load reads the configuration from the environment. Call godotenv.Load
// beforehand to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", DefaultPort),
		ReleaseMode:    os.Getenv("GIN_MODE") == "release",
		PlannerAPIURL:  strings.TrimRight(getEnv("PLANNER_API_URL", DefaultPlannerAPIURL), "/"),
		FrontendURLs:   splitList(os.Getenv("FRONTEND_URL")),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		Map: Map{
			TileURL:    getEnv("MAP_TILE_URL", DefaultMapTileURL),
			MarkerIcon: getEnv("MAP_MARKER_ICON", DefaultMapMarkerIcon),
		},
	}

	var err error
	if cfg.PlannerTimeout, err = getDuration("PLANNER_TIMEOUT", DefaultPlannerTimeout); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", DefaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.Map.Zoom, err = getInt("MAP_ZOOM", DefaultMapZoom); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = getBool("METRICS_ENABLED", true); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.PlannerAPIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrPlannerURLInvalid
	}
	if c.PlannerTimeout <= 0 {
		return ErrTimeoutInvalid
	}
	if c.SessionTTL <= 0 {
		return ErrSessionTTLInvalid
	}
	if c.Map.Zoom < 1 || c.Map.Zoom > 19 {
		return ErrZoomInvalid
	}
	return nil
}

// AllowedOrigins returns the local dev origins plus FRONTEND_URL entries.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000", "http://localhost:" + c.Port}
	return append(origins, c.FrontendURLs...)
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
