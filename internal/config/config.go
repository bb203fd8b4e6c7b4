package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/targetdigest/ietrack/internal/model"
)

// ErrInvalid is wrapped by Load when the file parses but fails validation.
var ErrInvalid = errors.New("invalid config")

// StartDateFormat is the layout of ie_tracking.start_date.
const StartDateFormat = "2006-01-02"

// Config represents the top-level ietrack.yaml configuration.
// Ambient settings can be overridden from the environment.
type Config struct {
	Environment string      `yaml:"environment" env:"IETRACK_ENVIRONMENT" env-default:"development"`
	LogLevel    string      `yaml:"log_level" env:"IETRACK_LOG_LEVEL" env-default:"info"`
	Timezone    string      `yaml:"timezone,omitempty" env:"IETRACK_TIMEZONE"`
	Fetch       FetchConfig `yaml:"fetch"`
	Trackers    []Tracker   `yaml:"trackers"`
}

// FetchConfig controls how IE pages are retrieved.
type FetchConfig struct {
	BaseURL           string        `yaml:"base_url" env:"IETRACK_BASE_URL" env-default:"https://cal-access.sos.ca.gov"`
	UserAgent         string        `yaml:"user_agent" env:"IETRACK_USER_AGENT" env-default:"ietrack"`
	Timeout           time.Duration `yaml:"timeout" env:"IETRACK_FETCH_TIMEOUT" env-default:"30s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"IETRACK_FETCH_RPS" env-default:"2"`
	Burst             int           `yaml:"burst" env:"IETRACK_FETCH_BURST" env-default:"1"`
}

// Tracker is one tracked candidate.
type Tracker struct {
	Name       string     `yaml:"name"`
	District   string     `yaml:"district"`
	Side       model.Side `yaml:"side,omitempty"` // defaults to "them"
	Type       string     `yaml:"type,omitempty"`
	Opponents  []string   `yaml:"opponents,omitempty"`
	IETracking IETracking `yaml:"ie_tracking"`
}

// IETracking locates a candidate's IE page.
type IETracking struct {
	Enabled   bool   `yaml:"enabled"`
	IEURL     string `yaml:"ie_url"`
	StartDate string `yaml:"start_date"` // "YYYY-MM-DD"
}

// Load reads an ietrack.yaml file, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	cfg.applyDefaults()

	if verrs := Validate(&cfg); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config for a new project with one example tracker and
// IE tracking switched off.
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Timezone:    "America/Los_Angeles",
		Fetch: FetchConfig{
			BaseURL:           "https://cal-access.sos.ca.gov",
			UserAgent:         "ietrack",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			Burst:             1,
		},
		Trackers: []Tracker{
			{
				Name:     "Example Candidate",
				District: "AD-00",
				Side:     model.SideUs,
				Type:     "candidate",
				IETracking: IETracking{
					Enabled:   false,
					IEURL:     "https://cal-access.sos.ca.gov/Campaign/Candidates/Detail.aspx?id=0&view=expenditures",
					StartDate: "2024-01-01",
				},
			},
		},
	}
}

func (c *Config) applyDefaults() {
	for i := range c.Trackers {
		if c.Trackers[i].Side == "" {
			c.Trackers[i].Side = model.SideThem
		}
	}
}

// Location returns the configured time zone, or the local zone if unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
