package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/shift-roster/pkg/core/planning"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

const (
	DefaultCandidateCount  = 3
	DefaultMinSatisfaction = 0.7
	DefaultCacheTTL        = 24 * time.Hour
)

// Generation holds the candidate generator settings
type Generation struct {
	CandidateCount  int      `yaml:"candidateCount" validate:"omitempty,min=1,max=10"`
	MinSatisfaction *float64 `yaml:"minSatisfaction,omitempty" validate:"omitempty,min=0,max=1"`
	PairingStrength float64  `yaml:"pairingStrength" validate:"min=0,max=1"`
	MaxAttempts     *int     `yaml:"maxAttempts,omitempty" validate:"omitempty,min=0"`
	Workers         int      `yaml:"workers" env:"SHIFT_ROSTER_WORKERS" validate:"min=0"`
}

// RequirementRule sets the headcount for dates matched by an RRULE
type RequirementRule struct {
	RRule    string `yaml:"rrule" validate:"required"`
	Category string `yaml:"category,omitempty" validate:"omitempty,oneof=day night DAY NIGHT"`
	Required int    `yaml:"required" validate:"min=0"`
}

// DateRequirement sets the headcount for one slot
type DateRequirement struct {
	Date     string `yaml:"date" validate:"required,datetime=2006-01-02"`
	Category string `yaml:"category" validate:"required,oneof=day night DAY NIGHT"`
	Required int    `yaml:"required" validate:"min=0"`
}

// Requirements configures slot headcounts. Day and Night default to 1.
type Requirements struct {
	Day   *int              `yaml:"day,omitempty" validate:"omitempty,min=0"`
	Night *int              `yaml:"night,omitempty" validate:"omitempty,min=0"`
	Rules []RequirementRule `yaml:"rules,omitempty" validate:"dive"`
	Dates []DateRequirement `yaml:"dates,omitempty" validate:"dive"`
}

// ShiftDates lists the dates a member can work, and which of them they
// would prefer, for one category
type ShiftDates struct {
	Available []string `yaml:"available,omitempty" validate:"dive,datetime=2006-01-02"`
	Preferred []string `yaml:"preferred,omitempty" validate:"dive,datetime=2006-01-02"`
}

// Member is one schedulable person
type Member struct {
	Name           string     `yaml:"name" validate:"required"`
	Email          string     `yaml:"email,omitempty" validate:"omitempty,email"`
	MaxConsecutive int        `yaml:"maxConsecutive,omitempty" validate:"omitempty,min=1"`
	DesiredDay     *int       `yaml:"desiredDay,omitempty" validate:"omitempty,min=0"`
	DesiredNight   *int       `yaml:"desiredNight,omitempty" validate:"omitempty,min=0"`
	Day            ShiftDates `yaml:"day"`
	Night          ShiftDates `yaml:"night"`
}

// Database configures the adopted roster store
type Database struct {
	URL string `yaml:"url" env:"SHIFT_ROSTER_DATABASE_URL"`
}

// Cache configures the redis candidate cache. An empty address disables it.
type Cache struct {
	RedisAddr     string        `yaml:"redisAddr" env:"SHIFT_ROSTER_REDIS_ADDR"`
	RedisPassword string        `yaml:"redisPassword,omitempty" env:"SHIFT_ROSTER_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redisDB,omitempty" env:"SHIFT_ROSTER_REDIS_DB" validate:"min=0"`
	TTL           time.Duration `yaml:"ttl,omitempty" env:"SHIFT_ROSTER_CACHE_TTL" validate:"min=0"`
}

// Config represents the application configuration
type Config struct {
	Period        string       `yaml:"period" env:"SHIFT_ROSTER_PERIOD" validate:"required"`
	Generation    Generation   `yaml:"generation"`
	Requirements  Requirements `yaml:"requirements"`
	Members       []Member     `yaml:"members" validate:"required,min=1,unique=Name,dive"`
	Database      Database     `yaml:"database"`
	Cache         Cache        `yaml:"cache"`
	RosterSheetID string       `yaml:"rosterSheetID,omitempty" env:"SHIFT_ROSTER_SHEET_ID"`
	GmailSender   string       `yaml:"gmailSender,omitempty" env:"SHIFT_ROSTER_GMAIL_SENDER"`
	MetricsFile   string       `yaml:"metricsFile,omitempty" env:"SHIFT_ROSTER_METRICS_FILE"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads shift_roster_config.yaml with no environment suffix
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" looks for "shift_roster_config.test.yaml" in the
// current directory, then the home directory. Environment variables (and a
// .env file, if present) override values from the file.
func LoadWithEnv(env string) (*Config, error) {
	name := "shift_roster_config.yaml"
	if env != "" {
		name = "shift_roster_config." + env + ".yaml"
	}

	configPath, err := findFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv loads .env (if present) and overrides fields tagged with env
func applyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Generation.CandidateCount == 0 {
		cfg.Generation.CandidateCount = DefaultCandidateCount
	}
	if cfg.Generation.MinSatisfaction == nil {
		minSat := DefaultMinSatisfaction
		cfg.Generation.MinSatisfaction = &minSat
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
}

// Validate validates the configuration struct, rrule syntax and the period
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := planning.ParsePeriod(cfg.Period); err != nil {
		return fmt.Errorf("invalid period: %w", err)
	}

	// Validate rrule syntax for each requirement rule
	for i, rule := range cfg.Requirements.Rules {
		if _, err := rrule.StrToRRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in requirements.rules[%d]: %w", i, err)
		}
	}

	return nil
}

// Threshold returns the acceptance threshold with its default applied
func (g Generation) Threshold() float64 {
	if g.MinSatisfaction == nil {
		return DefaultMinSatisfaction
	}
	return *g.MinSatisfaction
}

// PlanningPeriod parses the configured period
func (c *Config) PlanningPeriod() (planning.Period, error) {
	return planning.ParsePeriod(c.Period)
}

// PlanningRequirements converts the requirement tables
func (c *Config) PlanningRequirements() (planning.Requirements, error) {
	req := planning.Requirements{
		Default: make(map[roster.Category]int),
		Dates:   make(map[roster.SlotID]int),
	}
	if c.Requirements.Day != nil {
		req.Default[roster.Day] = *c.Requirements.Day
	}
	if c.Requirements.Night != nil {
		req.Default[roster.Night] = *c.Requirements.Night
	}

	for i, r := range c.Requirements.Rules {
		rule := planning.RequirementRule{RRule: r.RRule, Required: r.Required}
		if r.Category != "" {
			cat, err := roster.ParseCategory(r.Category)
			if err != nil {
				return planning.Requirements{}, fmt.Errorf("invalid category in requirements.rules[%d]: %w", i, err)
			}
			rule.Category = cat
		}
		req.Rules = append(req.Rules, rule)
	}

	for i, d := range c.Requirements.Dates {
		date, err := roster.ParseDate(d.Date)
		if err != nil {
			return planning.Requirements{}, fmt.Errorf("invalid date in requirements.dates[%d]: %w", i, err)
		}
		cat, err := roster.ParseCategory(d.Category)
		if err != nil {
			return planning.Requirements{}, fmt.Errorf("invalid category in requirements.dates[%d]: %w", i, err)
		}
		req.Dates[roster.SlotID{Date: date, Category: cat}] = d.Required
	}

	return req, nil
}

// PlanningAvailability converts the member list
func (c *Config) PlanningAvailability() ([]planning.Availability, error) {
	out := make([]planning.Availability, 0, len(c.Members))
	for _, m := range c.Members {
		a := planning.Availability{
			Name:           m.Name,
			Available:      make(map[roster.Category][]roster.Date),
			Preferred:      make(map[roster.Category][]roster.Date),
			Desired:        make(map[roster.Category]int),
			MaxConsecutive: m.MaxConsecutive,
		}
		if m.DesiredDay != nil {
			a.Desired[roster.Day] = *m.DesiredDay
		}
		if m.DesiredNight != nil {
			a.Desired[roster.Night] = *m.DesiredNight
		}

		for cat, shift := range map[roster.Category]ShiftDates{roster.Day: m.Day, roster.Night: m.Night} {
			available, err := parseDates(shift.Available)
			if err != nil {
				return nil, fmt.Errorf("invalid %s availability for %s: %w", cat, m.Name, err)
			}
			preferred, err := parseDates(shift.Preferred)
			if err != nil {
				return nil, fmt.Errorf("invalid %s preference for %s: %w", cat, m.Name, err)
			}
			a.Available[cat] = available
			a.Preferred[cat] = preferred
		}

		out = append(out, a)
	}
	return out, nil
}

// EmailFor returns the configured email for a member name
func (c *Config) EmailFor(name string) string {
	for _, m := range c.Members {
		if m.Name == name {
			return m.Email
		}
	}
	return ""
}

func parseDates(values []string) ([]roster.Date, error) {
	dates := make([]roster.Date, 0, len(values))
	for _, v := range values {
		d, err := roster.ParseDate(v)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// findFile searches for name in the current directory, then the home directory
func findFile(name string) (string, error) {
	// Check current directory
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
