package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-roster/pkg/core/planning"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func validConfig() *Config {
	return &Config{
		Period: "2025-01-H1",
		Generation: Generation{
			CandidateCount:  3,
			MinSatisfaction: floatPtr(0.7),
			PairingStrength: 0.5,
		},
		Requirements: Requirements{
			Day:   intPtr(1),
			Night: intPtr(2),
			Rules: []RequirementRule{
				{RRule: "FREQ=WEEKLY;BYDAY=SA,SU", Category: "day", Required: 2},
			},
			Dates: []DateRequirement{
				{Date: "2025-01-03", Category: "night", Required: 0},
			},
		},
		Members: []Member{
			{
				Name:           "Alice",
				Email:          "alice@example.com",
				MaxConsecutive: 3,
				DesiredDay:     intPtr(2),
				Day:            ShiftDates{Available: []string{"2025-01-01"}, Preferred: []string{"2025-01-02"}},
			},
			{Name: "Bob"},
		},
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shift_roster_config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *Config)
		contains string
	}{
		{"missing period", func(cfg *Config) { cfg.Period = "" }, "validation failed"},
		{"bad period", func(cfg *Config) { cfg.Period = "2025-01-H3" }, "invalid period"},
		{"no members", func(cfg *Config) { cfg.Members = nil }, "validation failed"},
		{"duplicate member names", func(cfg *Config) { cfg.Members[1].Name = "Alice" }, "validation failed"},
		{"max consecutive below 1", func(cfg *Config) { cfg.Members[0].MaxConsecutive = -1 }, "validation failed"},
		{"negative desired", func(cfg *Config) { cfg.Members[0].DesiredDay = intPtr(-1) }, "validation failed"},
		{"bad availability date", func(cfg *Config) { cfg.Members[0].Day.Available = []string{"01/02/2025"} }, "validation failed"},
		{"bad email", func(cfg *Config) { cfg.Members[0].Email = "not-an-email" }, "validation failed"},
		{"negative headcount", func(cfg *Config) { cfg.Requirements.Day = intPtr(-1) }, "validation failed"},
		{"negative date headcount", func(cfg *Config) { cfg.Requirements.Dates[0].Required = -2 }, "validation failed"},
		{"unknown category", func(cfg *Config) { cfg.Requirements.Dates[0].Category = "evening" }, "validation failed"},
		{"candidate count above 10", func(cfg *Config) { cfg.Generation.CandidateCount = 11 }, "validation failed"},
		{"negative candidate count", func(cfg *Config) { cfg.Generation.CandidateCount = -1 }, "validation failed"},
		{"min satisfaction above 1", func(cfg *Config) { cfg.Generation.MinSatisfaction = floatPtr(1.5) }, "validation failed"},
		{"negative max attempts", func(cfg *Config) { cfg.Generation.MaxAttempts = intPtr(-1) }, "validation failed"},
		{"pairing strength above 1", func(cfg *Config) { cfg.Generation.PairingStrength = 2 }, "validation failed"},
		{"empty rrule", func(cfg *Config) { cfg.Requirements.Rules[0].RRule = "" }, "validation failed"},
		{"invalid rrule", func(cfg *Config) { cfg.Requirements.Rules[0].RRule = "INVALID_RRULE_SYNTAX" }, "invalid rrule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadFromPath_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
period: 2025-02-H2
members:
  - name: Alice
    day:
      available: ["2025-02-16", "2025-02-17"]
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultCandidateCount, cfg.Generation.CandidateCount)
	assert.Equal(t, DefaultMinSatisfaction, cfg.Generation.Threshold())
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, 0.0, cfg.Generation.PairingStrength)
	assert.Nil(t, cfg.Generation.MaxAttempts)
}

func TestLoadFromPath_FullConfig(t *testing.T) {
	path := writeConfig(t, `
period: 2025-01-H1
generation:
  candidateCount: 5
  minSatisfaction: 0
  pairingStrength: 0.8
  maxAttempts: 0
  workers: 4
requirements:
  day: 2
  rules:
    - rrule: "FREQ=WEEKLY;BYDAY=SU"
      category: night
      required: 3
  dates:
    - date: "2025-01-03"
      category: day
      required: 0
members:
  - name: Alice
    email: alice@example.com
    maxConsecutive: 2
    desiredDay: 1
    desiredNight: 0
    day:
      available: ["2025-01-01"]
      preferred: ["2025-01-02"]
    night:
      available: ["2025-01-05"]
cache:
  redisAddr: localhost:6379
  ttl: 2h
rosterSheetID: sheet123
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Generation.CandidateCount)
	assert.Equal(t, 0.0, cfg.Generation.Threshold(), "explicit zero is kept")
	require.NotNil(t, cfg.Generation.MaxAttempts)
	assert.Equal(t, 0, *cfg.Generation.MaxAttempts, "explicit zero is kept")
	assert.Equal(t, 4, cfg.Generation.Workers)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "sheet123", cfg.RosterSheetID)

	period, err := cfg.PlanningPeriod()
	require.NoError(t, err)
	assert.Equal(t, planning.Period{Year: 2025, Month: time.January, Half: planning.FirstHalf}, period)

	req, err := cfg.PlanningRequirements()
	require.NoError(t, err)
	assert.Equal(t, 2, req.Default[roster.Day])
	_, hasNight := req.Default[roster.Night]
	assert.False(t, hasNight)
	require.Len(t, req.Rules, 1)
	assert.Equal(t, roster.Night, req.Rules[0].Category)
	assert.Equal(t, 0, req.Dates[roster.SlotID{Date: roster.NewDate(2025, 1, 3), Category: roster.Day}])

	avail, err := cfg.PlanningAvailability()
	require.NoError(t, err)
	require.Len(t, avail, 1)
	alice := avail[0]
	assert.Equal(t, []roster.Date{roster.NewDate(2025, 1, 1)}, alice.Available[roster.Day])
	assert.Equal(t, []roster.Date{roster.NewDate(2025, 1, 2)}, alice.Preferred[roster.Day])
	assert.Equal(t, []roster.Date{roster.NewDate(2025, 1, 5)}, alice.Available[roster.Night])
	assert.Equal(t, map[roster.Category]int{roster.Day: 1, roster.Night: 0}, alice.Desired)
	assert.Equal(t, 2, alice.MaxConsecutive)

	assert.Equal(t, "alice@example.com", cfg.EmailFor("Alice"))
	assert.Equal(t, "", cfg.EmailFor("Nobody"))
}

func TestLoadFromPath_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
period: 2025-01-H1
database:
  url: postgres://file/db
members:
  - name: Alice
`)
	t.Setenv("SHIFT_ROSTER_DATABASE_URL", "postgres://env/db")
	t.Setenv("SHIFT_ROSTER_PERIOD", "2025-03-H2")
	t.Setenv("SHIFT_ROSTER_CACHE_TTL", "15m")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "2025-03-H2", cfg.Period)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "period: [unclosed")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	path := writeConfig(t, `
period: 2025-01-H1
requirements:
  rules:
    - rrule: NOT_A_RULE
      required: 2
members:
  - name: Alice
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_FindsFileInCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shift_roster_config.ci.yaml"), []byte(`
period: 2025-01-H2
members:
  - name: Alice
`), 0644))
	t.Chdir(dir)

	cfg, err := LoadWithEnv("ci")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-H2", cfg.Period)
}
