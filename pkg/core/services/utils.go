package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/core/planning"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/db"
)

// Plan is the configured input for one period
type Plan struct {
	Period       planning.Period
	Requirements planning.Requirements
	Members      []roster.Member
}

// LoadPlan builds the plan for periodKey, or for the configured period when
// periodKey is empty
func LoadPlan(cfg *config.Config, periodKey string) (*Plan, error) {
	if periodKey == "" {
		periodKey = cfg.Period
	}
	period, err := planning.ParsePeriod(periodKey)
	if err != nil {
		return nil, fmt.Errorf("invalid period: %w", err)
	}

	requirements, err := cfg.PlanningRequirements()
	if err != nil {
		return nil, fmt.Errorf("failed to read requirements: %w", err)
	}

	availability, err := cfg.PlanningAvailability()
	if err != nil {
		return nil, fmt.Errorf("failed to read member availability: %w", err)
	}

	return &Plan{
		Period:       period,
		Requirements: requirements,
		Members:      planning.BuildMembers(availability, period),
	}, nil
}

// Slots builds the period's slots for one category
func (p *Plan) Slots(category roster.Category) ([]roster.Slot, error) {
	slots, err := planning.BuildSlots(p.Period, category, p.Requirements)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s slots: %w", category, err)
	}
	return slots, nil
}

func generateOptions(cfg *config.Config, workers int) roster.GenerateOptions {
	if workers <= 0 {
		workers = cfg.Generation.Workers
	}
	count := cfg.Generation.CandidateCount
	if count == 0 {
		count = config.DefaultCandidateCount
	}
	return roster.GenerateOptions{
		Count:           count,
		MinSatisfaction: cfg.Generation.Threshold(),
		MaxAttempts:     cfg.Generation.MaxAttempts,
		Workers:         workers,
	}
}

// getAdopted returns the adopted roster for a category, nil when none has
// been adopted or there is no store
func getAdopted(ctx context.Context, store db.RosterStore, p *Plan, category roster.Category) (*db.AdoptedRoster, error) {
	if store == nil {
		return nil, nil
	}
	adopted, err := store.GetAdoptedRoster(ctx, p.Period.Key(), string(category))
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch adopted %s roster: %w", category, err)
	}
	return adopted, nil
}
