package services

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/core/planning"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/db"
)

// AdoptedCategory is the adopted roster of one category
type AdoptedCategory struct {
	Record     *db.AdoptedRoster
	Assignment *roster.Assignment
	// Stale is set when the configured headcounts no longer match the
	// slots the roster was adopted with
	Stale bool
	// Violations re-checks the roster against current availability and
	// the consecutive-day limit across both adopted categories
	Violations []roster.SlotValidationError
}

// AdoptedView is the adopted day and night rosters of a period side by side
type AdoptedView struct {
	Period planning.Period
	Day    *AdoptedCategory
	Night  *AdoptedCategory
	Rows   []planning.CalendarRow
}

// Get returns the adopted roster of category, or nil
func (v *AdoptedView) Get(category roster.Category) *AdoptedCategory {
	if category == roster.Night {
		return v.Night
	}
	return v.Day
}

// ViewAdopted loads the adopted rosters of a period and merges them into
// calendar rows. Either category may be missing.
func ViewAdopted(ctx context.Context, store db.RosterStore, cfg *config.Config, logger *zap.Logger, periodKey string) (*AdoptedView, error) {
	plan, err := LoadPlan(cfg, periodKey)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetching adopted rosters", zap.String("period", plan.Period.Key()))
	records, err := store.GetAdoptedRosters(ctx, plan.Period.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch adopted rosters: %w", err)
	}
	logger.Debug("Found adopted rosters", zap.Int("count", len(records)))

	view := &AdoptedView{Period: plan.Period}
	for i := range records {
		record := &records[i]
		category, err := roster.ParseCategory(record.Category)
		if err != nil {
			return nil, fmt.Errorf("adopted roster %s has %w", record.ID, err)
		}

		adopted, err := loadAdoptedCategory(plan, category, record)
		if err != nil {
			return nil, err
		}
		if adopted.Stale {
			logger.Warn("Adopted roster no longer matches configured headcounts",
				zap.String("period", record.PeriodKey),
				zap.String("category", record.Category))
		}

		if category == roster.Night {
			view.Night = adopted
		} else {
			view.Day = adopted
		}
	}

	validateAdopted(plan, view.Day, view.Night)
	validateAdopted(plan, view.Night, view.Day)

	var day, night *roster.Assignment
	if view.Day != nil {
		day = view.Day.Assignment
	}
	if view.Night != nil {
		night = view.Night.Assignment
	}
	view.Rows = planning.MergeCalendar(plan.Period, day, night)

	return view, nil
}

func loadAdoptedCategory(plan *Plan, category roster.Category, record *db.AdoptedRoster) (*AdoptedCategory, error) {
	a, err := record.Assignment(plan.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to restore adopted %s roster: %w", category, err)
	}

	slots, err := plan.Slots(category)
	if err != nil {
		return nil, err
	}
	current := make(map[string]int, len(slots))
	for _, slot := range slots {
		current[slot.ID.String()] = slot.Required
	}

	return &AdoptedCategory{
		Record:     record,
		Assignment: a,
		Stale:      !maps.Equal(current, record.Required),
	}, nil
}

// validateAdopted checks adopted with the other category's dates counted
// towards each member's consecutive runs
func validateAdopted(plan *Plan, adopted, other *AdoptedCategory) {
	if adopted == nil {
		return
	}
	if other != nil {
		adopted.Assignment.External = roster.NewPairing(other.Assignment, 0).ExternalDates
	}
	adopted.Violations = adopted.Assignment.Validate(plan.Members, nil)
}
