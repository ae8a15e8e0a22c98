package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-roster/pkg/core/planning"
	"github.com/jakechorley/shift-roster/pkg/db"
)

// RosterPublisher writes a merged roster to a spreadsheet
type RosterPublisher interface {
	PublishRoster(spreadsheetID string, published *sheetsclient.PublishedRoster) error
}

// PublishRoster publishes the adopted day and night rosters of a period to
// the configured spreadsheet, one tab per period
func PublishRoster(
	ctx context.Context,
	store db.RosterStore,
	publisher RosterPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	periodKey string,
) (*sheetsclient.PublishedRoster, error) {
	if cfg.RosterSheetID == "" {
		return nil, fmt.Errorf("rosterSheetID is not configured")
	}

	view, err := ViewAdopted(ctx, store, cfg, logger, periodKey)
	if err != nil {
		return nil, err
	}
	if view.Day == nil && view.Night == nil {
		return nil, fmt.Errorf("no rosters adopted for %s", view.Period.Key())
	}

	published := BuildPublishedRoster(view.Period, view.Rows)

	logger.Debug("Publishing roster",
		zap.String("spreadsheet_id", cfg.RosterSheetID),
		zap.String("tab", published.Title),
		zap.Int("rows", len(published.Rows)))

	if err := publisher.PublishRoster(cfg.RosterSheetID, published); err != nil {
		return nil, fmt.Errorf("failed to publish roster: %w", err)
	}

	logger.Info("Published roster", zap.String("tab", published.Title))
	return published, nil
}

// BuildPublishedRoster converts calendar rows to the spreadsheet layout
func BuildPublishedRoster(period planning.Period, rows []planning.CalendarRow) *sheetsclient.PublishedRoster {
	published := &sheetsclient.PublishedRoster{
		Title: period.Key(),
		Rows:  make([]sheetsclient.PublishedRosterRow, 0, len(rows)),
	}
	for _, row := range rows {
		published.Rows = append(published.Rows, sheetsclient.PublishedRosterRow{
			Date:    row.Date.String(),
			Weekday: row.Weekday.String()[:3],
			Day:     publishedShift(row.Day),
			Night:   publishedShift(row.Night),
		})
	}
	return published
}

func publishedShift(cell planning.CalendarCell) sheetsclient.PublishedShift {
	return sheetsclient.PublishedShift{
		Present:  cell.Present,
		Required: cell.Required,
		Names:    cell.Names,
	}
}
