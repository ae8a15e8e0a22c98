package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/planning"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

func TestPublishRoster_Success(t *testing.T) {
	ctx := context.Background()
	store := newMockRosterStore()
	adoptBoth(t, store)
	publisher := &mockPublisher{}

	published, err := PublishRoster(ctx, store, publisher, testConfig(), zap.NewNop(), "")
	require.NoError(t, err)

	assert.Equal(t, "sheet-1", publisher.spreadsheetID)
	assert.Same(t, published, publisher.published)
	assert.Equal(t, "2025-01-H1", published.Title)
	require.Len(t, published.Rows, 15)
	assert.Equal(t, "2025-01-01", published.Rows[0].Date)
	assert.Equal(t, "Wed", published.Rows[0].Weekday)
	assert.True(t, published.Rows[0].Day.Present)
	assert.Equal(t, 1, published.Rows[0].Night.Required)
}

func TestPublishRoster_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	cfg.RosterSheetID = ""
	_, err := PublishRoster(ctx, newMockRosterStore(), &mockPublisher{}, cfg, zap.NewNop(), "")
	assert.ErrorContains(t, err, "rosterSheetID")

	_, err = PublishRoster(ctx, newMockRosterStore(), &mockPublisher{}, testConfig(), zap.NewNop(), "")
	assert.ErrorContains(t, err, "no rosters adopted")

	store := newMockRosterStore()
	adoptBoth(t, store)
	_, err = PublishRoster(ctx, store, &mockPublisher{err: errors.New("quota exceeded")}, testConfig(), zap.NewNop(), "")
	assert.ErrorContains(t, err, "failed to publish roster")
}

func TestBuildPublishedRoster(t *testing.T) {
	p := planning.Period{Year: 2025, Month: time.February, Half: planning.SecondHalf}
	rows := []planning.CalendarRow{
		{
			Date:    roster.NewDate(2025, 2, 16),
			Weekday: time.Sunday,
			Day:     planning.CalendarCell{Present: true, Required: 2, Names: []string{"alice"}},
		},
	}

	published := BuildPublishedRoster(p, rows)

	assert.Equal(t, "2025-02-H2", published.Title)
	require.Len(t, published.Rows, 1)
	assert.Equal(t, "2025-02-16", published.Rows[0].Date)
	assert.Equal(t, "Sun", published.Rows[0].Weekday)
	assert.Equal(t, []string{"alice"}, published.Rows[0].Day.Names)
	assert.False(t, published.Rows[0].Night.Present)
}
