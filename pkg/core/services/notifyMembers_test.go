package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

func TestNotifyMembers_Sends(t *testing.T) {
	ctx := context.Background()
	store := newMockRosterStore()
	adoptBoth(t, store)
	mailer := &mockMailer{}

	result, err := NotifyMembers(ctx, store, mailer, testConfig(), zap.NewNop(), "", false)
	require.NoError(t, err)

	assert.False(t, result.DryRun)
	assert.Equal(t, []string{"carol"}, result.Skipped, "carol has no email")
	assert.Empty(t, result.Failures)
	require.Len(t, result.Sent, 2)
	require.Len(t, mailer.sent, 2)

	alice := result.Sent[0]
	assert.Equal(t, "alice", alice.Member)
	assert.Equal(t, "alice@example.com", mailer.sent[0].to)
	assert.Equal(t, "Your shifts for Jan 2025 (1-15)", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "Hi alice,")

	for i := 1; i < len(alice.Shifts); i++ {
		assert.True(t, alice.Shifts[i-1].Less(alice.Shifts[i]), "shifts are in date order")
	}
	for _, id := range alice.Shifts {
		assert.Contains(t, alice.Body, id.Date.String())
	}
}

func TestNotifyMembers_DryRun(t *testing.T) {
	ctx := context.Background()
	store := newMockRosterStore()
	adoptBoth(t, store)
	mailer := &mockMailer{}

	result, err := NotifyMembers(ctx, store, mailer, testConfig(), zap.NewNop(), "", true)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Len(t, result.Sent, 2)
	assert.Empty(t, mailer.sent)
}

func TestNotifyMembers_CollectsFailures(t *testing.T) {
	ctx := context.Background()
	store := newMockRosterStore()
	adoptBoth(t, store)
	mailer := &mockMailer{failTo: map[string]error{"alice@example.com": errors.New("rate limited")}}

	result, err := NotifyMembers(ctx, store, mailer, testConfig(), zap.NewNop(), "", false)
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "alice", result.Failures[0].Member)
	require.Len(t, result.Sent, 1)
	assert.Equal(t, "bob", result.Sent[0].Member)
}

func TestNotifyMembers_NothingAdopted(t *testing.T) {
	_, err := NotifyMembers(context.Background(), newMockRosterStore(), &mockMailer{}, testConfig(), zap.NewNop(), "", false)
	assert.ErrorContains(t, err, "no rosters adopted")
}

func TestNotificationBody(t *testing.T) {
	ids := []roster.SlotID{
		{Date: roster.NewDate(2025, 1, 1), Category: roster.Day},
		{Date: roster.NewDate(2025, 1, 1), Category: roster.Night},
	}

	assert.Equal(t,
		"Hi alice,\n\nYour shifts for Jan 2025 (1-15):\n\n  Wed 2025-01-01  day\n  Wed 2025-01-01  night\n",
		notificationBody("alice", "Jan 2025 (1-15)", ids))

	assert.Equal(t,
		"Hi bob,\n\nYou have no shifts in the roster for Jan 2025 (1-15).\n",
		notificationBody("bob", "Jan 2025 (1-15)", nil))
}
