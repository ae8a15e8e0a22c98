package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/db"
)

// Mailer sends plain text email
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// Notification is the email prepared for one member
type Notification struct {
	Member  string
	Email   string
	Subject string
	Body    string
	Shifts  []roster.SlotID
}

// NotificationFailure records a member whose email could not be sent
type NotificationFailure struct {
	Member string
	Err    error
}

// NotifyResult summarises a NotifyMembers run
type NotifyResult struct {
	Sent     []Notification
	Skipped  []string
	Failures []NotificationFailure
	DryRun   bool
}

// NotifyMembers emails every configured member their adopted shifts for the
// period. Members without an email address are skipped. A failed send is
// recorded and the remaining members are still notified. With dryRun set
// the emails are prepared but not sent.
func NotifyMembers(
	ctx context.Context,
	store db.RosterStore,
	mailer Mailer,
	cfg *config.Config,
	logger *zap.Logger,
	periodKey string,
	dryRun bool,
) (*NotifyResult, error) {
	view, err := ViewAdopted(ctx, store, cfg, logger, periodKey)
	if err != nil {
		return nil, err
	}
	if view.Day == nil && view.Night == nil {
		return nil, fmt.Errorf("no rosters adopted for %s", view.Period.Key())
	}

	shifts := make(map[string][]roster.SlotID)
	for _, adopted := range []*AdoptedCategory{view.Day, view.Night} {
		if adopted == nil {
			continue
		}
		for name, ids := range adopted.Assignment.ByMember {
			shifts[name] = append(shifts[name], ids...)
		}
	}

	result := &NotifyResult{DryRun: dryRun}
	subject := fmt.Sprintf("Your shifts for %s", view.Period.Title())

	for _, m := range cfg.Members {
		if m.Email == "" {
			logger.Debug("Skipping member without email", zap.String("member", m.Name))
			result.Skipped = append(result.Skipped, m.Name)
			continue
		}

		ids := append([]roster.SlotID(nil), shifts[m.Name]...)
		roster.SortSlotIDs(ids)

		n := Notification{
			Member:  m.Name,
			Email:   m.Email,
			Subject: subject,
			Body:    notificationBody(m.Name, view.Period.Title(), ids),
			Shifts:  ids,
		}

		if !dryRun {
			if err := mailer.SendEmail(n.Email, n.Subject, n.Body); err != nil {
				logger.Warn("Failed to notify member", zap.String("member", m.Name), zap.Error(err))
				result.Failures = append(result.Failures, NotificationFailure{Member: m.Name, Err: err})
				continue
			}
			logger.Debug("Notified member", zap.String("member", m.Name), zap.Int("shifts", len(ids)))
		}
		result.Sent = append(result.Sent, n)
	}

	logger.Info("Notified members",
		zap.String("period", view.Period.Key()),
		zap.Int("sent", len(result.Sent)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failures)),
		zap.Bool("dry_run", dryRun))

	return result, nil
}

func notificationBody(name, periodTitle string, ids []roster.SlotID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	if len(ids) == 0 {
		fmt.Fprintf(&b, "You have no shifts in the roster for %s.\n", periodTitle)
		return b.String()
	}

	fmt.Fprintf(&b, "Your shifts for %s:\n\n", periodTitle)
	for _, id := range ids {
		fmt.Fprintf(&b, "  %s %s  %s\n", id.Date.Weekday().String()[:3], id.Date, strings.ToLower(string(id.Category)))
	}
	return b.String()
}
