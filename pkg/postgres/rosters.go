package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/shift-roster/pkg/db"
)

const adoptedRosterColumns = `id, period_key, category, signature, fingerprint, score, min_satisfaction,
	required, assignments, satisfaction, adopted_at`

func scanAdoptedRoster(row pgx.Row) (*db.AdoptedRoster, error) {
	var r db.AdoptedRoster
	err := row.Scan(
		&r.ID, &r.PeriodKey, &r.Category, &r.Signature, &r.Fingerprint, &r.Score, &r.MinSatisfaction,
		&r.Required, &r.Assignments, &r.Satisfaction, &r.AdoptedAt,
	)
	if err != nil {
		return nil, err
	}
	r.AdoptedAt = r.AdoptedAt.UTC()
	return &r, nil
}

// GetAdoptedRosters retrieves the adopted rosters for a period, DAY first
func (d *DB) GetAdoptedRosters(ctx context.Context, periodKey string) ([]db.AdoptedRoster, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+adoptedRosterColumns+`
		FROM adopted_roster
		WHERE period_key = $1
		ORDER BY category
	`, periodKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query adopted rosters: %w", err)
	}
	defer rows.Close()

	var rosters []db.AdoptedRoster
	for rows.Next() {
		r, err := scanAdoptedRoster(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adopted roster: %w", err)
		}
		rosters = append(rosters, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adopted rosters: %w", err)
	}

	return rosters, nil
}

// GetAdoptedRoster retrieves the adopted roster for one category of a
// period, or db.ErrNotFound
func (d *DB) GetAdoptedRoster(ctx context.Context, periodKey, category string) (*db.AdoptedRoster, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+adoptedRosterColumns+`
		FROM adopted_roster
		WHERE period_key = $1 AND category = $2
	`, periodKey, category)

	r, err := scanAdoptedRoster(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get adopted roster: %w", err)
	}
	return r, nil
}

// UpsertAdoptedRoster stores r, replacing any roster already adopted for
// the same period and category
func (d *DB) UpsertAdoptedRoster(ctx context.Context, r *db.AdoptedRoster) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO adopted_roster (`+adoptedRosterColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (period_key, category) DO UPDATE SET
			id = EXCLUDED.id,
			signature = EXCLUDED.signature,
			fingerprint = EXCLUDED.fingerprint,
			score = EXCLUDED.score,
			min_satisfaction = EXCLUDED.min_satisfaction,
			required = EXCLUDED.required,
			assignments = EXCLUDED.assignments,
			satisfaction = EXCLUDED.satisfaction,
			adopted_at = EXCLUDED.adopted_at
	`, r.ID, r.PeriodKey, r.Category, r.Signature, r.Fingerprint, r.Score, r.MinSatisfaction,
		r.Required, r.Assignments, r.Satisfaction, r.AdoptedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert adopted roster: %w", err)
	}
	return nil
}

// DeleteAdoptedRoster removes an adoption. Deleting a missing roster
// returns db.ErrNotFound.
func (d *DB) DeleteAdoptedRoster(ctx context.Context, periodKey, category string) error {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM adopted_roster WHERE period_key = $1 AND category = $2
	`, periodKey, category)
	if err != nil {
		return fmt.Errorf("failed to delete adopted roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
