package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no roster has been adopted for a period and category
var ErrNotFound = errors.New("adopted roster not found")

// RosterStore defines the adopted roster operations the services depend on
type RosterStore interface {
	GetAdoptedRosters(ctx context.Context, periodKey string) ([]AdoptedRoster, error)
	GetAdoptedRoster(ctx context.Context, periodKey, category string) (*AdoptedRoster, error)
	UpsertAdoptedRoster(ctx context.Context, roster *AdoptedRoster) error
	DeleteAdoptedRoster(ctx context.Context, periodKey, category string) error
}

// Database is a RosterStore holding a connection that must be closed
type Database interface {
	RosterStore
	Close()
}
