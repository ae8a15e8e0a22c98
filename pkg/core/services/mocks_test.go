package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/cache"
	"github.com/jakechorley/shift-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/db"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func janDates(days ...int) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, fmt.Sprintf("2025-01-%02d", d))
	}
	return out
}

func allJanH1() []int {
	days := make([]int, 15)
	for i := range days {
		days[i] = i + 1
	}
	return days
}

// testConfig staffs 2025-01-H1 with one person per shift from three members
func testConfig() *config.Config {
	all := janDates(allJanH1()...)
	return &config.Config{
		Period: "2025-01-H1",
		Generation: config.Generation{
			CandidateCount:  3,
			MinSatisfaction: floatPtr(0),
			PairingStrength: 1,
		},
		Requirements: config.Requirements{
			Day:   intPtr(1),
			Night: intPtr(1),
		},
		Members: []config.Member{
			{
				Name:       "alice",
				Email:      "alice@example.com",
				DesiredDay: intPtr(5),
				Day:        config.ShiftDates{Available: all, Preferred: janDates(1, 2)},
				Night:      config.ShiftDates{Available: janDates(1, 2, 3, 4, 5, 6, 7)},
			},
			{
				Name:  "bob",
				Email: "bob@example.com",
				Day:   config.ShiftDates{Available: all},
				Night: config.ShiftDates{Available: all},
			},
			{
				Name:         "carol",
				DesiredNight: intPtr(5),
				Day:          config.ShiftDates{Available: janDates(8, 9, 10, 11, 12, 13, 14, 15)},
				Night:        config.ShiftDates{Available: all},
			},
		},
		RosterSheetID: "sheet-1",
	}
}

type mockRosterStore struct {
	rosters   map[string]db.AdoptedRoster
	upserts   []db.AdoptedRoster
	getErr    error
	upsertErr error
}

func newMockRosterStore() *mockRosterStore {
	return &mockRosterStore{rosters: make(map[string]db.AdoptedRoster)}
}

func storeKey(periodKey, category string) string {
	return periodKey + "/" + category
}

func (m *mockRosterStore) GetAdoptedRosters(ctx context.Context, periodKey string) ([]db.AdoptedRoster, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []db.AdoptedRoster
	for _, category := range roster.Categories {
		if r, ok := m.rosters[storeKey(periodKey, string(category))]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRosterStore) GetAdoptedRoster(ctx context.Context, periodKey, category string) (*db.AdoptedRoster, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.rosters[storeKey(periodKey, category)]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &r, nil
}

func (m *mockRosterStore) UpsertAdoptedRoster(ctx context.Context, r *db.AdoptedRoster) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, *r)
	m.rosters[storeKey(r.PeriodKey, r.Category)] = *r
	return nil
}

func (m *mockRosterStore) DeleteAdoptedRoster(ctx context.Context, periodKey, category string) error {
	key := storeKey(periodKey, category)
	if _, ok := m.rosters[key]; !ok {
		return db.ErrNotFound
	}
	delete(m.rosters, key)
	return nil
}

type mockCache struct {
	entries       map[string]*cache.Entry
	gets          int
	puts          int
	invalidations int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*cache.Entry)}
}

func (m *mockCache) Get(ctx context.Context, fingerprint string) (*cache.Entry, bool) {
	m.gets++
	e, ok := m.entries[fingerprint]
	return e, ok
}

func (m *mockCache) Put(ctx context.Context, fingerprint string, entry *cache.Entry) error {
	m.puts++
	m.entries[fingerprint] = entry
	return nil
}

func (m *mockCache) Invalidate(ctx context.Context, fingerprint string) error {
	m.invalidations++
	delete(m.entries, fingerprint)
	return nil
}

type mockRecorder struct {
	runs      map[roster.Category]int
	cacheHits map[roster.Category]int
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{runs: map[roster.Category]int{}, cacheHits: map[roster.Category]int{}}
}

func (m *mockRecorder) ObserveGenerate(category roster.Category, stats roster.GenerateStats, candidates []*roster.Assignment, elapsed time.Duration) {
	m.runs[category]++
}

func (m *mockRecorder) ObserveCacheHit(category roster.Category) {
	m.cacheHits[category]++
}

type mockPublisher struct {
	spreadsheetID string
	published     *sheetsclient.PublishedRoster
	err           error
}

func (m *mockPublisher) PublishRoster(spreadsheetID string, published *sheetsclient.PublishedRoster) error {
	m.spreadsheetID = spreadsheetID
	m.published = published
	return m.err
}

type sentEmail struct {
	to, subject, body string
}

type mockMailer struct {
	sent   []sentEmail
	failTo map[string]error
}

func (m *mockMailer) SendEmail(to, subject, body string) error {
	if err := m.failTo[to]; err != nil {
		return err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}
