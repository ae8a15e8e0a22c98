package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/cache"
	"github.com/jakechorley/shift-roster/pkg/core/planning"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/db"
)

// CandidateCache stores generator results between runs
type CandidateCache interface {
	Get(ctx context.Context, fingerprint string) (*cache.Entry, bool)
	Put(ctx context.Context, fingerprint string, entry *cache.Entry) error
	Invalidate(ctx context.Context, fingerprint string) error
}

// MetricsRecorder receives generator observations
type MetricsRecorder interface {
	ObserveGenerate(category roster.Category, stats roster.GenerateStats, candidates []*roster.Assignment, elapsed time.Duration)
	ObserveCacheHit(category roster.Category)
}

// Pairing sources
const (
	PairedWithAdopted    = "adopted"
	PairedWithCandidates = "candidates"
)

// GenerateRequest selects what to generate
type GenerateRequest struct {
	// PeriodKey defaults to the configured period
	PeriodKey string
	Category  roster.Category
	// Paired couples the roster to the other category's adopted roster, or
	// to freshly generated candidates when none is adopted
	Paired bool
	// Workers overrides the configured worker count when positive
	Workers int
}

// Candidate is one generated roster
type Candidate struct {
	// Index is 1-based, in score order
	Index        int
	Assignment   *roster.Assignment
	Understaffed []roster.Slot
	Violations   []roster.SlotValidationError
}

// GenerateResult is the outcome of GenerateRoster
type GenerateResult struct {
	Period     planning.Period
	Category   roster.Category
	Slots      []roster.Slot
	Members    []roster.Member
	Candidates []Candidate
	Stats      roster.GenerateStats
	FromCache  bool
	// PairedWith is empty for unpaired runs, else one of the PairedWith* sources
	PairedWith string
}

// GenerateRoster builds the slots and members for the period and returns
// ranked candidate rosters for one category. Results are served from the
// candidate cache when the inputs are unchanged.
func GenerateRoster(
	ctx context.Context,
	store db.RosterStore,
	candidateCache CandidateCache,
	recorder MetricsRecorder,
	cfg *config.Config,
	logger *zap.Logger,
	req GenerateRequest,
) (*GenerateResult, error) {
	logger.Debug("Starting generateRoster",
		zap.String("period", req.PeriodKey),
		zap.String("category", string(req.Category)),
		zap.Bool("paired", req.Paired))

	plan, err := LoadPlan(cfg, req.PeriodKey)
	if err != nil {
		return nil, err
	}

	slots, err := plan.Slots(req.Category)
	if err != nil {
		return nil, err
	}
	logger.Debug("Built slots", zap.String("period", plan.Period.Key()), zap.Int("slots", len(slots)), zap.Int("members", len(plan.Members)))

	g := &generator{cache: candidateCache, recorder: recorder, logger: logger, opts: generateOptions(cfg, req.Workers)}

	var references []*roster.Assignment
	pairedWith := ""
	if req.Paired {
		references, pairedWith, err = g.pairingReferences(ctx, store, plan, req.Category.Other())
		if err != nil {
			return nil, err
		}
		g.strength = cfg.Generation.PairingStrength
	}

	assignments, stats, fromCache, err := g.generate(ctx, plan.Members, slots, req.Category, references)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Period:     plan.Period,
		Category:   req.Category,
		Slots:      slots,
		Members:    plan.Members,
		Stats:      stats,
		FromCache:  fromCache,
		PairedWith: pairedWith,
	}
	for i, a := range assignments {
		result.Candidates = append(result.Candidates, Candidate{
			Index:        i + 1,
			Assignment:   a,
			Understaffed: a.Understaffed(),
			Violations:   a.Validate(plan.Members, nil),
		})
	}

	logger.Info("Generated candidates",
		zap.String("period", plan.Period.Key()),
		zap.String("category", string(req.Category)),
		zap.Int("candidates", len(result.Candidates)),
		zap.Int("attempts", stats.Attempts),
		zap.Bool("best_effort", stats.BestEffort),
		zap.Bool("from_cache", fromCache))

	return result, nil
}

// generator runs the engine behind the candidate cache
type generator struct {
	cache    CandidateCache
	recorder MetricsRecorder
	logger   *zap.Logger
	opts     roster.GenerateOptions
	strength float64
}

// pairingReferences returns the adopted roster of category, or freshly
// generated candidates of it when nothing is adopted
func (g *generator) pairingReferences(ctx context.Context, store db.RosterStore, plan *Plan, category roster.Category) ([]*roster.Assignment, string, error) {
	adopted, err := getAdopted(ctx, store, plan, category)
	if err != nil {
		return nil, "", err
	}

	if adopted != nil {
		ref, err := adopted.Assignment(plan.Members)
		if err != nil {
			return nil, "", fmt.Errorf("failed to restore adopted %s roster: %w", category, err)
		}
		g.logger.Debug("Pairing with adopted roster", zap.String("category", string(category)), zap.String("fingerprint", adopted.Fingerprint))
		return []*roster.Assignment{ref}, PairedWithAdopted, nil
	}

	slots, err := plan.Slots(category)
	if err != nil {
		return nil, "", err
	}
	refs, _, _, err := g.generate(ctx, plan.Members, slots, category, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate %s references: %w", category, err)
	}
	g.logger.Debug("Pairing with generated candidates", zap.String("category", string(category)), zap.Int("references", len(refs)))
	return refs, PairedWithCandidates, nil
}

func (g *generator) generate(ctx context.Context, members []roster.Member, slots []roster.Slot, category roster.Category, references []*roster.Assignment) ([]*roster.Assignment, roster.GenerateStats, bool, error) {
	inputs := cache.Inputs{
		Members:         members,
		Slots:           slots,
		Count:           g.opts.Count,
		MinSatisfaction: g.opts.MinSatisfaction,
		MaxAttempts:     g.opts.AttemptBudget(),
	}
	if len(references) > 0 {
		inputs.PairingStrength = g.strength
		for _, ref := range references {
			inputs.PairedWith = append(inputs.PairedWith, ref.Signature())
		}
	}
	fingerprint := inputs.Fingerprint()

	if g.cache != nil {
		if entry, ok := g.cache.Get(ctx, fingerprint); ok {
			assignments, err := restoreCandidates(members, slots, entry)
			if err == nil {
				if g.recorder != nil {
					g.recorder.ObserveCacheHit(category)
				}
				stats := roster.GenerateStats{
					Attempts:   entry.Attempts,
					Accepted:   entry.Accepted,
					BestSeen:   entry.BestSeen,
					BestEffort: entry.BestEffort,
				}
				return assignments, stats, true, nil
			}
			g.logger.Warn("Ignoring unusable cache entry", zap.String("fingerprint", fingerprint), zap.Error(err))
			if err := g.cache.Invalidate(ctx, fingerprint); err != nil {
				g.logger.Warn("Failed to invalidate cache entry", zap.String("fingerprint", fingerprint), zap.Error(err))
			}
		}
	}

	start := time.Now()
	var (
		assignments []*roster.Assignment
		stats       roster.GenerateStats
		err         error
	)
	if len(references) > 0 {
		assignments, stats, err = roster.GeneratePairedWithStats(members, slots, references, g.strength, g.opts)
	} else {
		assignments, stats, err = roster.GenerateWithStats(members, slots, g.opts)
	}
	if err != nil {
		return nil, roster.GenerateStats{}, false, fmt.Errorf("failed to generate %s candidates: %w", category, err)
	}
	elapsed := time.Since(start)

	g.logger.Debug("Generator finished",
		zap.String("category", string(category)),
		zap.Int("attempts", stats.Attempts),
		zap.Int("accepted", stats.Accepted),
		zap.Duration("elapsed", elapsed))

	if g.recorder != nil {
		g.recorder.ObserveGenerate(category, stats, assignments, elapsed)
	}

	if g.cache != nil {
		if err := g.cache.Put(ctx, fingerprint, snapshotCandidates(assignments, stats)); err != nil {
			g.logger.Warn("Failed to cache candidates", zap.String("fingerprint", fingerprint), zap.Error(err))
		}
	}

	return assignments, stats, false, nil
}

func snapshotCandidates(assignments []*roster.Assignment, stats roster.GenerateStats) *cache.Entry {
	entry := &cache.Entry{
		Attempts:   stats.Attempts,
		Accepted:   stats.Accepted,
		BestSeen:   stats.BestSeen,
		BestEffort: stats.BestEffort,
		CachedAt:   time.Now().UTC(),
	}
	for _, a := range assignments {
		snap := cache.Snapshot{Signature: a.Signature(), Seed: a.Seed, FairnessBias: a.FairnessBias}
		for name, dates := range a.External {
			if snap.External == nil {
				snap.External = make(map[string][]string)
			}
			for d := range dates {
				snap.External[name] = append(snap.External[name], d.String())
			}
		}
		entry.Candidates = append(entry.Candidates, snap)
	}
	return entry
}

func restoreCandidates(members []roster.Member, slots []roster.Slot, entry *cache.Entry) ([]*roster.Assignment, error) {
	out := make([]*roster.Assignment, 0, len(entry.Candidates))
	for _, snap := range entry.Candidates {
		bySlot, err := roster.ParseSignature(snap.Signature)
		if err != nil {
			return nil, err
		}
		a := roster.Restore(members, slots, bySlot)
		if a.Signature() != snap.Signature {
			return nil, fmt.Errorf("cached candidate does not match the current slots")
		}
		a.Seed = snap.Seed
		a.FairnessBias = snap.FairnessBias
		for name, dates := range snap.External {
			set := make(roster.DateSet, len(dates))
			for _, s := range dates {
				d, err := roster.ParseDate(s)
				if err != nil {
					return nil, err
				}
				set[d] = true
			}
			a.External[name] = set
		}
		out = append(out, a)
	}
	return out, nil
}
