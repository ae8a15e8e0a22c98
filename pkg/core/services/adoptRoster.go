package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/db"
)

// ErrUnknownCandidate is returned when a selector matches no current candidate
var ErrUnknownCandidate = errors.New("no candidate matches")

// minFingerprintPrefix is the shortest fingerprint prefix accepted as a selector
const minFingerprintPrefix = 4

// AdoptRequest identifies the candidate to adopt
type AdoptRequest struct {
	GenerateRequest
	// Selector is a full signature, a fingerprint or fingerprint prefix, or
	// a 1-based candidate index
	Selector string
}

// AdoptRoster regenerates the candidates for the request, picks the one
// matching the selector and stores it as the adopted roster for the period
// and category, replacing any earlier adoption
func AdoptRoster(
	ctx context.Context,
	store db.RosterStore,
	candidateCache CandidateCache,
	recorder MetricsRecorder,
	cfg *config.Config,
	logger *zap.Logger,
	req AdoptRequest,
) (*db.AdoptedRoster, error) {
	logger.Debug("Starting adoptRoster", zap.String("category", string(req.Category)), zap.String("selector", req.Selector))

	if strings.TrimSpace(req.Selector) == "" {
		return nil, fmt.Errorf("a candidate signature, fingerprint or index is required")
	}

	result, err := GenerateRoster(ctx, store, candidateCache, recorder, cfg, logger, req.GenerateRequest)
	if err != nil {
		return nil, err
	}

	candidate, err := SelectCandidate(result.Candidates, req.Selector)
	if err != nil {
		return nil, err
	}

	adopted := db.NewAdoptedRoster(result.Period.Key(), req.Category, candidate.Assignment, time.Now())

	logger.Debug("Storing adopted roster",
		zap.String("id", adopted.ID.String()),
		zap.String("period", adopted.PeriodKey),
		zap.String("fingerprint", adopted.Fingerprint),
		zap.String("slots", candidate.Assignment.Summary()))

	if err := store.UpsertAdoptedRoster(ctx, adopted); err != nil {
		return nil, fmt.Errorf("failed to store adopted roster: %w", err)
	}

	logger.Info("Adopted roster",
		zap.String("period", adopted.PeriodKey),
		zap.String("category", adopted.Category),
		zap.Int("candidate", candidate.Index),
		zap.String("fingerprint", adopted.Fingerprint))

	return adopted, nil
}

// SelectCandidate finds the candidate matching selector: an exact
// signature, a fingerprint prefix of at least four characters, or a
// 1-based index (selectors shorter than a fingerprint prefix)
func SelectCandidate(candidates []Candidate, selector string) (*Candidate, error) {
	selector = strings.TrimSpace(selector)

	for i := range candidates {
		if candidates[i].Assignment.Signature() == selector {
			return &candidates[i], nil
		}
	}

	if len(selector) < minFingerprintPrefix {
		if index, err := strconv.Atoi(selector); err == nil {
			if index >= 1 && index <= len(candidates) {
				return &candidates[index-1], nil
			}
			return nil, fmt.Errorf("%w index %d: %d candidates available", ErrUnknownCandidate, index, len(candidates))
		}
		return nil, fmt.Errorf("%w %q: fingerprint prefixes need at least %d characters", ErrUnknownCandidate, selector, minFingerprintPrefix)
	}

	var match *Candidate
	for i := range candidates {
		if !strings.HasPrefix(candidates[i].Assignment.Fingerprint(), strings.ToLower(selector)) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("fingerprint prefix %q is ambiguous", selector)
		}
		match = &candidates[i]
	}
	if match == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownCandidate, selector)
	}
	return match, nil
}

// UnadoptRoster removes the adopted roster for a category of the period
func UnadoptRoster(ctx context.Context, store db.RosterStore, cfg *config.Config, logger *zap.Logger, periodKey string, category roster.Category) error {
	plan, err := LoadPlan(cfg, periodKey)
	if err != nil {
		return err
	}

	if err := store.DeleteAdoptedRoster(ctx, plan.Period.Key(), string(category)); err != nil {
		return fmt.Errorf("failed to remove adopted %s roster: %w", category, err)
	}

	logger.Info("Removed adopted roster", zap.String("period", plan.Period.Key()), zap.String("category", string(category)))
	return nil
}
