package roster

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// AttemptsPerCandidate is the default attempt budget per requested candidate
const AttemptsPerCandidate = 40

// GenerateOptions configures a Generate run
type GenerateOptions struct {
	// Count is the number of candidates wanted
	Count int

	// MinSatisfaction is the acceptance threshold on a roster's minimum
	// member satisfaction
	MinSatisfaction float64

	// MaxAttempts bounds the number of attempts. Nil uses
	// AttemptsPerCandidate * Count; zero runs no attempts.
	MaxAttempts *int

	Pairing  *Pairing
	Criteria []Criterion

	// Workers > 1 runs attempts concurrently. Results are identical to a
	// sequential run.
	Workers int
}

// GenerateStats describes how a Generate run ended
type GenerateStats struct {
	Attempts   int
	Accepted   int
	BestSeen   int
	BestEffort bool
}

// AttemptBudget resolves MaxAttempts against its default
func (o GenerateOptions) AttemptBudget() int {
	if o.MaxAttempts == nil {
		return AttemptsPerCandidate * o.Count
	}
	return *o.MaxAttempts
}

// FairnessBias returns the saw-tooth bias used for the given attempt,
// cycling from 0.4 to 0.8 every 10 attempts
func FairnessBias(attempt int) float64 {
	return 0.4 + 0.4*(float64(attempt%10)/9)
}

// Generate runs greedy passes with seeds 0, 1, 2, ... until Count distinct
// rosters meet MinSatisfaction or MaxAttempts is reached. It returns the
// accepted rosters by descending score, or the best rosters seen when none
// were accepted.
func Generate(members []Member, slots []Slot, opts GenerateOptions) ([]*Assignment, error) {
	results, _, err := GenerateWithStats(members, slots, opts)
	return results, err
}

// GenerateWithStats is Generate that also reports attempt statistics
func GenerateWithStats(members []Member, slots []Slot, opts GenerateOptions) ([]*Assignment, GenerateStats, error) {
	if opts.Count < 0 {
		return nil, GenerateStats{}, fmt.Errorf("candidate count must not be negative, got %d", opts.Count)
	}
	maxAttempts := opts.AttemptBudget()
	if maxAttempts < 0 {
		return nil, GenerateStats{}, fmt.Errorf("max attempts must not be negative, got %d", maxAttempts)
	}

	pool := newCandidatePool(opts.Count, opts.MinSatisfaction)

	attempt := func(n int) *Assignment {
		return Assign(members, slots, Options{
			Seed:         int32(n),
			FairnessBias: FairnessBias(n),
			Pairing:      opts.Pairing,
			Criteria:     opts.Criteria,
		})
	}

	workers := max(1, opts.Workers)
	next := 0
	for !pool.done() && next < maxAttempts {
		batch := min(workers, maxAttempts-next)
		results := make([]*Assignment, batch)

		if batch == 1 {
			results[0] = attempt(next)
		} else {
			var g errgroup.Group
			for i := range batch {
				n := next + i
				g.Go(func() error {
					results[n-next] = attempt(n)
					return nil
				})
			}
			// Attempts never fail; Wait only joins the batch
			_ = g.Wait()
		}

		// Fold in attempt order and stop where a sequential run would have
		for _, a := range results {
			if pool.done() {
				break
			}
			pool.add(a)
			next++
		}
	}

	stats := GenerateStats{
		Attempts: next,
		Accepted: len(pool.accepted),
		BestSeen: len(pool.bestSeen),
	}
	out := pool.result()
	stats.BestEffort = len(pool.accepted) == 0 && len(out) > 0
	return out, stats, nil
}

// candidatePool collects distinct rosters during a Generate run
type candidatePool struct {
	count     int
	threshold float64

	accepted     []*Assignment
	bestSeen     []*Assignment
	acceptedSigs map[string]bool
	seenSigs     map[string]bool
}

func newCandidatePool(count int, threshold float64) *candidatePool {
	return &candidatePool{
		count:        count,
		threshold:    threshold,
		acceptedSigs: make(map[string]bool),
		seenSigs:     make(map[string]bool),
	}
}

func (p *candidatePool) done() bool {
	return len(p.accepted) >= p.count
}

func (p *candidatePool) add(a *Assignment) {
	sig := a.Signature()
	if !p.seenSigs[sig] {
		p.seenSigs[sig] = true
		p.bestSeen = append(p.bestSeen, a)
	}
	if a.MinSatisfaction >= p.threshold && !p.acceptedSigs[sig] {
		p.acceptedSigs[sig] = true
		p.accepted = append(p.accepted, a)
	}
}

func (p *candidatePool) result() []*Assignment {
	source := p.accepted
	if len(source) == 0 {
		source = p.bestSeen
	}

	ranked := make([]*Assignment, len(source))
	copy(ranked, source)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if len(ranked) > p.count {
		ranked = ranked[:p.count]
	}
	return ranked
}
