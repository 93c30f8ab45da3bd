// Package reduce drives the per-round classification of learned clauses. It
// validates candidates at the reducer boundary, picks each candidate's
// ensemble, classifies the round in parallel against one snapshot of the
// conflict counter and hands back a Plan the clause database applies in a
// single sequential pass.
package reduce

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/msoos/cryptominisat-sub002/reduce/trace"
	"github.com/msoos/cryptominisat-sub002/retention"
)

// Outcome is what a sweep decided for one candidate.
type Outcome uint8

const (
	OutcomeKeep Outcome = iota
	OutcomeEvict
	// OutcomeRejected marks a candidate that failed validation. Rejected
	// clauses are kept: nothing is evicted without being classified.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeKeep:
		return trace.OutcomeKeep
	case OutcomeEvict:
		return trace.OutcomeEvict
	case OutcomeRejected:
		return trace.OutcomeRejected
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// Decision is the sweep result for one candidate.
type Decision struct {
	ID         uint64
	Model      retention.ModelKey
	Votes      int
	Outcome    Outcome
	Reason     string
	AgeWrapped bool
}

// Evicted reports whether the clause should be removed.
func (d *Decision) Evicted() bool { return d.Outcome == OutcomeEvict }

// Plan holds a round's decisions in candidate order.
type Plan struct {
	RoundID      uuid.UUID
	SumConflicts uint64
	Decisions    []Decision
	Trace        *trace.RoundTrace // nil unless tracing is enabled
}

// Counts returns how many candidates were kept, evicted and rejected.
func (p *Plan) Counts() (kept, evicted, rejected int) {
	for i := range p.Decisions {
		switch p.Decisions[i].Outcome {
		case OutcomeKeep:
			kept++
		case OutcomeEvict:
			evicted++
		case OutcomeRejected:
			rejected++
		}
	}
	return kept, evicted, rejected
}

// EvictedIDs lists the IDs of evicted candidates in candidate order.
func (p *Plan) EvictedIDs() []uint64 {
	ids := make([]uint64, 0)
	for i := range p.Decisions {
		if p.Decisions[i].Evicted() {
			ids = append(ids, p.Decisions[i].ID)
		}
	}
	return ids
}

// LookupFunc resolves a model key to its ensemble.
type LookupFunc func(retention.ModelKey) (*retention.Ensemble, error)

// Sweeper classifies reduction rounds. It holds only configuration and is
// safe to reuse across rounds.
type Sweeper struct {
	cfg    Config
	lookup LookupFunc
}

// NewSweeper validates cfg and returns a Sweeper that resolves ensembles
// through retention.Lookup.
func NewSweeper(cfg Config) (*Sweeper, error) {
	return NewSweeperWithLookup(cfg, retention.Lookup)
}

// NewSweeperWithLookup is NewSweeper with a caller-supplied model source.
func NewSweeperWithLookup(cfg Config, lookup LookupFunc) (*Sweeper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sweeper{cfg: cfg, lookup: lookup}, nil
}

// ModelKey selects the ensemble for a candidate.
func (s *Sweeper) ModelKey(c *Candidate) retention.ModelKey {
	return retention.ModelKey{Length: c.Tier, Config: s.cfg.SolverConfig, Cluster: c.Cluster}
}

// Sweep classifies cands against the conflict counter snapshot sumConflicts.
// Candidates are validated first; the ones that fail are rejected and never
// looked up. Every remaining candidate's ensemble is resolved before any
// classification starts, so a well-formed key with no registered ensemble
// fails the whole round. Classification runs on up to Workers goroutines,
// each writing only its own slice of the result.
func (s *Sweeper) Sweep(ctx context.Context, sumConflicts uint64, cands []Candidate) (*Plan, error) {
	plan := &Plan{
		RoundID:      uuid.New(),
		SumConflicts: sumConflicts,
		Decisions:    make([]Decision, len(cands)),
	}

	// A nil ensemble marks a candidate rejected at the boundary.
	ensembles := make([]*retention.Ensemble, len(cands))
	byKey := make(map[retention.ModelKey]*retention.Ensemble)
	for i := range cands {
		key := s.ModelKey(&cands[i])
		if err := cands[i].Validate(); err != nil {
			plan.Decisions[i] = Decision{ID: cands[i].ID, Model: key, Outcome: OutcomeRejected, Reason: err.Error()}
			continue
		}
		e, ok := byKey[key]
		if !ok {
			var err error
			if e, err = s.lookup(key); err != nil {
				return nil, fmt.Errorf("round %s: clause %d: %w", plan.RoundID, cands[i].ID, err)
			}
			if e == nil {
				return nil, fmt.Errorf("round %s: clause %d: %w: %s", plan.RoundID, cands[i].ID, retention.ErrUnknownModel, key)
			}
			byKey[key] = e
		}
		ensembles[i] = e
	}

	start := time.Now()
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for lo := 0; lo < len(cands); lo += s.cfg.ChunkSize {
		hi := min(lo+s.cfg.ChunkSize, len(cands))
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				if ensembles[i] == nil {
					continue
				}
				plan.Decisions[i] = s.classify(&cands[i], ensembles[i], sumConflicts)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("round %s: %w", plan.RoundID, err)
	}
	elapsed := time.Since(start)
	sweepDuration.Observe(elapsed.Seconds())

	s.report(plan, elapsed)
	return plan, nil
}

func (s *Sweeper) classify(c *Candidate, e *retention.Ensemble, sumConflicts uint64) Decision {
	d := Decision{ID: c.ID, Model: e.Key}
	if !c.CheckConflictAge(sumConflicts) {
		if s.cfg.StrictConflictAge {
			d.Outcome = OutcomeRejected
			d.Reason = fmt.Sprintf("clause %d: introduced at conflict %d, after current conflict %d",
				c.ID, c.Clause.Statistics.IntroducedAtConflict, sumConflicts)
			return d
		}
		d.AgeWrapped = true
	}
	res := e.Decide(&c.Clause, c.Inputs(sumConflicts))
	d.Votes = res.Votes
	if res.Keep {
		d.Outcome = OutcomeKeep
	} else {
		d.Outcome = OutcomeEvict
	}
	return d
}

// report updates metrics, the optional trace and the log once the parallel
// phase is over.
func (s *Sweeper) report(plan *Plan, elapsed time.Duration) {
	if s.cfg.TraceLevel.Enabled() {
		plan.Trace = trace.NewRoundTrace(plan.RoundID.String(), s.cfg.TraceLevel, plan.SumConflicts)
	}
	wrapped := 0
	for i := range plan.Decisions {
		d := &plan.Decisions[i]
		model := d.Model.String()
		decisionsTotal.WithLabelValues(model, d.Outcome.String()).Inc()
		if d.Outcome != OutcomeRejected {
			keepVotes.WithLabelValues(model).Observe(float64(d.Votes))
		} else {
			logrus.Warnf("[round %s] rejected candidate: %s", plan.RoundID, d.Reason)
		}
		if d.AgeWrapped {
			wrapped++
			conflictAgeWraps.Inc()
		}
		if plan.Trace != nil {
			plan.Trace.Record(trace.DecisionRecord{
				ClauseID:   d.ID,
				Model:      model,
				Votes:      d.Votes,
				Outcome:    d.Outcome.String(),
				Reason:     d.Reason,
				AgeWrapped: d.AgeWrapped,
			})
		}
	}
	if wrapped > 0 {
		logrus.Warnf("[round %s] %d candidates introduced after conflict %d; their clause age wrapped",
			plan.RoundID, wrapped, plan.SumConflicts)
	}
	kept, evicted, rejected := plan.Counts()
	logrus.Debugf("[round %s] classified %d candidates in %v: kept=%d evicted=%d rejected=%d",
		plan.RoundID, len(plan.Decisions), elapsed, kept, evicted, rejected)
}
