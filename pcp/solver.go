package pcp

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smallnest/pcpsolver/log"
	"github.com/smallnest/pcpsolver/store"
	"github.com/smallnest/pcpsolver/store/memory"
)

const (
	// DefaultCheckpointInterval is how many nodes pass between checkpoint checks
	DefaultCheckpointInterval = 5000
	// DefaultReportInterval is the minimum time between checkpoint reports
	DefaultReportInterval = 100 * time.Millisecond
)

// Problem is one PCP instance plus its search bounds.
type Problem struct {
	Tiles []Tile
	// MaxDepth is the largest path length searched, at least 1
	MaxDepth int
	// MinDepth is the shortest accepted solution length, 0 for any
	MinDepth int
}

// Validate checks the problem before any search state is created.
func (p Problem) Validate() error {
	if len(p.Tiles) == 0 {
		return ErrNoTiles
	}
	if p.MaxDepth < 1 {
		return &ValidationError{Field: "max_depth", Reason: fmt.Sprintf("must be at least 1, got %d", p.MaxDepth)}
	}
	if p.MinDepth < 0 {
		return &ValidationError{Field: "min_depth", Reason: fmt.Sprintf("must not be negative, got %d", p.MinDepth)}
	}
	return nil
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	// Found is true when Path holds a solution
	Found bool
	// Path holds 1-based tile indices
	Path []int
	// Bound is the depth bound that produced Path, or the last bound started
	Bound int
	// Nodes counts expanded search nodes over all bounds
	Nodes int64
	// Cancelled is true when the context stopped the run
	Cancelled bool
	Elapsed   time.Duration
}

// Match returns the string both concatenations spell for a found path.
func (r *Result) Match(tiles []Tile) string {
	up, _ := Concat(tiles, r.Path)
	return up
}

// Solver runs iterative-deepening searches against a state store. A Solver
// runs one search at a time; concurrent Solve calls wait for each other.
type Solver struct {
	mu    sync.Mutex
	store store.StateStore

	logger             log.Logger
	listeners          []ProgressListener
	checkpointInterval int64
	reportInterval     time.Duration
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the solver's logger
func WithLogger(logger log.Logger) Option {
	return func(s *Solver) {
		s.logger = logger
	}
}

// WithProgress adds a progress listener
func WithProgress(listener ProgressListener) Option {
	return func(s *Solver) {
		s.listeners = append(s.listeners, listener)
	}
}

// WithCheckpointInterval sets how many nodes pass between checkpoint checks
func WithCheckpointInterval(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.checkpointInterval = int64(n)
		}
	}
}

// WithReportInterval sets the minimum time between checkpoint reports
func WithReportInterval(d time.Duration) Option {
	return func(s *Solver) {
		if d >= 0 {
			s.reportInterval = d
		}
	}
}

// NewSolver creates a solver over st. A nil store means a fresh in-memory one.
func NewSolver(st store.StateStore, opts ...Option) *Solver {
	if st == nil {
		st = memory.NewMemoryStateStore()
	}
	s := &Solver{
		store:              instrumentedStore{StateStore: st},
		checkpointInterval: DefaultCheckpointInterval,
		reportInterval:     DefaultReportInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.OrDefault(s.logger)
	return s
}

// Solve is a shorthand for an in-memory search with default options.
func Solve(ctx context.Context, tiles []Tile, maxDepth, minDepth int) (*Result, error) {
	return NewSolver(nil).Solve(ctx, Problem{Tiles: tiles, MaxDepth: maxDepth, MinDepth: minDepth})
}

// Solve searches depth bounds max(1, MinDepth) through MaxDepth in order and
// returns the first solution found, which therefore has the smallest
// accepted length.
//
// Cancellation of ctx is not an error: the result has Cancelled set and a
// nil error, unless a solution was already found. Store failures abort the run and are returned; they match
// store.ErrUnavailable.
func (s *Solver) Solve(ctx context.Context, p Problem) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sc := &searchContext{
		ctx:                ctx,
		tiles:              p.Tiles,
		store:              s.store,
		minDepth:           p.MinDepth,
		maxDepth:           p.MaxDepth,
		checkpointInterval: s.checkpointInterval,
		reportInterval:     s.reportInterval,
		start:              time.Now(),
		runID:              uuid.NewString(),
		notify: func(pr Progress) {
			for _, l := range s.listeners {
				l.OnProgress(ctx, pr)
			}
		},
	}
	sc.lastReport = sc.start

	s.logger.Info("run %s: %d tiles, depth %d..%d", sc.runID, len(p.Tiles), max(1, p.MinDepth), p.MaxDepth)

	found, err := s.iterate(sc)

	res := &Result{
		RunID:   sc.runID,
		Bound:   sc.bound,
		Nodes:   sc.nodes,
		Elapsed: time.Since(sc.start),
	}
	nodesExpanded.Add(float64(sc.nodes))

	// A solution reached before a late cancel is still returned.
	switch {
	case found:
		res.Found = true
		res.Path = append([]int(nil), sc.path...)
		sc.emit(EventFound)
		runsTotal.WithLabelValues("found").Inc()
		s.logger.Info("run %s: solution of length %d found after %d nodes", sc.runID, len(res.Path), sc.nodes)
		return res, nil
	case ctx.Err() != nil:
		res.Cancelled = true
		sc.emit(EventCancelled)
		runsTotal.WithLabelValues("cancelled").Inc()
		s.logger.Info("run %s: cancelled at bound %d after %d nodes", sc.runID, sc.bound, sc.nodes)
		return res, nil
	case err != nil:
		runsTotal.WithLabelValues("error").Inc()
		s.logger.Error("run %s: search failed at bound %d: %v", sc.runID, sc.bound, err)
		return nil, fmt.Errorf("search at bound %d: %w", sc.bound, err)
	default:
		sc.emit(EventExhausted)
		runsTotal.WithLabelValues("exhausted").Inc()
		s.logger.Info("run %s: no solution up to depth %d (%d nodes)", sc.runID, p.MaxDepth, sc.nodes)
		return res, nil
	}
}

// iterate runs the depth bounds. The table is cleared before every bound
// since remaining-depth entries are relative to the bound that wrote them.
func (s *Solver) iterate(sc *searchContext) (bool, error) {
	for bound := max(1, sc.minDepth); bound <= sc.maxDepth; bound++ {
		if err := sc.ctx.Err(); err != nil {
			return false, err
		}

		sc.bound = bound
		if err := sc.store.Clear(sc.ctx); err != nil {
			return false, err
		}
		sc.path = sc.path[:0]

		runtime.Gosched()
		sc.emit(EventBoundStart)
		s.logger.Debug("run %s: searching bound %d (%d nodes so far)", sc.runID, bound, sc.nodes)

		started := time.Now()
		found, err := sc.search(Start(), bound)
		boundDuration.Observe(time.Since(started).Seconds())
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}
