package pcp

import (
	"context"
	"runtime"
	"time"

	"github.com/smallnest/pcpsolver/store"
)

// searchContext owns everything one depth-bounded search mutates: the path,
// node counter and checkpoint clock. A fresh one is built per run.
type searchContext struct {
	ctx      context.Context
	tiles    []Tile
	store    store.StateStore
	minDepth int
	maxDepth int
	bound    int

	path  []int
	nodes int64

	checkpointInterval int64
	reportInterval     time.Duration
	start              time.Time
	lastReport         time.Time

	runID  string
	notify func(Progress)
}

// search extends the path by up to depthLeft tiles from state. It returns
// true when sc.path holds a solution. A non-nil error is either a store
// failure or the context's error; in both cases nothing further is written.
func (sc *searchContext) search(state Frontier, depthLeft int) (bool, error) {
	if err := sc.ctx.Err(); err != nil {
		return false, err
	}
	if depthLeft == 0 {
		return false, nil
	}

	if sc.nodes%sc.checkpointInterval == 0 {
		sc.checkpoint()
	}
	sc.nodes++

	for i, tile := range sc.tiles {
		next, outcome := state.Extend(tile)

		switch outcome {
		case Mismatch:
			continue

		case Match:
			sc.push(i + 1)
			if len(sc.path) >= sc.minDepth {
				return true, nil
			}
			found, err := sc.search(next, depthLeft-1)
			if err != nil || found {
				return found, err
			}
			sc.pop()

		case Partial:
			rem := depthLeft - 1
			key := next.Key()

			existing, ok, err := sc.store.Get(sc.ctx, key)
			if err != nil {
				return false, err
			}
			if ok && existing.BestRemainingDepth >= rem &&
				(sc.minDepth == 0 || existing.BestPathLength >= len(sc.path)) {
				continue
			}

			entry := store.Entry{BestRemainingDepth: rem, BestPathLength: len(sc.path)}
			if err := sc.store.Set(sc.ctx, key, entry); err != nil {
				return false, err
			}

			sc.push(i + 1)
			found, err := sc.search(next, rem)
			if err != nil || found {
				return found, err
			}
			sc.pop()
		}
	}
	return false, nil
}

func (sc *searchContext) push(idx int) {
	sc.path = append(sc.path, idx)
}

func (sc *searchContext) pop() {
	sc.path = sc.path[:len(sc.path)-1]
}

// checkpoint yields to the scheduler and reports progress when the report
// interval has elapsed since the last report.
func (sc *searchContext) checkpoint() {
	now := time.Now()
	if now.Sub(sc.lastReport) < sc.reportInterval {
		return
	}
	runtime.Gosched()
	sc.lastReport = now
	sc.emit(EventCheckpoint)
}

func (sc *searchContext) emit(event Event) {
	if sc.notify == nil {
		return
	}
	p := Progress{
		RunID:    sc.runID,
		Event:    event,
		Bound:    sc.bound,
		MaxDepth: sc.maxDepth,
		Nodes:    sc.nodes,
		Elapsed:  time.Since(sc.start),
	}
	if event == EventFound {
		p.Path = append([]int(nil), sc.path...)
	}
	sc.notify(p)
}
