package pcp

import (
	"context"
	"fmt"
	"time"
)

// Event identifies a progress notification.
type Event string

const (
	// EventBoundStart is emitted before each depth bound is searched
	EventBoundStart Event = "bound_start"
	// EventCheckpoint is emitted from inside the search at node checkpoints
	EventCheckpoint Event = "checkpoint"
	// EventFound is emitted once when a solution is returned
	EventFound Event = "found"
	// EventExhausted is emitted when every bound failed
	EventExhausted Event = "exhausted"
	// EventCancelled is emitted when the context stopped the run
	EventCancelled Event = "cancelled"
)

// Progress is a purely observational snapshot of a running search.
type Progress struct {
	RunID    string
	Event    Event
	Bound    int
	MaxDepth int
	Nodes    int64
	Elapsed  time.Duration
	Path     []int // only set for EventFound
}

// String renders the progress line shown to users.
func (p Progress) String() string {
	switch p.Event {
	case EventBoundStart:
		return fmt.Sprintf("Searching depth %d... (Time: %.2fs)", p.Bound, p.Elapsed.Seconds())
	case EventCheckpoint:
		return fmt.Sprintf("Searching depth %d... Nodes: %d", p.Bound, p.Nodes)
	case EventFound:
		return fmt.Sprintf("Solution found at depth %d.", len(p.Path))
	case EventExhausted:
		return fmt.Sprintf("No solution found up to depth %d.", p.MaxDepth)
	case EventCancelled:
		return "Stopped by user."
	default:
		return string(p.Event)
	}
}

// ProgressListener receives progress notifications. Implementations must
// return quickly; they run on the search goroutine.
type ProgressListener interface {
	OnProgress(ctx context.Context, p Progress)
}

// ProgressFunc is a function adapter for ProgressListener
type ProgressFunc func(ctx context.Context, p Progress)

// OnProgress implements the ProgressListener interface
func (f ProgressFunc) OnProgress(ctx context.Context, p Progress) {
	f(ctx, p)
}

// ChannelListener forwards progress to a channel without blocking; events
// are dropped when the channel is full.
type ChannelListener chan<- Progress

// OnProgress implements the ProgressListener interface
func (c ChannelListener) OnProgress(_ context.Context, p Progress) {
	select {
	case c <- p:
	default:
	}
}
