// Package pcp searches for solutions of Post Correspondence Problem
// instances.
//
// A PCP instance is an ordered list of tiles, each an (up, down) string
// pair. A solution is a non-empty sequence of 1-based tile indices, with
// repetition, whose up strings concatenate to the same string as its down
// strings. PCP is undecidable in general, so the solver only searches up to
// a depth bound.
//
// # Search
//
// Solver.Solve runs an iterative-deepening depth-first search. For each
// bound from max(1, MinDepth) to MaxDepth it clears the state store and
// searches from the empty Frontier. Placing a tile either
//
//   - Mismatches: up and down disagree within the shorter string, the
//     branch is dead;
//   - Matches: both strings are equal, a solution if the path is long enough;
//   - Partially matches: one side overhangs the other by a suffix, which
//     becomes the new Frontier.
//
// Partial frontiers are recorded in the store with the remaining depth and
// path length they were reached with. A frontier already expanded with at
// least as much remaining depth is not expanded again within the same bound.
//
// Example:
//
//	tiles, err := pcp.ParseTiles("aa/a a/aa")
//	if err != nil {
//		return err
//	}
//	res, err := pcp.Solve(ctx, tiles, 10, 1)
//	if err != nil {
//		return err
//	}
//	if res.Found {
//		fmt.Println(res.Path, res.Match(tiles)) // [1 2] aaa
//	}
//
// # Storage
//
// Any store.StateStore works. OpenStore builds one from store.Options: a
// map in memory mode, or a persistent backend (SQLite, BadgerDB, Redis,
// PostgreSQL) behind an LRU cache, falling back to memory when the backend
// cannot be opened.
//
// # Cancellation and Progress
//
// The search checks ctx at every node and between bounds. A cancelled run
// returns a Result with Cancelled set and a nil error. Every
// CheckpointInterval nodes the search checks the clock; when ReportInterval
// has passed it yields the processor and sends an EventCheckpoint Progress
// to the registered listeners.
package pcp
