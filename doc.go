// Package pcpsolver searches for solutions to Post Correspondence Problem
// instances.
//
// A PCP instance is a list of tiles, each with an up string and a down
// string. A solution is a non-empty sequence of tile indices, repetition
// allowed, whose up strings and down strings concatenate to the same word.
// The problem is undecidable in general, so the search is bounded by depth.
//
// # Packages
//
//   - pcp: tile parsing, the frontier model and the iterative-deepening solver
//   - store: the transposition table contract and its backends (memory,
//     sqlite, badger, redis, postgres) plus an LRU write-through cache
//   - config: YAML configuration
//   - log: leveled logging on the standard library or kataras/golog
//   - cmd/pcpsolve: the command line front end
//
// # Quick Start
//
//	tiles, err := pcp.ParseTiles("a/baa ab/aa bba/bb")
//	if err != nil {
//		return err
//	}
//	res, err := pcp.Solve(ctx, tiles, 10, 0)
//	if err != nil {
//		return err
//	}
//	if res.Found {
//		fmt.Println(res.Path, res.Match(tiles)) // [3 2 3 1] bbaabbbaa
//	}
//
// # Storage
//
// The solver memoizes frontier states it has expanded. By default the table
// lives in memory. Persistent mode keeps it in a database behind an LRU
// cache, which bounds memory use on deep searches:
//
//	opts := store.DefaultOptions()
//	opts.Mode = store.ModePersistent
//	h, err := pcp.OpenStore(ctx, opts, nil)
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//	res, err := pcp.NewSolver(h.Store).Solve(ctx, pcp.Problem{Tiles: tiles, MaxDepth: 30})
//
// When the persistent backend cannot be opened OpenStore falls back to
// memory and reports the cause in StoreHandle.Fallback.
package pcpsolver
