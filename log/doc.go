// Package log provides the leveled logging interface used across the PCP
// solver.
//
// Components accept a Logger and fall back to the package-level default when
// given nil (see OrDefault). Two implementations are provided:
//
//   - DefaultLogger, built on the standard library log package
//   - GologLogger, a thin wrapper over github.com/kataras/golog
//
// Example:
//
//	logger := log.NewDefaultLogger(log.LogLevelDebug)
//	solver := pcp.NewSolver(st, pcp.WithLogger(logger))
//
//	// or with golog
//	g := golog.New()
//	g.SetPrefix("[pcpsolve] ")
//	solver := pcp.NewSolver(st, pcp.WithLogger(log.NewGologLogger(g)))
//
// Levels filter in increasing severity: Debug, Info, Warn, Error. LogLevelNone
// silences a logger entirely. ParseLevel maps configuration strings to levels.
package log
