package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallnest/pcpsolver/config"
	"github.com/smallnest/pcpsolver/log"
	"github.com/smallnest/pcpsolver/pcp"
	"github.com/smallnest/pcpsolver/store"
	"github.com/spf13/cobra"
)

type solveFlags struct {
	configPath  string
	tilesFile   string
	maxDepth    int
	minDepth    int
	storage     string
	backend     string
	cacheSize   int
	dbPath      string
	logLevel    string
	logBackend  string
	metricsAddr string
	quiet       bool
}

func newRootCmd() *cobra.Command {
	f := &solveFlags{}

	cmd := &cobra.Command{
		Use:   "pcpsolve [flags] [tiles...]",
		Short: "Search for a Post Correspondence Problem solution",
		Long: `pcpsolve runs an iterative-deepening search for a sequence of tiles whose
top strings and bottom strings concatenate to the same word.

Tiles are written up/down and separated by whitespace, for example
"a/baa ab/aa bba/bb". They are read from the arguments, from --tiles-file,
or from standard input when neither is given.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&f.tilesFile, "tiles-file", "f", "", "read tiles from a file (- for stdin)")
	flags.IntVarP(&f.maxDepth, "max-depth", "d", config.DefaultMaxDepth, "largest sequence length to search")
	flags.IntVarP(&f.minDepth, "min-depth", "m", 0, "shortest sequence length to accept")
	flags.StringVarP(&f.storage, "storage", "s", string(store.ModeMemory), "where visited states live: memory or persistent")
	flags.StringVar(&f.backend, "backend", string(store.BackendSqlite), "persistent backend: sqlite, badger, redis or postgres")
	flags.IntVar(&f.cacheSize, "cache-size", store.DefaultCacheSize, "states cached in memory in front of a persistent backend")
	flags.StringVar(&f.dbPath, "db", "", "database path for the sqlite and badger backends")
	flags.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn, error or none")
	flags.StringVar(&f.logBackend, "log-backend", config.LogBackendStd, "log implementation: std or golog")
	flags.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flags.BoolVarP(&f.quiet, "quiet", "q", false, "suppress progress output")

	return cmd
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(cmd *cobra.Command, f *solveFlags) (config.Config, error) {
	cfg := config.Default()
	cfg.Log.Level = "warn"
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		cfg.Search.MaxDepth = f.maxDepth
	}
	if flags.Changed("min-depth") {
		cfg.Search.MinDepth = f.minDepth
	}
	if flags.Changed("storage") {
		cfg.Storage.Mode = f.storage
	}
	if flags.Changed("backend") {
		cfg.Storage.Backend = f.backend
	}
	if flags.Changed("cache-size") {
		cfg.Storage.CacheSize = f.cacheSize
	}
	if flags.Changed("db") {
		cfg.Storage.Sqlite.Path = f.dbPath
		cfg.Storage.Badger.Path = f.dbPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if flags.Changed("log-backend") {
		cfg.Log.Backend = f.logBackend
	}

	return cfg, cfg.Validate()
}

func readTiles(cmd *cobra.Command, f *solveFlags, args []string) ([]pcp.Tile, error) {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case f.tilesFile != "" && f.tilesFile != "-":
		data, err := os.ReadFile(f.tilesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read tiles: %w", err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read tiles from stdin: %w", err)
		}
		text = string(data)
	}
	return pcp.ParseTiles(text)
}

func runSolve(cmd *cobra.Command, f *solveFlags, args []string) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	log.SetDefaultLogger(logger)

	tiles, err := readTiles(cmd, f, args)
	if err != nil {
		return err
	}

	if f.metricsAddr != "" {
		stopMetrics := serveMetrics(f.metricsAddr, logger)
		defer stopMetrics()
	}

	handle, err := pcp.OpenStore(ctx, cfg.StoreOptions(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := handle.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}()

	if handle.Fallback != nil {
		fmt.Fprintln(stderr, styles.Warning.Render(fmt.Sprintf("Persistent storage not available (%v).", handle.Fallback)))
	}
	fmt.Fprintf(stderr, "Using %s.\n", handle.Describe())

	opts := append(cfg.SolverOptions(), pcp.WithLogger(logger))
	if !f.quiet {
		opts = append(opts, pcp.WithProgress(pcp.ProgressFunc(func(_ context.Context, p pcp.Progress) {
			if p.Event == pcp.EventFound || p.Event == pcp.EventExhausted {
				return
			}
			fmt.Fprintln(stderr, styles.Muted.Render(p.String()))
		})))
	}

	res, err := pcp.NewSolver(handle.Store, opts...).Solve(ctx, pcp.Problem{
		Tiles:    tiles,
		MaxDepth: cfg.Search.MaxDepth,
		MinDepth: cfg.Search.MinDepth,
	})
	if err != nil {
		return err
	}

	renderResult(stdout, tiles, cfg.Search.MaxDepth, res)
	return nil
}

// serveMetrics exposes /metrics until the returned function is called.
func serveMetrics(addr string, logger log.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server: %v", err)
		}
	}()
	logger.Info("serving metrics on %s/metrics", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
