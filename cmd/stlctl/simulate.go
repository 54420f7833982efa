package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/stlkit/alloc"
	"github.com/joshuapare/stlkit/internal/logger"
)

// SimulateOptions configures a simulated workload.
type SimulateOptions struct {
	Ops     int
	MaxSize int
	Seed    int64
	Limit   int // Primary byte budget; 0 means unlimited
	Config  string
	Mapped  bool
}

var simOpts = SimulateOptions{}

func init() {
	cmd := newSimulateCmd()
	cmd.Flags().IntVar(&simOpts.Ops, "ops", 10000, "Number of allocate/deallocate operations")
	cmd.Flags().IntVar(&simOpts.MaxSize, "max-size", 256, "Largest request size in bytes")
	cmd.Flags().Int64Var(&simOpts.Seed, "seed", 42, "Random seed")
	cmd.Flags().IntVar(&simOpts.Limit, "limit", 0, "Primary memory budget in bytes (0 = unlimited)")
	cmd.Flags().StringVar(&simOpts.Config, "config", "default", "Size class configuration (default, wide)")
	cmd.Flags().BoolVar(&simOpts.Mapped, "mapped", false, "Back the primary with anonymous memory mappings")
	rootCmd.AddCommand(cmd)
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a random workload against a pool",
		Long: `The simulate command runs a reproducible random mix of allocations and
deallocations against a fresh pool and prints the resulting statistics.
With --limit the primary allocator refuses to grow past the budget, which
exercises partial refills, scavenging and out-of-memory handling.

Example:
  stlctl simulate
  stlctl simulate --ops 100000 --max-size 128 --seed 7
  stlctl simulate --limit 4096 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(simOpts)
		},
	}
	return cmd
}

// SimulationReport is the simulate command output.
type SimulationReport struct {
	Config   string      `json:"config"`
	Ops      int         `json:"ops"`
	Seed     int64       `json:"seed"`
	MaxSize  int         `json:"max_size"`
	Limit    int         `json:"limit"`
	Failures int         `json:"failures"`
	PeakLive int         `json:"peak_live"`
	Stats    alloc.Stats `json:"stats"`
}

type liveBlock struct {
	mem []byte
	n   int
}

// simulate runs the workload and releases every live block at the end.
func simulate(opts SimulateOptions) (*SimulationReport, *alloc.Pool, error) {
	if opts.Ops < 0 || opts.MaxSize < 1 || opts.Limit < 0 {
		return nil, nil, fmt.Errorf("%w: ops=%d max-size=%d limit=%d",
			alloc.ErrInvalidSize, opts.Ops, opts.MaxSize, opts.Limit)
	}
	cfg, err := configByName(opts.Config)
	if err != nil {
		return nil, nil, err
	}

	src := alloc.SourceGo
	if opts.Mapped {
		src = alloc.SourceMapped
	}
	var primary alloc.Allocator = alloc.NewPrimary(src)
	if opts.Limit > 0 {
		primary = alloc.NewLimited(primary, opts.Limit)
	}
	pool, err := alloc.NewPool(primary, cfg)
	if err != nil {
		return nil, nil, err
	}

	report := &SimulationReport{
		Config:  cfg.Name,
		Ops:     opts.Ops,
		Seed:    opts.Seed,
		MaxSize: opts.MaxSize,
		Limit:   opts.Limit,
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	var live []liveBlock
	for i := range opts.Ops {
		if len(live) > 0 && rng.Intn(5) < 2 {
			j := rng.Intn(len(live))
			pool.Deallocate(live[j].mem, live[j].n)
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}

		n := 1 + rng.Intn(opts.MaxSize)
		mem, allocErr := pool.Allocate(n)
		if allocErr != nil {
			if !errors.Is(allocErr, alloc.ErrOutOfMemory) {
				return nil, nil, fmt.Errorf("op %d: %w", i, allocErr)
			}
			report.Failures++
			logger.Debug("simulate: allocation failed", "op", i, "size", n, "err", allocErr)
			continue
		}
		live = append(live, liveBlock{mem: mem, n: n})
		report.PeakLive = max(report.PeakLive, len(live))
	}

	for _, b := range live {
		pool.Deallocate(b.mem, b.n)
	}
	report.Stats = pool.Stats()
	logger.Info("simulate: done", "ops", opts.Ops, "failures", report.Failures,
		"heap_size", report.Stats.HeapSize)
	return report, pool, nil
}

func runSimulate(opts SimulateOptions) error {
	printVerbose("Simulating %d operations (seed %d, max size %d)\n", opts.Ops, opts.Seed, opts.MaxSize)

	report, pool, err := simulate(opts)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(report)
	}
	if quiet {
		return nil
	}

	printInfo("Simulated %d operations against the %s pool\n", report.Ops, report.Config)
	printInfo("Peak live blocks:   %d\n", report.PeakLive)
	if report.Limit > 0 {
		printInfo("Primary budget:     %d bytes (%d failed allocations)\n", report.Limit, report.Failures)
	}
	printInfo("\n")
	pool.PrintStats(os.Stdout)
	return nil
}
