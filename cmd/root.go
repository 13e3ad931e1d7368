// Package cmd provides the command-line interface for memsim.
package cmd

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/manager"
	"github.com/sarchlab/memsim/tracing"
)

var (
	capacityFlag  int
	traceFlag     string
	tracePathFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "memsim simulates a fixed-size linear memory region under explicit allocation control.",
	Long: `memsim simulates a fixed-size linear memory region under explicit allocation ` +
		`control. Clients allocate contiguous blocks with a first-fit policy, read ` +
		`and write them through opaque handles, and trigger defragmentation ` +
		`manually. The demo, shell, and serve subcommands are consumers of the ` +
		`manager package, which holds the actual allocator.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// A .env file can override the defaults below. Not having one is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().IntVar(&capacityFlag,
		"capacity", envInt("MEMSIM_CAPACITY", 64),
		"total size of the managed region")
	rootCmd.PersistentFlags().StringVar(&traceFlag,
		"trace", os.Getenv("MEMSIM_TRACE"),
		"operation trace backend, one of csv, db, or empty for no tracing")
	rootCmd.PersistentFlags().StringVar(&tracePathFlag,
		"trace-path", os.Getenv("MEMSIM_TRACE_PATH"),
		"path of the trace file, without extension")
}

func envInt(name string, fallback int) int {
	s := os.Getenv(name)
	if s == "" {
		return fallback
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return v
}

// buildManager creates the manager that the subcommands operate on and
// attaches the requested tracer.
func buildManager(name string) (*manager.Comp, error) {
	c, err := manager.MakeBuilder().
		WithCapacity(capacityFlag).
		Build(name)
	if err != nil {
		return nil, err
	}

	switch traceFlag {
	case "":
		// No tracing.
	case "csv":
		tracer := tracing.NewCSVTracer(
			tracing.NewWallClockTimeTeller(), tracePathFlag)
		tracer.Init()
		tracing.CollectTrace(c, tracer)
	case "db":
		backend := datarecording.New(tracePathFlag)
		tracer := tracing.NewDBTracer(
			tracing.NewWallClockTimeTeller(), backend)
		tracing.CollectTrace(c, tracer)
	default:
		return nil, errUnknownTraceBackend(traceFlag)
	}

	return c, nil
}

type errUnknownTraceBackend string

func (e errUnknownTraceBackend) Error() string {
	return "unknown trace backend " + string(e) + ", expected csv or db"
}
