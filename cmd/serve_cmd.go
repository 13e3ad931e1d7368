package cmd

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsim/manager"
	"github.com/sarchlab/memsim/monitoring"
)

var (
	portFlag        int
	openBrowserFlag bool
	numOpsFlag      int
	seedFlag        int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a random workload with the HTTP monitor attached",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true

		c, err := buildManager("MemManager")
		if err != nil {
			return err
		}

		monitor := monitoring.NewMonitor().WithPortNumber(portFlag)
		if openBrowserFlag {
			monitor = monitor.WithBrowserOpening()
		}
		monitor.RegisterManager(c)
		monitor.StartServer()

		runWorkload(c, monitor)

		fmt.Println("Workload finished, serving until interrupted.")
		select {}
	},
}

// runWorkload keeps a rolling set of live blocks while allocating and
// freeing at random, defragmenting whenever the region fills up.
func runWorkload(c *manager.Comp, monitor *monitoring.Monitor) {
	r := rand.New(rand.NewSource(seedFlag))
	bar := monitor.CreateProgressBar("workload", uint64(numOpsFlag))
	defer monitor.CompleteProgressBar(bar)

	var live []manager.Handle
	for i := 0; i < numOpsFlag; i++ {
		time.Sleep(time.Millisecond)

		if len(live) > 0 && r.Intn(3) == 0 {
			idx := r.Intn(len(live))
			if err := c.Free(live[idx]); err != nil {
				log.Panicf("freeing a live handle failed: %v", err)
			}
			live = append(live[:idx], live[idx+1:]...)

			bar.IncrementFinished(1)
			continue
		}

		size := 1 + r.Intn(c.Capacity()/8+1)
		h, err := c.Allocate(size)
		if errors.Is(err, manager.ErrOutOfMemory) {
			c.Defragment()
			h, err = c.Allocate(size)
		}
		if err != nil {
			// Even compacted, the region is full. Skip this round.
			bar.IncrementFinished(1)
			continue
		}

		payload := make([]byte, size)
		for j := range payload {
			payload[j] = byte('a' + r.Intn(26))
		}
		if err := c.Write(h, 0, payload); err != nil {
			log.Panicf("writing a fresh block failed: %v", err)
		}

		live = append(live, h)
		bar.IncrementFinished(1)
	}
}

func init() {
	serveCmd.Flags().IntVar(&portFlag,
		"port", envInt("MEMSIM_PORT", 0),
		"port of the monitoring server, 0 picks a random port")
	serveCmd.Flags().BoolVar(&openBrowserFlag,
		"open-browser", false,
		"open the monitoring server in a browser")
	serveCmd.Flags().IntVar(&numOpsFlag,
		"num-ops", 10000,
		"number of workload operations to run")
	serveCmd.Flags().Int64Var(&seedFlag,
		"seed", 0,
		"seed of the random workload")

	rootCmd.AddCommand(serveCmd)
}
