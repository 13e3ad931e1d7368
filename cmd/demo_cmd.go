package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsim/manager"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the canonical fragmentation and defragmentation scenario",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true

		c, err := manager.MakeBuilder().WithCapacity(5).Build("MemManager")
		if err != nil {
			return err
		}

		fmt.Println("Initial memory:", c)

		handles := make([]manager.Handle, 5)
		for i := range handles {
			handles[i], err = c.Allocate(1)
			if err != nil {
				return err
			}
		}
		fmt.Println("Memory after five allocations:", c)

		if err := c.Free(handles[1]); err != nil {
			return err
		}
		if err := c.Free(handles[3]); err != nil {
			return err
		}
		fmt.Printf("Freed blocks %d and %d: %s\n",
			handles[1], handles[3], c)

		_, err = c.Allocate(2)
		if !errors.Is(err, manager.ErrOutOfMemory) {
			return fmt.Errorf("expected an out-of-memory failure, got %v", err)
		}
		fmt.Println("Allocation failed:", err)

		fmt.Println("Defragmenting memory...")
		c.Defragment()
		fmt.Println("Memory after defragmentation:", c)

		h, err := c.Allocate(2)
		if err != nil {
			return err
		}
		fmt.Printf("Allocated block %d: %s\n", h, c)

		if err := c.Write(handles[0], 0, []byte("A")); err != nil {
			return err
		}
		fmt.Printf("Written data to block %d: %s\n", handles[0], c)

		data, err := c.Read(handles[0], 0, 1)
		if err != nil {
			return err
		}
		fmt.Printf("Read from block %d: %s\n", handles[0], data)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
