package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsim/manager"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactively operate a memory manager",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true

		c, err := buildManager("MemManager")
		if err != nil {
			return err
		}

		fmt.Printf("Managing %d bytes. Type help for the command list.\n",
			c.Capacity())

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "quit" || line == "exit" {
				break
			}

			runShellCommand(c, line)
		}

		return scanner.Err()
	},
}

func runShellCommand(c *manager.Comp, line string) {
	fields := strings.Fields(line)

	var err error
	switch fields[0] {
	case "help":
		printShellHelp()
	case "alloc":
		err = shellAlloc(c, fields[1:])
	case "free":
		err = shellFree(c, fields[1:])
	case "write":
		err = shellWrite(c, fields[1:])
	case "read":
		err = shellRead(c, fields[1:])
	case "defrag":
		c.Defragment()
		fmt.Println(c)
	case "show":
		fmt.Println(c)
	case "blocks":
		for _, b := range c.Blocks() {
			fmt.Printf("block %d: start=%d size=%d\n",
				b.Handle, b.Start, b.Size)
		}
	default:
		fmt.Println("unknown command, type help for the command list")
	}

	if err != nil {
		fmt.Println("error:", err)
	}
}

func printShellHelp() {
	fmt.Print(`alloc SIZE          allocate a block, print its handle
free HANDLE         free a block
write HANDLE OFF S  write the string S into a block at an offset
read HANDLE OFF LEN read bytes from a block
defrag              pack all blocks to the front of the region
show                print the occupancy view
blocks              list the live blocks
quit                leave the shell
`)
}

func shellAlloc(c *manager.Comp, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: alloc SIZE")
	}

	size, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}

	h, err := c.Allocate(size)
	if err != nil {
		return err
	}

	fmt.Printf("allocated block %d: %s\n", h, c)

	return nil
}

func shellFree(c *manager.Comp, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: free HANDLE")
	}

	h, err := parseHandle(args[0])
	if err != nil {
		return err
	}

	if err := c.Free(h); err != nil {
		return err
	}

	fmt.Printf("freed block %d: %s\n", h, c)

	return nil
}

func shellWrite(c *manager.Comp, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: write HANDLE OFFSET STRING")
	}

	h, err := parseHandle(args[0])
	if err != nil {
		return err
	}

	offset, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}

	if err := c.Write(h, offset, []byte(args[2])); err != nil {
		return err
	}

	fmt.Println(c)

	return nil
}

func shellRead(c *manager.Comp, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: read HANDLE OFFSET LENGTH")
	}

	h, err := parseHandle(args[0])
	if err != nil {
		return err
	}

	offset, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}

	length, err := strconv.Atoi(args[2])
	if err != nil {
		return err
	}

	data, err := c.Read(h, offset, length)
	if err != nil {
		return err
	}

	fmt.Printf("%q\n", data)

	return nil
}

func parseHandle(s string) (manager.Handle, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}

	return manager.Handle(v), nil
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
