// Command planner plans Dutch birth and parental leave from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/warp/leave-planner/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.NewApp()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
