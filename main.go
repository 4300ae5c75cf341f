package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/keystash/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
