// Package main is the netgrid command.
package main

import (
	"os"

	"github.com/leapstack-labs/netgrid/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
