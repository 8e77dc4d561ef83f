// Package main is the redis-data command line tool: key operations and a
// batch benchmark against standalone, Sentinel or cluster deployments.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
