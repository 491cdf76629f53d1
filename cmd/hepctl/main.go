// Package main provides the hepctl command line tool.
package main

import (
	"os"

	"github.com/tsuji1/hep-reader-sub001/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
