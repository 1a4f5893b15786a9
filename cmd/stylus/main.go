package main

import (
	"os"

	"github.com/ByLCY/stylus/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
