package main

import (
	"os"

	"github.com/aabench/aabench/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
