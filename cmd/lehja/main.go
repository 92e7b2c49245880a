package main

import (
	"os"

	"github.com/lehja/lehja/cmd/lehja/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
