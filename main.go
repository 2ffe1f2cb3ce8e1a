package main

import (
	"os"

	"github.com/aeriel/clai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
