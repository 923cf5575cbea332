package main

import (
	"os"

	"github.com/presskeep/presskeep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
