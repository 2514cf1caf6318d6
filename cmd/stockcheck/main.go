package main

import (
	"os"

	"github.com/jask/stockcheck/cmd/stockcheck/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
