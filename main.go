package main

import (
	"os"

	"github.com/carson-networks/cashflow-gateway/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
