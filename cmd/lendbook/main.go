package main

import (
	"os"

	"github.com/lendbook-dev/lendbook/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
