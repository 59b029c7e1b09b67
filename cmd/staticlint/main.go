package main

import (
	"errors"
	"os"

	"staticlint/cmd/staticlint/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if errors.Is(err, commands.ErrFailOn) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
