package main

import (
	"os"

	"github.com/amaumene/openmovie/cmd/openmovie/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
