package main

import (
	"os"

	"github.com/abhisek/grammarflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
