package main

import (
	"os"

	"github.com/iDrwish/trino-gsheets/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
