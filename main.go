package main

import (
	"os"

	"github.com/shinyvision/phpscan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
