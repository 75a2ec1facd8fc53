package main

import (
	"os"

	"github.com/galacticode/galacticode/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
