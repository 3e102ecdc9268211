package main

import (
	"os"

	"github.com/lazypower/bestfriend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
