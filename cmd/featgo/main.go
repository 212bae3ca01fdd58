package main

import (
	"os"

	"github.com/hupe1980/featgo/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.New(version).Run(); err != nil {
		os.Exit(1)
	}
}
