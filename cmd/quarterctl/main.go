package main

import (
	"os"
	_ "time/tzdata"

	"quarters/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.App{}).Execute(); err != nil {
		os.Exit(1)
	}
}
