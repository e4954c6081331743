package main

import (
	"os"

	"github.com/gurukulschool/portal/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
