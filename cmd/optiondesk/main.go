package main

import (
	"os"

	"github.com/rustyeddy/optiondesk/cmd/optiondesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
