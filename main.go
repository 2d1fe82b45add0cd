package main

import (
	"os"

	"github.com/LukeL99/modelblitz-app/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
