package main

import (
	"os"

	"github.com/schemadrift/schemadrift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
