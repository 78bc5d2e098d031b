package main

import (
	"os"

	"github.com/bimmerbailey/remapper/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
