package main

import (
	"os"

	"github.com/hashicorp-forge/wsmanager/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
