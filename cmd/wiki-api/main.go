package main

import (
	"os"

	"github.com/wikiforge/wiki-api/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
