package main

import (
	"os"

	"github.com/goldenaura/aura-server/auraservice"
)

func main() {
	if err := auraservice.Run(); err != nil {
		os.Exit(1)
	}
}
