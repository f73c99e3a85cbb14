package main

import (
	"flag"
	"fmt"
	"os"

	"astroview/internal/di"
	"astroview/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "mirror logs to stderr")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "astroview: %s\n", err)
		os.Exit(1)
	}
}
