// Main entry point for the gallery application
package main

import (
	"flag"
	"fmt"
	"os"

	"slategallery/internal/config"
	"slategallery/internal/logging"
	"slategallery/internal/ui"
)

var (
	noStorageFlag = flag.Bool("no-storage", false, "Keep selections and hidden images in memory only.")
	dataDirFlag   = flag.String("data-dir", "", "Directory of the selection database (default: user config dir).")
	logLevelFlag  = flag.String("log-level", "", "Log level: debug, info, warn or error.")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [gallery.html | image directory]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *noStorageFlag {
		cfg.NoStorage = true
	}
	if *dataDirFlag != "" {
		cfg.DataDir = *dataDirFlag
	}
	if *logLevelFlag != "" {
		cfg.Logging.Level = *logLevelFlag
	}
	logger := logging.New(cfg.Logging, os.Stderr)

	src := "."
	if flag.NArg() > 0 {
		src = flag.Arg(0)
	}
	if err := ui.CreateApplication(ui.Options{Source: src, Config: cfg, Logger: logger}); err != nil {
		logger.Fatal().Err(err).Str("source", src).Msg("unable to open gallery")
	}
}
