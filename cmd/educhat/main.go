package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"EduChat/internal/config"
)

func main() {
	var (
		configPath   string
		subject      string
		archivePath  string
		probeTimeout time.Duration
	)

	flag.StringVar(&configPath, "config", "", "Path to TOML config file with endpoint candidates")
	flag.StringVar(&subject, "subject", "", "Initial subject tag (general|math|science|computer|english|history|coding)")
	flag.StringVar(&archivePath, "archive", "", "Path to the local transcript archive (sqlite), empty disables")
	flag.DurationVar(&probeTimeout, "probe-timeout", 3*time.Second, "Per-candidate liveness probe timeout")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if subject != "" {
		cfg.Subject = subject
	}
	if archivePath != "" {
		cfg.ArchivePath = archivePath
	}
	cfg.ProbeTimeout = probeTimeout
	cfg.Debug = *debug

	if !config.ValidSubject(cfg.Subject) {
		fmt.Fprintf(os.Stderr, "Unknown subject %q\n", cfg.Subject)
		os.Exit(1)
	}

	app, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
