package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"EduChat/internal/endpoint"
)

// Subjects the server understands; the active subject rides along on every
// send.
var Subjects = []string{"general", "math", "science", "computer", "english", "history", "coding"}

const DefaultSubject = "general"

// Config holds application configuration
type Config struct {
	Candidates  []endpoint.Candidate `toml:"candidates"`
	Subject     string               `toml:"subject"`
	ArchivePath string               `toml:"archive_path"`
	Debug       bool                 `toml:"debug"`

	ProbeTimeout time.Duration `toml:"-"`
}

func Default() Config {
	return Config{
		Candidates: []endpoint.Candidate{
			{Label: "local", BaseURL: "http://localhost:5000", Priority: 1},
			{Label: "production", BaseURL: "https://edubot-backend.onrender.com", Priority: 2},
		},
		Subject:      DefaultSubject,
		ArchivePath:  "educhat.db",
		ProbeTimeout: 3 * time.Second,
	}
}

// LoadFile reads a TOML config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if !ValidSubject(cfg.Subject) {
		return Config{}, fmt.Errorf("unknown subject %q", cfg.Subject)
	}
	return cfg, nil
}

func ValidSubject(subject string) bool {
	for _, s := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
