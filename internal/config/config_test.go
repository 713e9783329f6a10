package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "educhat.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileParsesCandidates(t *testing.T) {
	path := writeConfig(t, `
subject = "math"
archive_path = "archive.db"

[[candidates]]
label = "staging"
base_url = "https://staging.example.net"
priority = 1

[[candidates]]
label = "production"
base_url = "https://api.example.net"
priority = 2
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Subject != "math" || cfg.ArchivePath != "archive.db" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cfg.Candidates))
	}
	if cfg.Candidates[0].Label != "staging" || cfg.Candidates[0].Priority != 1 {
		t.Fatalf("unexpected candidate %+v", cfg.Candidates[0])
	}
	if cfg.Candidates[1].BaseURL != "https://api.example.net" {
		t.Fatalf("unexpected candidate %+v", cfg.Candidates[1])
	}
}

func TestLoadFileRejectsUnknownSubject(t *testing.T) {
	path := writeConfig(t, `subject = "astrology"`)
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for unknown subject")
	}
}

func TestLoadFileMissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidSubject(t *testing.T) {
	for _, s := range Subjects {
		if !ValidSubject(s) {
			t.Fatalf("subject %q should be valid", s)
		}
	}
	if ValidSubject("astrology") {
		t.Fatal("unknown subject accepted")
	}
}

func TestDefaultsPreferLocal(t *testing.T) {
	cfg := Default()
	if len(cfg.Candidates) < 2 {
		t.Fatalf("expected at least two default candidates, got %+v", cfg.Candidates)
	}
	if cfg.Candidates[0].Priority >= cfg.Candidates[1].Priority {
		t.Fatalf("local candidate must be preferred: %+v", cfg.Candidates)
	}
	if cfg.Subject != DefaultSubject {
		t.Fatalf("unexpected default subject %q", cfg.Subject)
	}
}
