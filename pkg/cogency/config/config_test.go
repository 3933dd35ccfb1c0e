package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDomain(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domain.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write domain: %v", err)
	}
	return path
}

func TestLoadDomain(t *testing.T) {
	path := writeDomain(t, `
rules:
  - cause: p
    effects: [g, m, r]
  - cause: t
    effects: [p, p]
observation: [g, m, r]
max_covers: 10
timeout_ms: 250
workers: 2
`)
	d, err := LoadDomain(path)
	if err != nil {
		t.Fatalf("LoadDomain: %v", err)
	}
	if len(d.Rules) != 2 || len(d.Observation) != 3 {
		t.Fatalf("domain = %+v", d)
	}

	causes, err := d.Relation().Causes(context.Background(), []string{"g", "m", "r"})
	if err != nil {
		t.Fatalf("Causes: %v", err)
	}
	if len(causes) != 1 || causes[0] != "p" {
		t.Errorf("causes = %v, want [p]", causes)
	}

	opts := d.Options()
	if opts.MaxEffects != 3 {
		t.Errorf("MaxEffects = %d, want 3 derived from the longest rule", opts.MaxEffects)
	}
	if opts.MaxCovers != 10 || opts.Workers != 2 {
		t.Errorf("options = %+v", opts)
	}
	if opts.Timeout != 250*time.Millisecond {
		t.Errorf("Timeout = %v, want 250ms", opts.Timeout)
	}
}

func TestExplicitBoundWins(t *testing.T) {
	path := writeDomain(t, `
rules:
  - cause: p
    effects: [g, m, r]
max_effects: 5
`)
	d, err := LoadDomain(path)
	if err != nil {
		t.Fatalf("LoadDomain: %v", err)
	}
	if got := d.Options().MaxEffects; got != 5 {
		t.Errorf("MaxEffects = %d, want the pinned 5", got)
	}
}

func TestRejectsMissingCause(t *testing.T) {
	path := writeDomain(t, `
rules:
  - effects: [a, b]
`)
	if _, err := LoadDomain(path); err == nil {
		t.Error("expected an error for a rule without a cause")
	}
}

func TestRejectsMissingEffects(t *testing.T) {
	path := writeDomain(t, `
rules:
  - cause: c
`)
	if _, err := LoadDomain(path); err == nil {
		t.Error("expected an error for a rule without effects")
	}
}

func TestRejectsBadYAML(t *testing.T) {
	path := writeDomain(t, "rules: [unclosed")
	if _, err := LoadDomain(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := LoadDomain(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
