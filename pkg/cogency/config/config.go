// Package config loads YAML domain files for string-event domains:
// the causal relation, an observation, and engine options.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/cogency/pkg/cogency"
	"github.com/cognicore/cogency/pkg/cogency/oracle"
)

// Domain is the on-disk description of an explainable domain
type Domain struct {
	Rules       []Rule   `yaml:"rules"`
	Observation []string `yaml:"observation"`

	// MaxEffects overrides the bound M; zero derives it from the
	// longest rule, which is exact because the file defines the whole
	// relation.
	MaxEffects int `yaml:"max_effects"`
	MaxCovers  int `yaml:"max_covers"`
	TimeoutMS  int `yaml:"timeout_ms"`
	Workers    int `yaml:"workers"`
}

// Rule declares that Cause directly produces the Effects sequence
type Rule struct {
	Cause   string   `yaml:"cause"`
	Effects []string `yaml:"effects"`
}

// LoadDomain reads and validates a domain file
func LoadDomain(path string) (*Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Domain
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse domain: %w", err)
	}
	for i, r := range d.Rules {
		if r.Cause == "" {
			return nil, fmt.Errorf("rule %d: missing cause", i)
		}
		if len(r.Effects) == 0 {
			return nil, fmt.Errorf("rule %d (%s): missing effects", i, r.Cause)
		}
	}
	return &d, nil
}

// Relation builds the explicit causal relation declared by the file
func (d *Domain) Relation() *oracle.Relation[string] {
	rel := oracle.NewRelation[string]()
	for _, r := range d.Rules {
		rel.Add(r.Cause, r.Effects...)
	}
	return rel
}

// Options assembles engine options, deriving M from the rules when the
// file does not pin it.
func (d *Domain) Options() cogency.Options {
	opts := cogency.Options{
		MaxEffects: d.MaxEffects,
		MaxCovers:  d.MaxCovers,
		Workers:    d.Workers,
		Timeout:    time.Duration(d.TimeoutMS) * time.Millisecond,
	}
	if opts.MaxEffects == 0 {
		opts.MaxEffects = d.Relation().MaxEffectLen()
	}
	return opts
}
