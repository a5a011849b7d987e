package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/football-sync-service/internal/docpath"
)

// TargetConfig describes one page synced into one store document.
type TargetConfig struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	URL         string   `yaml:"url"`
	Path        string   `yaml:"path"`
	Granularity string   `yaml:"granularity"`
	Interval    Duration `yaml:"interval"`
}

type targetsFile struct {
	Targets []TargetConfig `yaml:"targets"`
}

// Targets returns the sync targets. Without a targets file the service syncs
// the configured match page and, when a list URL is set or the fixture provider
// is in use, the match list. Entries from a targets file are completed from the
// environment defaults for their kind.
func (c Config) Targets() ([]TargetConfig, error) {
	if c.TargetsFile == "" {
		targets := c.defaultTargets()
		if err := checkDisjointPaths(targets); err != nil {
			return nil, err
		}
		return targets, nil
	}

	data, err := os.ReadFile(c.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}
	var file targetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse targets file %s: %w", c.TargetsFile, err)
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("targets file %s: no targets", c.TargetsFile)
	}

	seen := make(map[string]bool, len(file.Targets))
	out := make([]TargetConfig, 0, len(file.Targets))
	for i, t := range file.Targets {
		t.Kind = strings.ToLower(strings.TrimSpace(t.Kind))
		if t.Kind == "" {
			t.Kind = KindMatchDetail
		}
		defaults, err := c.targetDefaults(t.Kind)
		if err != nil {
			return nil, fmt.Errorf("targets file %s: entry %d: %w", c.TargetsFile, i, err)
		}
		if err := mergo.Merge(&t, defaults); err != nil {
			return nil, fmt.Errorf("targets file %s: entry %d: %w", c.TargetsFile, i, err)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("targets file %s: duplicate target %q", c.TargetsFile, t.Name)
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	if err := checkDisjointPaths(out); err != nil {
		return nil, fmt.Errorf("targets file %s: %w", c.TargetsFile, err)
	}
	return out, nil
}

// checkDisjointPaths rejects targets whose store paths are equal or nested:
// each document must have exactly one writer.
func checkDisjointPaths(targets []TargetConfig) error {
	for i := range targets {
		for j := i + 1; j < len(targets); j++ {
			a, b := targets[i], targets[j]
			if docpath.Overlaps(a.Path, b.Path) {
				return fmt.Errorf("targets %q (%s) and %q (%s) write overlapping store paths",
					a.Name, docpath.Join(a.Path), b.Name, docpath.Join(b.Path))
			}
		}
	}
	return nil
}

func (c Config) defaultTargets() []TargetConfig {
	detail, _ := c.targetDefaults(KindMatchDetail)
	out := []TargetConfig{detail}
	if c.Kooora.ListURL != "" || c.Provider == defaultProvider {
		list, _ := c.targetDefaults(KindMatchList)
		out = append(out, list)
	}
	return out
}

func (c Config) targetDefaults(kind string) (TargetConfig, error) {
	t := TargetConfig{
		Kind:        kind,
		Granularity: c.Sync.Granularity,
		Interval:    c.PollInterval,
	}
	switch kind {
	case KindMatchDetail:
		t.Name = "latest"
		t.URL = c.Kooora.MatchURL
		t.Path = c.Sync.SnapshotPath
	case KindMatchList:
		t.Name = "today"
		t.URL = c.Kooora.ListURL
		t.Path = c.Sync.ListSnapshotPath
	default:
		return TargetConfig{}, errors.New("unknown target kind " + kind)
	}
	return t, nil
}
