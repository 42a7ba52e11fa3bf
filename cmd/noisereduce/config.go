package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gavoski/audacity/internal/nr"
)

// loadConfig reads a YAML-encoded nr.Config from path, falling back to
// nr.DefaultConfig when path is empty or does not yet exist — the CLI's
// first "profile" run on a fresh machine should just work (SPEC_FULL §10).
func loadConfig(path string) (nr.Config, error) {
	cfg := nr.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func saveConfig(path string, cfg nr.Config) error {
	if path == "" {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func loadStatistics(path string) (*nr.Statistics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var stats nr.Statistics
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func saveStatistics(path string, stats *nr.Statistics) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
