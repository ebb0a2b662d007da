// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"subgen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ArtifactRoot = filepath.Join(base, "artifacts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithWorkers overrides the pool dimensions on the test config.
func WithWorkers(count, queueSize int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workers.Count = count
		cfg.Workers.QueueSize = queueSize
	}
}

// WithMaxFileBytes overrides the upload size cap on the test config.
func WithMaxFileBytes(limit int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Upload.MaxFileBytes = limit
	}
}
