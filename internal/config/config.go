package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	ArtifactRoot string `toml:"artifact_root"`
	LogDir       string `toml:"log_dir"`
	APIBind      string `toml:"api_bind"`
}

// Upload contains validation limits for inbound video files.
type Upload struct {
	MaxFileBytes      int64    `toml:"max_file_bytes"`
	AllowedExtensions []string `toml:"allowed_extensions"`
}

// Transcribe contains settings for the WhisperX engine invocation.
type Transcribe struct {
	Model          string `toml:"model"`
	CUDAEnabled    bool   `toml:"cuda_enabled"`
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	WhisperXBinary string `toml:"whisperx_binary"`
	BatchSize      int    `toml:"batch_size"`
}

// Workers contains the bounded pool dimensions.
type Workers struct {
	Count     int `toml:"count"`
	QueueSize int `toml:"queue_size"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the root configuration document.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Upload     Upload     `toml:"upload"`
	Transcribe Transcribe `toml:"transcribe"`
	Workers    Workers    `toml:"workers"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath is consulted when no explicit path is provided.
const DefaultConfigPath = "~/.config/subgen/config.toml"

// Load reads configuration from path (or the default location when path is
// empty), applies defaults, environment overrides, normalization, and
// validation. The returned bool reports whether a config file was found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// EnsureDirectories creates the artifact root and log directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ArtifactRoot, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the documented sample configuration to path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("SUBGEN_ARTIFACT_ROOT")); v != "" {
		c.Paths.ArtifactRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("SUBGEN_API_BIND")); v != "" {
		c.Paths.APIBind = v
	}
	if v := strings.TrimSpace(os.Getenv("SUBGEN_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("SUBGEN_WHISPERX_MODEL")); v != "" {
		c.Transcribe.Model = v
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	expanded, err := expandPath(DefaultConfigPath)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Clean(trimmed), nil
}
