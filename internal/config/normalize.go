package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.ArtifactRoot, err = expandPath(c.Paths.ArtifactRoot); err != nil {
		return fmt.Errorf("artifact_root: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("log_dir: %w", err)
	}

	if c.Upload.MaxFileBytes <= 0 {
		c.Upload.MaxFileBytes = defaultMaxFileBytes
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		c.Upload.AllowedExtensions = defaultAllowedExtensions()
	}
	normalized := make([]string, 0, len(c.Upload.AllowedExtensions))
	for _, ext := range c.Upload.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Upload.AllowedExtensions = normalized

	if strings.TrimSpace(c.Transcribe.Model) == "" {
		c.Transcribe.Model = defaultWhisperXModel
	}
	if strings.TrimSpace(c.Transcribe.FFmpegBinary) == "" {
		c.Transcribe.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Transcribe.WhisperXBinary) == "" {
		c.Transcribe.WhisperXBinary = defaultWhisperXBinary
	}
	if c.Transcribe.BatchSize <= 0 {
		c.Transcribe.BatchSize = defaultBatchSize
	}

	if c.Workers.Count <= 0 {
		c.Workers.Count = defaultWorkerCount
	}
	if c.Workers.QueueSize <= 0 {
		c.Workers.QueueSize = defaultQueueSize
	}

	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
