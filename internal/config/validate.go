package config

import (
	"fmt"
	"strings"
)

// Validate reports configuration values the daemon cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.ArtifactRoot) == "" {
		problems = append(problems, "paths.artifact_root must not be empty")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		problems = append(problems, "paths.api_bind must not be empty")
	}
	if c.Upload.MaxFileBytes <= 0 {
		problems = append(problems, "upload.max_file_bytes must be positive")
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		problems = append(problems, "upload.allowed_extensions must not be empty")
	}
	for _, ext := range c.Upload.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			problems = append(problems, fmt.Sprintf("upload.allowed_extensions entry %q is not a file extension", ext))
		}
	}
	if c.Workers.Count <= 0 {
		problems = append(problems, "workers.count must be positive")
	}
	if c.Workers.QueueSize <= 0 {
		problems = append(problems, "workers.queue_size must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of console, json", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
