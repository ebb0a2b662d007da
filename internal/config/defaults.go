package config

const (
	defaultArtifactRoot   = "~/.local/share/subgen/artifacts"
	defaultLogDir         = "~/.local/share/subgen/logs"
	defaultAPIBind        = "127.0.0.1:8757"
	defaultMaxFileBytes   = 500 * 1024 * 1024
	defaultWhisperXModel  = "small"
	defaultFFmpegBinary   = "ffmpeg"
	defaultWhisperXBinary = "uvx"
	defaultBatchSize      = 8
	defaultWorkerCount    = 2
	defaultQueueSize      = 16
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultAllowedExtensions() []string {
	return []string{".mp4", ".avi", ".mov", ".mkv", ".flv", ".wmv", ".webm"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ArtifactRoot: defaultArtifactRoot,
			LogDir:       defaultLogDir,
			APIBind:      defaultAPIBind,
		},
		Upload: Upload{
			MaxFileBytes:      defaultMaxFileBytes,
			AllowedExtensions: defaultAllowedExtensions(),
		},
		Transcribe: Transcribe{
			Model:          defaultWhisperXModel,
			FFmpegBinary:   defaultFFmpegBinary,
			WhisperXBinary: defaultWhisperXBinary,
			BatchSize:      defaultBatchSize,
		},
		Workers: Workers{
			Count:     defaultWorkerCount,
			QueueSize: defaultQueueSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
