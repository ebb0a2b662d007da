// Package media adapts ffmpeg as the media decoder: video in, normalized
// mono 16 kHz PCM WAV out.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"subgen/internal/services"
)

// AudioFileName is the per-job audio artifact name inside the job directory.
const AudioFileName = "audio.wav"

// Extractor converts a video artifact into a normalized audio artifact.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, dest string) error
}

// CommandRunner abstracts process execution for testability.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// FFmpegExtractor shells out to ffmpeg.
type FFmpegExtractor struct {
	binary string
	runner CommandRunner
}

// NewFFmpegExtractor creates an extractor using the given ffmpeg binary.
func NewFFmpegExtractor(binary string) *FFmpegExtractor {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &FFmpegExtractor{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *FFmpegExtractor) WithCommandRunner(runner CommandRunner) *FFmpegExtractor {
	e.runner = runner
	return e
}

// ExtractAudio runs ffmpeg against videoPath, writing mono 16 kHz pcm_s16le
// WAV to dest.
func (e *FFmpegExtractor) ExtractAudio(ctx context.Context, videoPath, dest string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return services.Wrap(services.ErrNotFound, "extract", "stat video", videoPath, err)
	}

	args := buildExtractArgs(videoPath, dest)
	if err := e.run(ctx, e.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "audio conversion failed", err)
	}

	if _, err := os.Stat(dest); err != nil {
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "completed without producing output", err)
	}
	return nil
}

func (e *FFmpegExtractor) run(ctx context.Context, name string, args ...string) error {
	if e.runner != nil {
		return e.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func buildExtractArgs(videoPath, dest string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}
