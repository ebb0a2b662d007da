package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"subgen/internal/services"
	"subgen/internal/srt"
)

// Engine converts an audio artifact plus a language code into timed segments.
type Engine interface {
	Transcribe(ctx context.Context, audioPath, lang string) ([]srt.Segment, error)
}

// CommandRunner abstracts process execution for testability.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Config captures runtime settings for WhisperX invocations.
type Config struct {
	Model       string
	CUDAEnabled bool
	Binary      string
	BatchSize   int
}

// WhisperX configuration constants.
const (
	DefaultModel = "small"
	CUDAIndexURL = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL = "https://pypi.org/simple"
	UVXCommand   = "uvx"
)

// WhisperXEngine runs the WhisperX CLI through uvx. A single instance is
// shared by all workers; invocations are serialized so only one engine call
// is ever in flight.
type WhisperXEngine struct {
	cfg    Config
	runner CommandRunner

	tooling sync.Mutex
}

// NewWhisperXEngine creates an engine with the given configuration.
func NewWhisperXEngine(cfg Config) *WhisperXEngine {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = UVXCommand
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 8
	}
	return &WhisperXEngine{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *WhisperXEngine) WithCommandRunner(runner CommandRunner) *WhisperXEngine {
	e.runner = runner
	return e
}

// Model returns the configured model name for logging.
func (e *WhisperXEngine) Model() string {
	return e.cfg.Model
}

// Transcribe runs WhisperX against audioPath for one language and parses the
// segment JSON it writes next to the audio file.
func (e *WhisperXEngine) Transcribe(ctx context.Context, audioPath, lang string) ([]srt.Segment, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "whisperx", "audio path required", nil)
	}

	outputDir := filepath.Dir(audioPath)
	args := e.buildArgs(audioPath, outputDir, lang)

	e.tooling.Lock()
	err := e.run(ctx, e.cfg.Binary, args...)
	e.tooling.Unlock()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "language "+lang, err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	segments, err := LoadSegments(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "read segments for "+lang, err)
	}
	return segments, nil
}

func (e *WhisperXEngine) run(ctx context.Context, name string, args ...string) error {
	if e.runner != nil {
		return e.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (e *WhisperXEngine) buildArgs(source, outputDir, lang string) []string {
	args := make([]string, 0, 20)

	if e.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", e.cfg.Model,
		"--task", "transcribe",
		"--batch_size", strconv.Itoa(e.cfg.BatchSize),
		"--output_dir", outputDir,
		"--output_format", "json",
	)
	if !e.cfg.CUDAEnabled {
		args = append(args, "--device", "cpu", "--compute_type", "float32")
	}
	if lang = strings.TrimSpace(lang); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

type segmentPayload struct {
	Segments []srt.Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON output file.
func LoadSegments(jsonPath string) ([]srt.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisperx output: %w", err)
	}
	var payload segmentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx output: %w", err)
	}
	return payload.Segments, nil
}
