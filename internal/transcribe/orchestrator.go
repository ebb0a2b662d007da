package transcribe

import (
	"context"
	"log/slog"

	"subgen/internal/logging"
	"subgen/internal/srt"
)

// LanguageResult pairs a requested language code with its segments. Results
// keep request order, including duplicate codes.
type LanguageResult struct {
	Language string
	Segments []srt.Segment
}

// Orchestrator fans one audio artifact out across the requested languages,
// issuing one engine call per language. Calls are sequential within a job;
// the engine itself decides how concurrent calls across jobs are handled.
type Orchestrator struct {
	engine Engine
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator around the shared engine.
func NewOrchestrator(engine Engine, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "transcribe"),
	}
}

// Run transcribes audioPath once per language, in order, stopping at the
// first failure.
func (o *Orchestrator) Run(ctx context.Context, audioPath string, languages []string) ([]LanguageResult, error) {
	results := make([]LanguageResult, 0, len(languages))
	for _, lang := range languages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		o.logger.Info("transcription started",
			append(logging.Args(logging.ContextFields(ctx)...),
				logging.String("language", lang))...,
		)
		segments, err := o.engine.Transcribe(ctx, audioPath, lang)
		if err != nil {
			return nil, err
		}
		o.logger.Info("transcription finished",
			append(logging.Args(logging.ContextFields(ctx)...),
				logging.String("language", lang),
				logging.Int("segments", len(segments)))...,
		)
		results = append(results, LanguageResult{Language: lang, Segments: segments})
	}
	return results, nil
}
