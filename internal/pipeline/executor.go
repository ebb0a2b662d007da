package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"subgen/internal/api"
	"subgen/internal/artifacts"
	"subgen/internal/jobs"
	"subgen/internal/logging"
	"subgen/internal/media"
	"subgen/internal/services"
	"subgen/internal/srt"
	"subgen/internal/transcribe"
)

// Executor runs the per-job stage sequence: decode, transcribe, format,
// persist. One call per job; the worker pool decides how many run at once.
type Executor struct {
	registry     *jobs.Store
	store        *artifacts.Store
	extractor    media.Extractor
	orchestrator *transcribe.Orchestrator
	logger       *slog.Logger
}

// NewExecutor wires the pipeline collaborators together.
func NewExecutor(
	registry *jobs.Store,
	store *artifacts.Store,
	extractor media.Extractor,
	orchestrator *transcribe.Orchestrator,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		registry:     registry,
		store:        store,
		extractor:    extractor,
		orchestrator: orchestrator,
		logger:       logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Process drives one job from queued to a terminal state. Stage failures are
// recorded on the job, never returned to the uploader; the video and audio
// artifacts are removed best-effort whichever way the job ends.
func (e *Executor) Process(ctx context.Context, jobID string) error {
	job, err := e.registry.Get(jobID)
	if err != nil {
		return err
	}

	ctx = logging.WithJobID(ctx, jobID)
	videoPath := filepath.Join(e.store.JobDir(jobID), job.SourceFile)
	audioPath := e.store.AudioPath(jobID)
	segmentsPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".json"
	defer e.cleanupScratch(jobID, videoPath, audioPath, segmentsPath)

	if err := e.run(ctx, job, videoPath, audioPath); err != nil {
		message := services.Message(err)
		if _, updateErr := e.registry.Update(jobID, jobs.Fail(message)); updateErr != nil {
			e.logger.Error("record job failure",
				logging.String(logging.FieldJobID, jobID),
				logging.Error(updateErr),
			)
		}
		e.logger.Error("job failed",
			append(logging.Args(logging.ContextFields(ctx)...), logging.Error(err))...,
		)
		return err
	}

	e.logger.Info("job completed",
		logging.Args(logging.ContextFields(ctx)...)...,
	)
	return nil
}

func (e *Executor) run(ctx context.Context, job *jobs.Job, videoPath, audioPath string) error {
	if err := e.advance(ctx, job.ID, jobs.StatusExtractingAudio); err != nil {
		return err
	}
	extractCtx := logging.WithStage(ctx, "extract")
	if err := e.extractor.ExtractAudio(extractCtx, videoPath, audioPath); err != nil {
		return err
	}

	if err := e.advance(ctx, job.ID, jobs.StatusTranscribing); err != nil {
		return err
	}
	transcribeCtx := logging.WithStage(ctx, "transcribe")
	results, err := e.orchestrator.Run(transcribeCtx, audioPath, job.Languages)
	if err != nil {
		return err
	}

	if err := e.advance(ctx, job.ID, jobs.StatusWritingSubtitles); err != nil {
		return err
	}
	subtitles := make([]jobs.SubtitleFile, 0, len(results))
	for _, result := range results {
		name, err := srt.WriteFile(e.store.JobDir(job.ID), result.Language, result.Segments)
		if err != nil {
			return services.Wrap(services.ErrTransient, "format", "write captions", result.Language, err)
		}
		subtitles = append(subtitles, jobs.SubtitleFile{
			Filename:    name,
			DownloadURL: api.DownloadURL(job.ID, name),
		})
	}

	if _, err := e.registry.Update(job.ID, jobs.Complete(subtitles)); err != nil {
		return err
	}
	return nil
}

func (e *Executor) advance(ctx context.Context, jobID string, status jobs.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := e.registry.Update(jobID, jobs.Advance(status)); err != nil {
		return err
	}
	e.logger.Info("stage started",
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("status", string(status)),
	)
	return nil
}

// cleanupScratch removes the video and audio artifacts. Failures are logged,
// never escalated, and never stop the sibling removal.
func (e *Executor) cleanupScratch(jobID string, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("artifact cleanup failed",
				logging.String(logging.FieldJobID, jobID),
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}
}
