// Package api defines the wire types shared by the daemon HTTP API and the
// CLI client.
package api

import (
	"time"

	"subgen/internal/jobs"
)

// Route prefixes served by the daemon.
const (
	UploadPath    = "/api/upload"
	JobsPath      = "/api/jobs"
	StatusPath    = "/api/status/"
	DownloadPath  = "/api/download/"
	SubtitlesPath = "/api/subtitles"
	CleanupPath   = "/api/cleanup"
	DaemonPath    = "/api/daemon"
)

// UploadResponse acknowledges an accepted submission.
type UploadResponse struct {
	Message   string `json:"message"`
	JobID     string `json:"job_id"`
	StatusURL string `json:"status_url"`
}

// SubtitleEntry aliases the registry's caption descriptor for clients.
type SubtitleEntry = jobs.SubtitleFile

// JobView is the job record as reported by the status endpoint.
type JobView struct {
	JobID       string              `json:"job_id"`
	Status      string              `json:"status"`
	Languages   []string            `json:"languages"`
	Subtitles   []jobs.SubtitleFile `json:"subtitles"`
	Error       string              `json:"error,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

// JobListResponse wraps the job listing.
type JobListResponse struct {
	Jobs []JobView `json:"jobs"`
}

// SubtitleListResponse lists every caption file present under the root.
type SubtitleListResponse struct {
	Subtitles []jobs.SubtitleFile `json:"subtitles"`
}

// CleanupResponse confirms the bulk artifact wipe.
type CleanupResponse struct {
	Message string `json:"message"`
	Removed int    `json:"removed"`
}

// DaemonStatus reports daemon runtime information.
type DaemonStatus struct {
	Running      bool   `json:"running"`
	PID          int    `json:"pid"`
	ArtifactRoot string `json:"artifact_root"`
	LockFilePath string `json:"lock_file_path"`
	Workers      int    `json:"workers"`
	QueueDepth   int    `json:"queue_depth"`
	QueueSize    int    `json:"queue_size"`
	Jobs         int    `json:"jobs"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusURL builds the poll path for a job.
func StatusURL(jobID string) string {
	return StatusPath + jobID
}

// DownloadURL builds the download path for a job's caption file.
func DownloadURL(jobID, filename string) string {
	return DownloadPath + jobID + "/" + filename
}

// FromJob converts a registry record into its wire form.
func FromJob(job *jobs.Job) JobView {
	return JobView{
		JobID:       job.ID,
		Status:      string(job.Status),
		Languages:   job.Languages,
		Subtitles:   job.Subtitles,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
}
