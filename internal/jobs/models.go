package jobs

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a subtitle job.
type Status string

const (
	StatusQueued           Status = "queued"
	StatusExtractingAudio  Status = "extracting_audio"
	StatusTranscribing     Status = "transcribing"
	StatusWritingSubtitles Status = "writing_subtitles"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
)

var allStatuses = []Status{
	StatusQueued,
	StatusExtractingAudio,
	StatusTranscribing,
	StatusWritingSubtitles,
	StatusCompleted,
	StatusFailed,
}

// statusRank orders the lifecycle; failed shares the terminal rank with
// completed so a job can fail out of any processing stage without ever
// moving backwards.
var statusRank = map[Status]int{
	StatusQueued:           0,
	StatusExtractingAudio:  1,
	StatusTranscribing:     2,
	StatusWritingSubtitles: 3,
	StatusCompleted:        4,
	StatusFailed:           4,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusRank[normalized]; !ok {
		return "", false
	}
	return normalized, true
}

// Terminal reports whether the status ends the lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// canTransition reports whether moving from one status to another keeps the
// lifecycle monotonic. Terminal states accept nothing further.
func canTransition(from, to Status) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	if from.Terminal() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	return toRank > fromRank
}

// SubtitleFile describes one generated caption artifact.
type SubtitleFile struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
}

// Job is the unit of work tracking one uploaded video through its lifecycle.
type Job struct {
	ID          string         `json:"job_id"`
	Status      Status         `json:"status"`
	Languages   []string       `json:"languages"`
	Subtitles   []SubtitleFile `json:"subtitles"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`

	// SourceFile is the stored video artifact name inside the job's
	// directory. Internal bookkeeping, never serialized.
	SourceFile string `json:"-"`
}

// clone returns an independent copy so callers never alias store state.
func (j *Job) clone() *Job {
	cp := *j
	cp.Languages = append([]string(nil), j.Languages...)
	cp.Subtitles = append([]SubtitleFile(nil), j.Subtitles...)
	if j.CompletedAt != nil {
		ts := *j.CompletedAt
		cp.CompletedAt = &ts
	}
	return &cp
}
