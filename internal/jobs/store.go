package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"subgen/internal/services"
)

// Store is the in-memory job registry. It owns every job record and
// serializes all access; processing state survives only as long as the
// process does.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewStore creates an empty registry.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create mints a fresh job in queued state with the given language list and
// stored video artifact name.
func (s *Store) Create(languages []string, sourceFile string) *Job {
	job := &Job{
		ID:         uuid.New().String(),
		Status:     StatusQueued,
		Languages:  append([]string(nil), languages...),
		Subtitles:  []SubtitleFile{},
		CreatedAt:  time.Now().UTC(),
		SourceFile: sourceFile,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return job.clone()
}

// Get returns a copy of the job or services.ErrNotFound.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: job %s", services.ErrNotFound, id)
	}
	return job.clone(), nil
}

// Update applies the mutator to the job under the store lock. Status changes
// that would regress the lifecycle are rejected and leave the record
// untouched.
func (s *Store) Update(id string, mutate func(*Job) error) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: job %s", services.ErrNotFound, id)
	}

	draft := job.clone()
	if err := mutate(draft); err != nil {
		return nil, err
	}
	if draft.ID != job.ID {
		return nil, fmt.Errorf("job id is immutable")
	}
	if draft.Status != job.Status && !canTransition(job.Status, draft.Status) {
		return nil, fmt.Errorf("invalid status transition: %s -> %s", job.Status, draft.Status)
	}

	s.jobs[id] = draft
	return draft.clone(), nil
}

// Remove deletes a job record. Used when scheduling is rejected after the
// record was created, so no orphan ever reaches a caller.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
}

// List returns copies of all jobs, newest first.
func (s *Store) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Advance is an Update mutator moving the job to the given processing status.
func Advance(status Status) func(*Job) error {
	return func(job *Job) error {
		job.Status = status
		return nil
	}
}

// Fail is an Update mutator recording a terminal failure. Partial subtitle
// state is dropped so a failed job never reports artifacts.
func Fail(message string) func(*Job) error {
	return func(job *Job) error {
		job.Status = StatusFailed
		job.Error = message
		job.Subtitles = []SubtitleFile{}
		return nil
	}
}

// Complete is an Update mutator recording terminal success with the generated
// caption files in request order.
func Complete(subtitles []SubtitleFile) func(*Job) error {
	return func(job *Job) error {
		now := time.Now().UTC()
		job.Status = StatusCompleted
		job.Subtitles = append([]SubtitleFile(nil), subtitles...)
		job.CompletedAt = &now
		return nil
	}
}
