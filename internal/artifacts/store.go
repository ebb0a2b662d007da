// Package artifacts manages the per-job directories under the artifact root.
//
// Each job owns <root>/<job_id>/ holding its uploaded video, extracted audio,
// and generated caption files, so concurrent jobs never share a path.
package artifacts

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"subgen/internal/media"
	"subgen/internal/srt"
)

// SourceBaseName is the uploaded video's name inside the job directory,
// before its original extension is appended.
const SourceBaseName = "source"

// Store places and finds job artifacts under the artifact root.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir.
func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// Root returns the artifact root directory.
func (s *Store) Root() string {
	return s.root
}

// JobDir returns the directory owned by a job.
func (s *Store) JobDir(jobID string) string {
	return filepath.Join(s.root, jobID)
}

// AudioPath returns the job's extracted audio artifact path.
func (s *Store) AudioPath(jobID string) string {
	return filepath.Join(s.JobDir(jobID), media.AudioFileName)
}

// SaveSource creates the job directory and streams the uploaded video into
// it, preserving the original extension. Returns the stored file name.
func (s *Store) SaveSource(jobID, ext string, r io.Reader) (string, error) {
	dir := s.JobDir(jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create job directory: %w", err)
	}

	name := SourceBaseName + strings.ToLower(ext)
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create video artifact: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write video artifact: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close video artifact: %w", err)
	}
	return name, nil
}

// Captions lists every caption file under the root as job-relative names
// ("<job_id>/subtitles_en.srt"), sorted for stable output.
func (s *Store) Captions() ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), srt.Extension) {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list caption files: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// RemoveJobDir deletes a job's directory and everything in it.
func (s *Store) RemoveJobDir(jobID string) error {
	return os.RemoveAll(s.JobDir(jobID))
}

// RemoveAll wipes every job directory and recreates the empty root.
// Irreversible; used by the cleanup operation.
func (s *Store) RemoveAll() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("remove artifact root: %w", err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("recreate artifact root: %w", err)
	}
	return nil
}
