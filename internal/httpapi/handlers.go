package httpapi

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"

	"subgen/internal/api"
	"subgen/internal/jobs"
	"subgen/internal/logging"
	"subgen/internal/pathguard"
	"subgen/internal/srt"
)

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	records := s.registry.List()
	views := make([]api.JobView, 0, len(records))
	for _, job := range records {
		views = append(views, api.FromJob(job))
	}
	s.writeJSON(w, http.StatusOK, api.JobListResponse{Jobs: views})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, api.StatusPath)
	if jobID == "" || strings.Contains(jobID, "/") {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	job, err := s.registry.Get(jobID)
	if err != nil {
		s.writeError(w, statusForError(err), "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromJob(job))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, api.DownloadPath)
	jobID, name, ok := strings.Cut(rest, "/")
	if !ok || jobID == "" || name == "" || strings.Contains(name, "/") {
		s.writeError(w, http.StatusBadRequest, "download path must be <job_id>/<filename>")
		return
	}
	if _, err := uuid.Parse(jobID); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	safeName, err := pathguard.Sanitize(name)
	if err != nil {
		s.writeError(w, statusForError(err), "invalid caption file name")
		return
	}
	path, err := pathguard.Resolve(s.store.Root(), jobID, safeName)
	if err != nil {
		s.writeError(w, statusForError(err), "access denied")
		return
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.writeError(w, http.StatusNotFound, "file not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "read caption file")
		return
	}

	w.Header().Set("Content-Type", srt.MediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+safeName+`"`)
	http.ServeFile(w, r, path)
}

func (s *Server) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	names, err := s.store.Captions()
	if err != nil {
		s.logger.Error("list caption files", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "list caption files")
		return
	}

	subtitles := make([]jobs.SubtitleFile, 0, len(names))
	for _, name := range names {
		subtitles = append(subtitles, jobs.SubtitleFile{
			Filename:    name,
			DownloadURL: api.DownloadPath + name,
		})
	}
	s.writeJSON(w, http.StatusOK, api.SubtitleListResponse{Subtitles: subtitles})
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	names, err := s.store.Captions()
	if err != nil {
		names = nil
	}
	if err := s.store.RemoveAll(); err != nil {
		s.logger.Error("cleanup artifacts", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}

	s.logger.Info("artifact root cleaned", logging.Int("caption_files", len(names)))
	s.writeJSON(w, http.StatusOK, api.CleanupResponse{
		Message: "artifact files deleted",
		Removed: len(names),
	})
}

func (s *Server) handleDaemon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.status == nil {
		s.writeJSON(w, http.StatusOK, api.DaemonStatus{})
		return
	}
	s.writeJSON(w, http.StatusOK, s.status.Status())
}
