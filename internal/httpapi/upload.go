package httpapi

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"subgen/internal/api"
	"subgen/internal/artifacts"
	"subgen/internal/language"
	"subgen/internal/logging"
)

// multipartMemoryLimit caps how much of the form is buffered in memory;
// larger bodies spill to temporary files.
const multipartMemoryLimit = 32 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Slack on top of the cap so an oversized file is reported as a
	// validation failure instead of a truncated read.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileBytes+multipartMemoryLimit)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.writeError(w, http.StatusBadRequest, "parse upload: "+err.Error())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "upload requires a file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.extensionAllowed(ext) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"invalid file type %q, allowed: %s", ext, strings.Join(s.cfg.Upload.AllowedExtensions, ", "),
		))
		return
	}
	if header.Size > s.cfg.Upload.MaxFileBytes {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"file too large, max size: %d MB", s.cfg.Upload.MaxFileBytes/(1024*1024),
		))
		return
	}
	if header.Size == 0 {
		s.writeError(w, http.StatusBadRequest, "file is empty")
		return
	}

	languages := language.ParseList(r.FormValue("languages"))
	if len(languages) == 0 {
		s.writeError(w, http.StatusBadRequest, "no languages requested")
		return
	}

	job := s.registry.Create(languages, artifacts.SourceBaseName+ext)
	if _, err := s.store.SaveSource(job.ID, ext, file); err != nil {
		s.registry.Remove(job.ID)
		s.logger.Error("persist upload", logging.String(logging.FieldJobID, job.ID), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "store upload")
		return
	}

	if err := s.pool.Submit(job.ID); err != nil {
		s.registry.Remove(job.ID)
		if removeErr := s.store.RemoveJobDir(job.ID); removeErr != nil {
			s.logger.Warn("discard rejected upload", logging.String(logging.FieldJobID, job.ID), logging.Error(removeErr))
		}
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	s.logger.Info("job accepted",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("filename", header.Filename),
		logging.String("languages", strings.Join(languages, ",")),
	)
	s.writeJSON(w, http.StatusOK, api.UploadResponse{
		Message:   "video uploaded, processing started",
		JobID:     job.ID,
		StatusURL: api.StatusURL(job.ID),
	})
}

func (s *Server) extensionAllowed(ext string) bool {
	for _, allowed := range s.cfg.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
