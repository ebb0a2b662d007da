package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"subgen/internal/api"
	"subgen/internal/artifacts"
	"subgen/internal/config"
	"subgen/internal/httpapi"
	"subgen/internal/jobs"
	"subgen/internal/logging"
	"subgen/internal/testsupport"
	"subgen/internal/workpool"
)

type blockingProcessor struct {
	release chan struct{}
	started chan string
}

func newBlockingProcessor() *blockingProcessor {
	return &blockingProcessor{
		release: make(chan struct{}),
		started: make(chan string, 16),
	}
}

func (p *blockingProcessor) Process(ctx context.Context, jobID string) error {
	p.started <- jobID
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type staticStatus struct {
	snapshot api.DaemonStatus
}

func (s *staticStatus) Status() api.DaemonStatus { return s.snapshot }

type harness struct {
	cfg       *config.Config
	registry  *jobs.Store
	store     *artifacts.Store
	pool      *workpool.Pool
	processor *blockingProcessor
	handler   http.Handler
}

func newHarness(t *testing.T, opts ...testsupport.ConfigOption) *harness {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	registry := jobs.NewStore()
	store := artifacts.NewStore(cfg.Paths.ArtifactRoot)
	processor := newBlockingProcessor()
	pool := workpool.New(processor, cfg.Workers.Count, cfg.Workers.QueueSize, logging.NewNop())
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("pool.Start: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
	})

	server := httpapi.New(cfg, registry, store, pool, &staticStatus{snapshot: api.DaemonStatus{
		Running:      true,
		ArtifactRoot: cfg.Paths.ArtifactRoot,
		Workers:      cfg.Workers.Count,
		QueueSize:    cfg.Workers.QueueSize,
	}}, logging.NewNop())

	return &harness{
		cfg:       cfg,
		registry:  registry,
		store:     store,
		pool:      pool,
		processor: processor,
		handler:   server.Handler(),
	}
}

func (h *harness) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, filename, languages string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if languages != "" {
		if err := writer.WriteField("languages", languages); err != nil {
			t.Fatalf("write languages field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, api.UploadPath, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestUploadAcceptsVideoAndQueuesJob(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(t, uploadRequest(t, "clip.mp4", "english,spanish", []byte("fake video")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[api.UploadResponse](t, rec)
	if resp.JobID == "" {
		t.Fatalf("missing job id in %+v", resp)
	}
	if resp.StatusURL != api.StatusURL(resp.JobID) {
		t.Fatalf("status url = %q", resp.StatusURL)
	}

	job, err := h.registry.Get(resp.JobID)
	if err != nil {
		t.Fatalf("job not registered: %v", err)
	}
	if job.Status != jobs.StatusQueued {
		t.Fatalf("job status = %s, want queued", job.Status)
	}
	if len(job.Languages) != 2 || job.Languages[0] != "en" || job.Languages[1] != "es" {
		t.Fatalf("languages = %v", job.Languages)
	}
	if _, err := os.Stat(filepath.Join(h.store.JobDir(resp.JobID), "source.mp4")); err != nil {
		t.Fatalf("video artifact missing: %v", err)
	}

	select {
	case started := <-h.processor.started:
		if started != resp.JobID {
			t.Fatalf("pool started job %q, want %q", started, resp.JobID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job never reached the pool")
	}
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(t, uploadRequest(t, "notes.txt", "english", []byte("text")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeBody[api.ErrorResponse](t, rec)
	if !strings.Contains(resp.Error, "invalid file type") {
		t.Fatalf("error = %q", resp.Error)
	}
	if len(h.registry.List()) != 0 {
		t.Fatal("rejected upload left a job record")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	t.Parallel()
	h := newHarness(t, testsupport.WithMaxFileBytes(16))

	rec := h.do(t, uploadRequest(t, "clip.mp4", "english", bytes.Repeat([]byte("x"), 64)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeBody[api.ErrorResponse](t, rec)
	if !strings.Contains(resp.Error, "file too large") {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(t, uploadRequest(t, "clip.mp4", "english", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeBody[api.ErrorResponse](t, rec)
	if !strings.Contains(resp.Error, "empty") {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestUploadRejectsEmptyLanguageList(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	for _, languages := range []string{"", " , ,"} {
		rec := h.do(t, uploadRequest(t, "clip.mp4", languages, []byte("fake video")))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("languages %q: status = %d, want 400", languages, rec.Code)
		}
	}
	if len(h.registry.List()) != 0 {
		t.Fatal("rejected upload left a job record")
	}
}

func TestUploadRejectsMissingFileField(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("languages", "english"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, api.UploadPath, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := h.do(t, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadQueueFullReturns503(t *testing.T) {
	t.Parallel()
	h := newHarness(t, testsupport.WithWorkers(1, 1))

	// First upload occupies the worker, second fills the queue.
	first := h.do(t, uploadRequest(t, "a.mp4", "english", []byte("video a")))
	if first.Code != http.StatusOK {
		t.Fatalf("first upload status = %d", first.Code)
	}
	select {
	case <-h.processor.started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the first job")
	}
	second := h.do(t, uploadRequest(t, "b.mp4", "english", []byte("video b")))
	if second.Code != http.StatusOK {
		t.Fatalf("second upload status = %d", second.Code)
	}

	third := h.do(t, uploadRequest(t, "c.mp4", "english", []byte("video c")))
	if third.Code != http.StatusServiceUnavailable {
		t.Fatalf("third upload status = %d, want 503", third.Code)
	}
	if got := len(h.registry.List()); got != 2 {
		t.Fatalf("registry holds %d jobs, want 2", got)
	}
	close(h.processor.release)
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	job := h.registry.Create([]string{"en"}, "source.mp4")

	rec := h.do(t, httptest.NewRequest(http.MethodGet, api.StatusURL(job.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	view := decodeBody[api.JobView](t, rec)
	if view.JobID != job.ID || view.Status != "queued" {
		t.Fatalf("unexpected view: %+v", view)
	}

	rec = h.do(t, httptest.NewRequest(http.MethodGet, api.StatusPath+"missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing job status = %d, want 404", rec.Code)
	}
}

func TestJobsEndpointListsAll(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.registry.Create([]string{"en"}, "source.mp4")
	h.registry.Create([]string{"fr"}, "source.mkv")

	rec := h.do(t, httptest.NewRequest(http.MethodGet, api.JobsPath, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody[api.JobListResponse](t, rec)
	if len(resp.Jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(resp.Jobs))
	}
}

func TestDownloadServesCaptionFile(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	jobID := uuid.New().String()
	content := "1\n00:00:01,500 --> 00:00:03,250\nhi\n\n"
	captionPath := filepath.Join(h.store.JobDir(jobID), "subtitles_en.srt")
	testsupport.WriteFile(t, captionPath, 1)
	if err := os.WriteFile(captionPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write caption: %v", err)
	}

	rec := h.do(t, httptest.NewRequest(http.MethodGet, api.DownloadURL(jobID, "subtitles_en.srt"), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/srt" {
		t.Fatalf("content type = %q", got)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "subtitles_en.srt") {
		t.Fatalf("content disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if rec.Body.String() != content {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestDownloadRejectsBadRequests(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	jobID := uuid.New().String()

	cases := []struct {
		path string
		want int
	}{
		{api.DownloadPath + "not-a-uuid/subtitles_en.srt", http.StatusBadRequest},
		{api.DownloadURL(jobID, "source.mp4"), http.StatusBadRequest},
		{api.DownloadPath + jobID, http.StatusBadRequest},
		{api.DownloadURL(jobID, "subtitles_en.srt"), http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := h.do(t, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("GET %s status = %d, want %d", tc.path, rec.Code, tc.want)
		}
	}
}

func TestSubtitlesEndpointListsCaptions(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	jobID := uuid.New().String()
	captionPath := filepath.Join(h.store.JobDir(jobID), "subtitles_en.srt")
	testsupport.WriteFile(t, captionPath, 8)

	rec := h.do(t, httptest.NewRequest(http.MethodGet, api.SubtitlesPath, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody[api.SubtitleListResponse](t, rec)
	if len(resp.Subtitles) != 1 {
		t.Fatalf("subtitles = %+v, want 1 entry", resp.Subtitles)
	}
	wantName := jobID + "/subtitles_en.srt"
	if resp.Subtitles[0].Filename != wantName {
		t.Fatalf("filename = %q, want %q", resp.Subtitles[0].Filename, wantName)
	}
}

func TestCleanupRemovesArtifacts(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	jobID := uuid.New().String()
	testsupport.WriteFile(t, filepath.Join(h.store.JobDir(jobID), "subtitles_en.srt"), 8)
	testsupport.WriteFile(t, filepath.Join(h.store.JobDir(jobID), "audio.wav"), 8)

	rec := h.do(t, httptest.NewRequest(http.MethodDelete, api.CleanupPath, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody[api.CleanupResponse](t, rec)
	if resp.Removed != 1 {
		t.Fatalf("removed = %d, want 1", resp.Removed)
	}
	entries, err := os.ReadDir(h.cfg.Paths.ArtifactRoot)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("artifact root not empty: %v", entries)
	}

	rec = h.do(t, httptest.NewRequest(http.MethodGet, api.CleanupPath, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET cleanup status = %d, want 405", rec.Code)
	}
}

func TestDaemonEndpoint(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(t, httptest.NewRequest(http.MethodGet, api.DaemonPath, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	status := decodeBody[api.DaemonStatus](t, rec)
	if !status.Running || status.ArtifactRoot != h.cfg.Paths.ArtifactRoot {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestMethodGuards(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, api.UploadPath},
		{http.MethodPost, api.JobsPath},
		{http.MethodPost, api.StatusPath + "x"},
		{http.MethodPost, api.SubtitlesPath},
		{http.MethodPost, api.DaemonPath},
	}
	for _, tc := range cases {
		rec := h.do(t, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s status = %d, want 405", tc.method, tc.path, rec.Code)
		}
	}
}
