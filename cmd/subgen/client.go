package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subgen/internal/api"
)

const defaultServer = "http://127.0.0.1:8757"

// apiClient talks to the subgend HTTP API.
type apiClient struct {
	server *string
	http   *http.Client
}

func newAPIClient(server *string) *apiClient {
	return &apiClient{
		server: server,
		// Transcription submissions only upload the file; the work itself is
		// polled, so a flat timeout is fine.
		http: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *apiClient) baseURL() string {
	base := strings.TrimSpace(*c.server)
	if base == "" {
		base = defaultServer
	}
	return strings.TrimRight(base, "/")
}

func (c *apiClient) getJSON(path string, out any) error {
	resp, err := c.http.Get(c.baseURL() + path)
	if err != nil {
		return fmt.Errorf("contact daemon: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// DaemonStatus fetches the daemon runtime snapshot.
func (c *apiClient) DaemonStatus() (api.DaemonStatus, error) {
	var status api.DaemonStatus
	err := c.getJSON(api.DaemonPath, &status)
	return status, err
}

// Jobs fetches all job records, newest first.
func (c *apiClient) Jobs() ([]api.JobView, error) {
	var payload api.JobListResponse
	if err := c.getJSON(api.JobsPath, &payload); err != nil {
		return nil, err
	}
	return payload.Jobs, nil
}

// Job fetches one job record.
func (c *apiClient) Job(id string) (api.JobView, error) {
	var view api.JobView
	err := c.getJSON(api.StatusURL(id), &view)
	return view, err
}

// Subtitles lists every caption file present on the daemon.
func (c *apiClient) Subtitles() ([]api.SubtitleEntry, error) {
	var payload api.SubtitleListResponse
	if err := c.getJSON(api.SubtitlesPath, &payload); err != nil {
		return nil, err
	}
	return payload.Subtitles, nil
}

// Submit uploads a video with a comma-separated language request.
func (c *apiClient) Submit(videoPath, languages string) (api.UploadResponse, error) {
	var result api.UploadResponse

	file, err := os.Open(videoPath)
	if err != nil {
		return result, err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(videoPath))
	if err != nil {
		return result, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return result, fmt.Errorf("read video: %w", err)
	}
	if err := writer.WriteField("languages", languages); err != nil {
		return result, err
	}
	if err := writer.Close(); err != nil {
		return result, err
	}

	resp, err := c.http.Post(c.baseURL()+api.UploadPath, writer.FormDataContentType(), &body)
	if err != nil {
		return result, fmt.Errorf("contact daemon: %w", err)
	}
	defer resp.Body.Close()
	err = decodeResponse(resp, &result)
	return result, err
}

// Download streams one caption file to dest.
func (c *apiClient) Download(jobID, filename, dest string) error {
	resp, err := c.http.Get(c.baseURL() + api.DownloadURL(jobID, filename))
	if err != nil {
		return fmt.Errorf("contact daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}

// Cleanup wipes every artifact on the daemon.
func (c *apiClient) Cleanup() (api.CleanupResponse, error) {
	var result api.CleanupResponse

	req, err := http.NewRequest(http.MethodDelete, c.baseURL()+api.CleanupPath, nil)
	if err != nil {
		return result, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return result, fmt.Errorf("contact daemon: %w", err)
	}
	defer resp.Body.Close()
	err = decodeResponse(resp, &result)
	return result, err
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	var payload api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s (%s)", payload.Error, resp.Status)
	}
	return fmt.Errorf("daemon returned %s", resp.Status)
}
