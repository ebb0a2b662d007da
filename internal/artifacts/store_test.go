package artifacts_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"subgen/internal/artifacts"
)

func TestSaveSourcePreservesExtension(t *testing.T) {
	t.Parallel()
	store := artifacts.NewStore(t.TempDir())

	name, err := store.SaveSource("job-1", ".MP4", strings.NewReader("fake video bytes"))
	if err != nil {
		t.Fatalf("SaveSource: %v", err)
	}
	if name != "source.mp4" {
		t.Fatalf("stored name = %q, want %q", name, "source.mp4")
	}
	data, err := os.ReadFile(filepath.Join(store.JobDir("job-1"), name))
	if err != nil {
		t.Fatalf("read stored video: %v", err)
	}
	if string(data) != "fake video bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestJobPathsAreIsolated(t *testing.T) {
	t.Parallel()
	store := artifacts.NewStore(t.TempDir())
	if store.JobDir("a") == store.JobDir("b") {
		t.Fatal("jobs share a directory")
	}
	if store.AudioPath("a") != filepath.Join(store.JobDir("a"), "audio.wav") {
		t.Fatalf("unexpected audio path %q", store.AudioPath("a"))
	}
}

func TestCaptionsListsJobRelativeNames(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	store := artifacts.NewStore(root)

	for _, path := range []string{
		"job-b/subtitles_en.srt",
		"job-a/subtitles_fr.srt",
		"job-a/subtitles_en.srt",
	} {
		full := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte("1\n00:00:00,000 --> 00:00:01,000\nhi\n\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	// Non-caption artifacts never appear in the listing.
	if err := os.WriteFile(filepath.Join(root, "job-a", "audio.wav"), []byte("wav"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := store.Captions()
	if err != nil {
		t.Fatalf("Captions: %v", err)
	}
	want := []string{
		"job-a/subtitles_en.srt",
		"job-a/subtitles_fr.srt",
		"job-b/subtitles_en.srt",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Captions = %v, want %v", got, want)
	}
}

func TestCaptionsMissingRoot(t *testing.T) {
	t.Parallel()
	store := artifacts.NewStore(filepath.Join(t.TempDir(), "never-created"))
	got, err := store.Captions()
	if err != nil {
		t.Fatalf("Captions: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Captions = %v, want empty", got)
	}
}

func TestRemoveJobDir(t *testing.T) {
	t.Parallel()
	store := artifacts.NewStore(t.TempDir())
	if _, err := store.SaveSource("job-1", ".mkv", strings.NewReader("x")); err != nil {
		t.Fatalf("SaveSource: %v", err)
	}
	if err := store.RemoveJobDir("job-1"); err != nil {
		t.Fatalf("RemoveJobDir: %v", err)
	}
	if _, err := os.Stat(store.JobDir("job-1")); !os.IsNotExist(err) {
		t.Fatalf("job dir still present: %v", err)
	}
}

func TestRemoveAllRecreatesEmptyRoot(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	store := artifacts.NewStore(root)
	if _, err := store.SaveSource("job-1", ".mp4", strings.NewReader("x")); err != nil {
		t.Fatalf("SaveSource: %v", err)
	}
	if err := store.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("root not empty after RemoveAll: %v", entries)
	}
}
