package pathguard_test

import (
	"errors"
	"path/filepath"
	"testing"

	"subgen/internal/pathguard"
	"subgen/internal/services"
)

func TestSanitizeStripsDirectoryComponents(t *testing.T) {
	t.Parallel()
	got, err := pathguard.Sanitize("../../etc/subtitles_en.srt")
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if got != "subtitles_en.srt" {
		t.Fatalf("Sanitize = %q, want %q", got, "subtitles_en.srt")
	}
}

func TestSanitizeReplacesUnsafeRunes(t *testing.T) {
	t.Parallel()
	got, err := pathguard.Sanitize("sub titles!én.srt")
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if got != "sub_titles__n.srt" {
		t.Fatalf("Sanitize = %q, want %q", got, "sub_titles__n.srt")
	}
}

func TestSanitizeRejectsNonCaptionNames(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"", "source.mp4", "subtitles_en.srt.exe", "..", "."} {
		if _, err := pathguard.Sanitize(name); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("Sanitize(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestResolveNestedPath(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	got, err := pathguard.Resolve(root, "job-1", "subtitles_en.srt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join(root, "job-1", "subtitles_en.srt")
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveRejectsEscape(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	for _, parts := range [][]string{
		{".."},
		{"..", "other", "subtitles_en.srt"},
		{"job-1", "..", "..", "subtitles_en.srt"},
	} {
		if _, err := pathguard.Resolve(root, parts...); !errors.Is(err, services.ErrForbidden) {
			t.Fatalf("Resolve(%v) error = %v, want ErrForbidden", parts, err)
		}
	}
}

func TestResolveRejectsRootItself(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if _, err := pathguard.Resolve(root); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("Resolve(root) error = %v, want ErrForbidden", err)
	}
	if _, err := pathguard.Resolve(root, "job-1", ".."); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("Resolve(job/..) error = %v, want ErrForbidden", err)
	}
}
