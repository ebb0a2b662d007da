package srt_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subgen/internal/srt"
)

func TestFormatTimestampTruncates(t *testing.T) {
	t.Parallel()
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{59.75, "00:00:59,750"},
		{61.25, "00:01:01,250"},
		{3661.125, "01:01:01,125"},
		// 1/1024 s is 0.976 ms; truncation keeps it at zero where
		// rounding would report one.
		{2.0009765625, "00:00:02,000"},
		{-4, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := srt.FormatTimestamp(tc.seconds); got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseTimestampRoundTrip(t *testing.T) {
	t.Parallel()
	for _, value := range []string{"00:00:01,500", "01:01:01,125", "00:02:03.250"} {
		seconds, err := srt.ParseTimestamp(value)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", value, err)
		}
		want := strings.ReplaceAll(value, ".", ",")
		if got := srt.FormatTimestamp(seconds); got != want {
			t.Fatalf("round trip %q -> %v -> %q", value, seconds, got)
		}
	}
}

func TestParseTimestampRejectsMalformed(t *testing.T) {
	t.Parallel()
	for _, value := range []string{"", "1:2", "aa:bb:cc,ddd", "00:00:01"} {
		if _, err := srt.ParseTimestamp(value); err == nil {
			t.Fatalf("ParseTimestamp(%q) accepted malformed input", value)
		}
	}
}

func TestWriteCuesFormat(t *testing.T) {
	t.Parallel()
	var sb strings.Builder
	segments := []srt.Segment{
		{Start: 1.5, End: 3.25, Text: "  hi  "},
		{Start: 4, End: 5.125, Text: "second line"},
	}
	if err := srt.WriteCues(&sb, segments); err != nil {
		t.Fatalf("WriteCues: %v", err)
	}
	want := "1\n00:00:01,500 --> 00:00:03,250\nhi\n\n" +
		"2\n00:00:04,000 --> 00:00:05,125\nsecond line\n\n"
	if sb.String() != want {
		t.Fatalf("cue output mismatch:\ngot:\n%q\nwant:\n%q", sb.String(), want)
	}
}

func TestWriteCuesEmptyInput(t *testing.T) {
	t.Parallel()
	var sb strings.Builder
	if err := srt.WriteCues(&sb, nil); err != nil {
		t.Fatalf("WriteCues: %v", err)
	}
	if sb.Len() != 0 {
		t.Fatalf("expected empty output, got %q", sb.String())
	}
}

func TestWriteFileAndCountCues(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	segments := []srt.Segment{
		{Start: 0, End: 1, Text: "one"},
		{Start: 1, End: 2, Text: "two"},
		{Start: 2, End: 3, Text: "three"},
	}
	name, err := srt.WriteFile(dir, "en", segments)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if name != "subtitles_en.srt" {
		t.Fatalf("unexpected file name %q", name)
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("caption file missing: %v", err)
	}
	count, err := srt.CountCues(path)
	if err != nil {
		t.Fatalf("CountCues: %v", err)
	}
	if count != 3 {
		t.Fatalf("CountCues = %d, want 3", count)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()
	if got := srt.FileName("fr"); got != "subtitles_fr.srt" {
		t.Fatalf("FileName(fr) = %q", got)
	}
}
