package srt

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Extension is the caption file suffix served by the API.
const Extension = ".srt"

// MediaType is the content type used when serving caption files.
const MediaType = "text/srt"

// Segment is one timed span of transcribed text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// FileName returns the deterministic caption file name for a language code.
func FileName(lang string) string {
	return "subtitles_" + lang + Extension
}

// FormatTimestamp renders seconds as the SubRip HH:MM:SS,mmm form.
// Components are truncated, never rounded.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	whole := math.Floor(seconds)
	hours := int(whole) / 3600
	minutes := (int(whole) % 3600) / 60
	secs := int(whole) % 60
	millis := int(math.Floor((seconds - whole) * 1000))
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp converts an SRT timestamp back into seconds. Periods are
// accepted in place of the standard comma millisecond separator.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ".", ","))
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// WriteCues emits numbered cue blocks: 1-based index, timestamp line,
// trimmed text, blank separator.
func WriteCues(w io.Writer, segments []Segment) error {
	for i, segment := range segments {
		_, err := fmt.Fprintf(
			w,
			"%d\n%s --> %s\n%s\n\n",
			i+1,
			FormatTimestamp(segment.Start),
			FormatTimestamp(segment.End),
			strings.TrimSpace(segment.Text),
		)
		if err != nil {
			return fmt.Errorf("write cue %d: %w", i+1, err)
		}
	}
	return nil
}

// WriteFile persists one caption file for a language under dir and returns
// the file name.
func WriteFile(dir, lang string, segments []Segment) (string, error) {
	name := FileName(lang)
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create caption file: %w", err)
	}
	defer file.Close()

	if err := WriteCues(file, segments); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close caption file: %w", err)
	}
	return name, nil
}

// CountCues reports the number of cue blocks in an SRT file.
func CountCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return 0, nil
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count, nil
}
