// Package pathguard confines externally supplied caption file names to the
// artifact root.
package pathguard

import (
	"fmt"
	"path/filepath"
	"strings"

	"subgen/internal/services"
	"subgen/internal/srt"
)

// Sanitize strips directory components from an externally supplied name,
// replaces every rune outside [A-Za-z0-9_.-] with an underscore, and rejects
// anything that does not end in the caption suffix.
func Sanitize(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	safe := b.String()
	if !strings.HasSuffix(safe, srt.Extension) {
		return "", fmt.Errorf("%w: invalid caption file name %q", services.ErrValidation, name)
	}
	return safe, nil
}

// Resolve joins the given path elements onto root and verifies the result
// stays nested under the canonical root. It never touches the resolved path
// itself; only the root is canonicalized, so missing files still resolve.
func Resolve(root string, parts ...string) (string, error) {
	canonicalRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve artifact root: %w", err)
	}
	canonicalRoot = filepath.Clean(canonicalRoot)

	joined := filepath.Join(append([]string{canonicalRoot}, parts...)...)
	resolved := filepath.Clean(joined)

	prefix := canonicalRoot + string(filepath.Separator)
	if resolved != canonicalRoot && !strings.HasPrefix(resolved, prefix) {
		return "", fmt.Errorf("%w: path escapes artifact root", services.ErrForbidden)
	}
	if resolved == canonicalRoot {
		return "", fmt.Errorf("%w: path escapes artifact root", services.ErrForbidden)
	}
	return resolved, nil
}
