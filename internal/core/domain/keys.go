package domain

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeFileName lowercases name and keeps only [a-z0-9._-], the extension is preserved
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))

	clean := sanitizeSegment(base)
	if clean == "" {
		clean = "file"
	}
	ext = "." + sanitizeSegment(strings.TrimPrefix(ext, "."))
	if ext == "." {
		ext = ""
	}
	return clean + ext
}

// BaseName returns the sanitized file name without its extension
func BaseName(name string) string {
	s := SanitizeFileName(name)
	return strings.TrimSuffix(s, filepath.Ext(s))
}

func sanitizeSegment(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '_':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
