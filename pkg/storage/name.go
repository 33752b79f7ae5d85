package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ObjectName builds a unique, ASCII-only object name under prefix. ext
// replaces the extension of filename.
func ObjectName(prefix, filename, ext string) string {
	return fmt.Sprintf("%s/%d_%s%s", prefix, time.Now().UnixNano(), sanitizeBaseName(filename), ext)
}

// sanitizeBaseName keeps ASCII letters, digits, '_' and '-' of the base name
func sanitizeBaseName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.ReplaceAll(base, " ", "_")

	var result strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			result.WriteRune(r)
		}
	}
	if result.Len() == 0 {
		return "file"
	}
	if result.Len() > 64 {
		return result.String()[:64]
	}
	return result.String()
}
