package storage

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind selects the whitelist a file is validated against
type Kind int

const (
	KindImage Kind = iota
	KindResume
)

var ErrFileRejected = errors.New("file rejected")

// Magic byte signatures for allowed file types
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".webp": {{0x52, 0x49, 0x46, 0x46}},                                                   // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},                           // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                                                   // ZIP (PK..)
}

var allowedByKind = map[Kind]map[string][]string{
	KindImage: {
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
		".gif":  {"image/gif"},
		".webp": {"image/webp"},
	},
	KindResume: {
		".pdf":  {"application/pdf"},
		".doc":  {"application/msword", "application/x-ole-storage"},
		".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	},
}

// ValidatedFile is the outcome of a successful Validate
type ValidatedFile struct {
	Extension   string
	ContentType string
}

// Validate checks the extension whitelist for kind, the magic bytes and the
// sniffed MIME type. application/octet-stream is never accepted.
func Validate(kind Kind, filename string, data []byte) (*ValidatedFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil, fmt.Errorf("%w: file has no extension", ErrFileRejected)
	}

	mimes, ok := allowedByKind[kind][ext]
	if !ok {
		return nil, fmt.Errorf("%w: file extension not allowed: %s", ErrFileRejected, ext)
	}

	if !hasMagicBytes(ext, data) {
		return nil, fmt.Errorf("%w: file content does not match extension", ErrFileRejected)
	}

	detected := mimetype.Detect(data)
	for _, m := range mimes {
		if detected.Is(m) {
			return &ValidatedFile{Extension: ext, ContentType: mimes[0]}, nil
		}
	}
	return nil, fmt.Errorf("%w: MIME type not allowed: %s", ErrFileRejected, detected.String())
}

func hasMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// AllowedExtensions lists the extensions accepted for kind
func AllowedExtensions(kind Kind) []string {
	exts := make([]string, 0, len(allowedByKind[kind]))
	for ext := range allowedByKind[kind] {
		exts = append(exts, ext)
	}
	return exts
}
