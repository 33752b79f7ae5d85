package storage

import (
	"context"
	"errors"
	"fmt"

	"go-jobboard-backend/pkg/security/antivirus"
)

// ErrScanFailed means the scanner could not give a verdict. The file is not stored.
var ErrScanFailed = errors.New("virus scan failed")

// Backend is the Save/Delete surface shared by LocalStorage and S3Storage
type Backend interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// ScanningStorage scans every object before handing it to the wrapped backend
type ScanningStorage struct {
	next    Backend
	scanner antivirus.Scanner
}

func NewScanningStorage(next Backend, scanner antivirus.Scanner) *ScanningStorage {
	return &ScanningStorage{next: next, scanner: scanner}
}

func (s *ScanningStorage) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	res := s.scanner.Scan(ctx, name, data)
	if res.Error != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrScanFailed, res.ScannerName, res.Error)
	}
	if res.Infected {
		return "", fmt.Errorf("%w: malware detected (%s)", ErrFileRejected, res.ThreatName)
	}
	return s.next.Save(ctx, name, contentType, data)
}

func (s *ScanningStorage) Delete(ctx context.Context, url string) error {
	return s.next.Delete(ctx, url)
}
