package domain

import "context"

// UploadedFile is a file received from a multipart form, already read into memory
type UploadedFile struct {
	Filename string
	Data     []byte
}

// FileStorage is the file boundary. Save returns a public URL for the stored
// object; Delete accepts a URL previously returned by Save.
type FileStorage interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}
