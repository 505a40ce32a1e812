package secondary

import "context"

// DocumentStore defines the secondary port for interchange files on disk.
type DocumentStore interface {
	// ReadDocument returns the contents of the file at path.
	ReadDocument(ctx context.Context, path string) ([]byte, error)

	// WriteDocument replaces the file at path atomically.
	WriteDocument(ctx context.Context, path string, data []byte) error
}
