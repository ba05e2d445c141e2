// Package fsx abstracts the object storage that holds uploaded files.
package fsx

import (
	"context"
	"io"
)

// FileReader is the read side of a FileSystem.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
}

type FileSystem interface {
	FileReader
	Join(elem ...string) string
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	DeleteFile(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
