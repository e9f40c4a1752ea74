package storage

import (
	"context"
	"io"
	"time"
)

// Package storage contains the payload backend abstraction for fragment
// bytes. Implementations must avoid using local disk and rely on streaming
// I/O only. Objects are keyed "ownerID/fragmentID" so payloads stay
// partitioned per owner.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the payload backend contract. Methods use context and streaming
// readers; no local disk is used.
type Storage interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}
