package catalog

import (
	"context"
	"io"
)

// Object is a stored binary asset together with its metadata.
// ETag is the store's strong validator for conditional requests.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	ETag        string
	Size        int64
}

// BlobStore holds the photo assets, addressed by key. DeleteByPrefix
// removes a whole namespace, e.g. everything under artists/<id>/.
type BlobStore interface {
	Get(ctx context.Context, key string) (*Object, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	Move(ctx context.Context, fromKey, toKey string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// DocumentStore holds one JSON value per key. There is no partial-update
// primitive: Update wraps a whole read-modify-write cycle; raw is nil when
// the key does not exist yet.
type DocumentStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Put(ctx context.Context, key string, value interface{}) error
	Update(ctx context.Context, key string, mutate func(raw []byte) ([]byte, error)) error
}
