package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// fakeBlobStore is an in-memory BlobStore recording every call, so
// tests can assert on the exact delete/move traffic an operation
// produced.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	nextTag int

	deletes []string
	moves   [][2]string
	sweeps  []string

	failDelete map[string]error
	failPut    map[string]error
}

type fakeObject struct {
	data        []byte
	contentType string
	etag        string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects:    make(map[string]fakeObject),
		failDelete: make(map[string]error),
		failPut:    make(map[string]error),
	}
}

func (f *fakeBlobStore) Get(ctx context.Context, key string) (*Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, key)
	}
	return &Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		ETag:        obj.etag,
		Size:        int64(len(obj.data)),
	}, nil
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failPut[key]; ok {
		return err
	}
	f.nextTag++
	f.objects[key] = fakeObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		etag:        fmt.Sprintf("tag-%d", f.nextTag),
	}
	return nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	if err, ok := f.failDelete[key]; ok {
		return err
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobStore) Move(ctx context.Context, fromKey, toKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, [2]string{fromKey, toKey})
	obj, ok := f.objects[fromKey]
	if !ok {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, fromKey)
	}
	f.objects[toKey] = obj
	delete(f.objects, fromKey)
	return nil
}

func (f *fakeBlobStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps = append(f.sweeps, prefix)
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			delete(f.objects, key)
		}
	}
	return nil
}

func (f *fakeBlobStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// fakeDocStore is an in-memory DocumentStore with the same
// read-modify-write contract as the redis adapter.
type fakeDocStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[string][]byte)}
}

func (f *fakeDocStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	raw, ok := f.docs[key]
	f.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeDocStore) Put(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.docs[key] = raw
	f.mu.Unlock()
	return nil
}

func (f *fakeDocStore) Update(ctx context.Context, key string, mutate func(raw []byte) ([]byte, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next, err := mutate(f.docs[key])
	if err != nil {
		return err
	}
	f.docs[key] = next
	return nil
}

func strPtr(s string) *string { return &s }

func artistTestService(blobs BlobStore, docs DocumentStore) *Service {
	return NewService(Config{
		Name:                "artists",
		DocumentKey:         "catalog:artists",
		AssetPrefix:         "artists",
		RepresentativeRoles: []string{"home", "artists"},
	}, blobs, docs)
}

func actorTestService(blobs BlobStore, docs DocumentStore) *Service {
	return NewService(Config{
		Name:           "actors",
		DocumentKey:    "catalog:actors",
		AssetPrefix:    "actors",
		GenerateID:     true,
		TrackMainPhoto: true,
		FullPathRefs:   true,
	}, blobs, docs)
}
