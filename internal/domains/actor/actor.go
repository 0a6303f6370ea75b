// Package actor configures the catalog engine for the actors
// subsystem: server-assigned stable UUIDs, photo references stored as
// full blob keys (actors/<uuid>-<filename>), and the first upload
// tracked as main_photo.
package actor

import (
	"talent-catalog-backend/internal/catalog"
)

func NewService(blobs catalog.BlobStore, docs catalog.DocumentStore, documentKey string) *catalog.Service {
	return catalog.NewService(catalog.Config{
		Name:           "actors",
		DocumentKey:    documentKey,
		AssetPrefix:    "actors",
		GenerateID:     true,
		TrackMainPhoto: true,
		FullPathRefs:   true,
	}, blobs, docs)
}
