// Package artist configures the catalog engine for the artists
// subsystem: client-chosen ids (changeable on update, photos follow),
// bare-filename image references scoped under artists/<id>/, and the
// named representative-image roles used by the site pages.
package artist

import (
	"talent-catalog-backend/internal/catalog"
)

// Roles of the representative-image pointers.
const (
	RoleHome    = "home"
	RoleArtists = "artists"
)

func NewService(blobs catalog.BlobStore, docs catalog.DocumentStore, documentKey string) *catalog.Service {
	return catalog.NewService(catalog.Config{
		Name:                "artists",
		DocumentKey:         documentKey,
		AssetPrefix:         "artists",
		RepresentativeRoles: []string{RoleHome, RoleArtists},
	}, blobs, docs)
}
