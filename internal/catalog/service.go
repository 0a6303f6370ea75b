package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"talent-catalog-backend/pkg/logger"

	"github.com/google/uuid"
)

// Config parameterizes the generic catalog engine for one subsystem.
type Config struct {
	// Name of the catalog, used in log events ("artists", "actors").
	Name string
	// DocumentKey is the document-store key holding the whole catalog.
	DocumentKey string
	// AssetPrefix namespaces blob keys for this catalog.
	AssetPrefix string
	// RepresentativeRoles enables the named-role image pointers
	// ("home", "artists"); empty disables the field entirely.
	RepresentativeRoles []string
	// GenerateID assigns a server-side UUID on create. When set, the id
	// is stable: an id supplied on update is ignored.
	GenerateID bool
	// TrackMainPhoto records the first stored upload as main_photo.
	TrackMainPhoto bool
	// FullPathRefs stores image references as full blob keys
	// (<prefix>/<id>-<name>) instead of bare filenames scoped under
	// <prefix>/<id>/.
	FullPathRefs bool
}

// Service implements create/read/update/delete for one catalog,
// orchestrating the blob and document stores to keep photo references
// consistent with stored entities.
//
// The catalog document is a single shared value. Every mutation is a
// read-modify-write wrapped in the document store's optimistic
// transaction; image uploads and deletions happen outside it, so a
// failed mutation can leave already-uploaded blobs behind. That is an
// accepted limitation of the best-effort design, not a bug.
type Service struct {
	cfg   Config
	blobs BlobStore
	docs  DocumentStore
}

func NewService(cfg Config, blobs BlobStore, docs DocumentStore) *Service {
	return &Service{cfg: cfg, blobs: blobs, docs: docs}
}

// Name returns the catalog name for routing and logs.
func (s *Service) Name() string { return s.cfg.Name }

// List returns the catalog. The admin surface gets full records; the
// public one gets the projection without bookkeeping timestamps.
func (s *Service) List(ctx context.Context) ([]PublicEntity, error) {
	list, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PublicEntity, 0, len(list))
	for _, e := range list {
		out = append(out, e.public())
	}
	return out, nil
}

func (s *Service) ListAdmin(ctx context.Context) ([]Entity, error) {
	return s.loadAll(ctx)
}

// Create validates the input, stores the uploaded images under the new
// entity's namespace and appends the record to the catalog document.
func (s *Service) Create(ctx context.Context, input EntityInput, uploads []Upload) (*Entity, error) {
	if err := input.validateCreate(s.cfg.GenerateID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	var id string
	if s.cfg.GenerateID {
		id = uuid.NewString()
	} else {
		id = *input.ID
	}

	// Fail fast on a duplicate before any blob is written. The check is
	// repeated inside the document transaction below.
	list, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	if indexByID(list, id) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}

	refs, err := s.storeUploads(ctx, id, uploads)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entity := Entity{
		ID:        id,
		Images:    refs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(s.cfg.RepresentativeRoles) > 0 {
		entity.Representative = emptyRoles(s.cfg.RepresentativeRoles)
	}
	input.applyTo(&entity, s.cfg.RepresentativeRoles)
	if s.cfg.TrackMainPhoto && len(refs) > 0 {
		entity.MainPhoto = refs[0]
	}

	err = s.mutateDocument(ctx, func(list []Entity) ([]Entity, error) {
		if indexByID(list, id) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		return append(list, entity), nil
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update merges the supplied fields over the existing record, uploads
// new images, removes requested ones and relocates every blob when the
// id itself changes. Image removal and relocation are best-effort:
// individual failures are logged and do not abort the update.
func (s *Service) Update(ctx context.Context, id string, input EntityInput, uploads []Upload, deleteImages []string) (*Entity, error) {
	list, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexByID(list, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	entity := list[idx]

	targetID := id
	if !s.cfg.GenerateID && input.ID != nil && *input.ID != "" && *input.ID != id {
		targetID = *input.ID
		if indexByID(list, targetID) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, targetID)
		}
	}

	input.applyTo(&entity, s.cfg.RepresentativeRoles)

	newRefs, err := s.storeUploads(ctx, targetID, uploads)
	if err != nil {
		return nil, err
	}

	if len(deleteImages) > 0 {
		var outcomes []outcome
		for _, name := range deleteImages {
			if !removeRef(&entity.Images, name) {
				continue
			}
			key := s.objectKey(id, name)
			outcomes = append(outcomes, outcome{Key: key, Err: s.blobs.Delete(ctx, key)})
		}
		s.logOutcomes("delete images on update", outcomes)
	}

	if targetID != id {
		var outcomes []outcome
		for i, ref := range entity.Images {
			from := s.objectKey(id, ref)
			to := s.objectKey(targetID, ref)
			err := s.blobs.Move(ctx, from, to)
			if err == nil && s.cfg.FullPathRefs {
				entity.Images[i] = to
			}
			outcomes = append(outcomes, outcome{Key: from, Err: err})
		}
		s.logOutcomes("relocate images on id change", outcomes)
		entity.ID = targetID
	}

	entity.Images = append(entity.Images, newRefs...)
	if s.cfg.TrackMainPhoto && entity.MainPhoto == "" && len(entity.Images) > 0 {
		entity.MainPhoto = entity.Images[0]
	}
	entity.UpdatedAt = time.Now().UTC()

	err = s.mutateDocument(ctx, func(list []Entity) ([]Entity, error) {
		idx := indexByID(list, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		if targetID != id && indexByID(list, targetID) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, targetID)
		}
		list[idx] = entity
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Delete removes the record from the catalog document and best-effort
// deletes every blob it referenced.
func (s *Service) Delete(ctx context.Context, id string) error {
	list, err := s.loadAll(ctx)
	if err != nil {
		return err
	}
	idx := indexByID(list, id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	entity := list[idx]

	var outcomes []outcome
	seen := make(map[string]bool)
	for _, ref := range entity.Images {
		key := s.objectKey(id, ref)
		if seen[key] {
			continue
		}
		seen[key] = true
		outcomes = append(outcomes, outcome{Key: key, Err: s.blobs.Delete(ctx, key)})
	}
	if entity.MainPhoto != "" {
		key := s.objectKey(id, entity.MainPhoto)
		if !seen[key] {
			outcomes = append(outcomes, outcome{Key: key, Err: s.blobs.Delete(ctx, key)})
		}
	}
	s.logOutcomes("delete images on entity delete", outcomes)

	// Earlier best-effort failures can leave orphans under the entity's
	// namespace; sweep it so the delete leaves nothing behind. Catalogs
	// with full-path references have no per-entity namespace to sweep.
	if !s.cfg.FullPathRefs {
		prefix := fmt.Sprintf("%s/%s/", s.cfg.AssetPrefix, id)
		if err := s.blobs.DeleteByPrefix(ctx, prefix); err != nil {
			s.logOutcomes("sweep namespace on entity delete", []outcome{{Key: prefix, Err: err}})
		}
	}

	return s.mutateDocument(ctx, func(list []Entity) ([]Entity, error) {
		idx := indexByID(list, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return append(list[:idx], list[idx+1:]...), nil
	})
}

// DeleteImage removes one image: the blob itself, the reference in the
// owning record's image list and any representative role pointing at it.
// The blob deletion is the operation of record: the call succeeds even
// when the owning record no longer exists or the image was already
// removed, so repeating it is harmless.
func (s *Service) DeleteImage(ctx context.Context, id, imageName string) error {
	key := s.objectKey(id, imageName)
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logOutcomes("delete single image", []outcome{{Key: key, Err: err}})
	}

	return s.mutateDocument(ctx, func(list []Entity) ([]Entity, error) {
		idx := indexByID(list, id)
		if idx < 0 {
			return list, nil
		}
		entity := list[idx]
		removeRef(&entity.Images, imageName)
		for role, ref := range entity.Representative {
			if ref != nil && *ref == imageName {
				entity.Representative[role] = nil
			}
		}
		if entity.MainPhoto == imageName {
			entity.MainPhoto = ""
		}
		entity.UpdatedAt = time.Now().UTC()
		list[idx] = entity
		return list, nil
	})
}

// objectKey resolves an image reference to its blob key.
func (s *Service) objectKey(id, ref string) string {
	if s.cfg.FullPathRefs {
		return ref
	}
	return fmt.Sprintf("%s/%s/%s", s.cfg.AssetPrefix, id, ref)
}

// newRef builds the reference and blob key for a fresh upload.
func (s *Service) newRef(id, filename string) (ref, key string) {
	if s.cfg.FullPathRefs {
		k := fmt.Sprintf("%s/%s-%s", s.cfg.AssetPrefix, id, filename)
		return k, k
	}
	return filename, fmt.Sprintf("%s/%s/%s", s.cfg.AssetPrefix, id, filename)
}

// storeUploads writes every nonzero-size upload to the blob store. An
// upload failure aborts the enclosing operation; already-stored blobs
// are not rolled back.
func (s *Service) storeUploads(ctx context.Context, id string, uploads []Upload) ([]string, error) {
	refs := make([]string, 0, len(uploads))
	for _, up := range uploads {
		if len(up.Data) == 0 {
			continue
		}
		ref, key := s.newRef(id, up.Filename)
		if err := s.blobs.Put(ctx, key, up.Data, up.ContentType); err != nil {
			return nil, fmt.Errorf("store image %q: %w", key, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *Service) loadAll(ctx context.Context) ([]Entity, error) {
	var list []Entity
	found, err := s.docs.Get(ctx, s.cfg.DocumentKey, &list)
	if err != nil {
		return nil, fmt.Errorf("load catalog document: %w", err)
	}
	if !found {
		return []Entity{}, nil
	}
	return list, nil
}

// mutateDocument runs one read-modify-write cycle against the catalog
// document inside the store's transaction boundary.
func (s *Service) mutateDocument(ctx context.Context, fn func(list []Entity) ([]Entity, error)) error {
	return s.docs.Update(ctx, s.cfg.DocumentKey, func(raw []byte) ([]byte, error) {
		var list []Entity
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, fmt.Errorf("decode catalog document: %w", err)
			}
		}
		next, err := fn(list)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
}

// outcome records one best-effort sub-operation against a blob key.
type outcome struct {
	Key string
	Err error
}

// logOutcomes aggregates best-effort failures into one diagnostic log
// event without failing the parent operation.
func (s *Service) logOutcomes(op string, outcomes []outcome) {
	var failed []string
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", o.Key, o.Err))
		}
	}
	if len(failed) == 0 {
		return
	}
	logger.Warn("best-effort operation incomplete", map[string]interface{}{
		"catalog":   s.cfg.Name,
		"operation": op,
		"failed":    failed,
	})
}

func indexByID(list []Entity, id string) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func removeRef(refs *[]string, name string) bool {
	for i, ref := range *refs {
		if ref == name {
			*refs = append((*refs)[:i], (*refs)[i+1:]...)
			return true
		}
	}
	return false
}
