package container

import (
	"context"
	"fmt"
	"time"

	"talent-catalog-backend/internal/catalog"
	"talent-catalog-backend/internal/config"
	"talent-catalog-backend/internal/domains/actor"
	"talent-catalog-backend/internal/domains/artist"
	"talent-catalog-backend/internal/infrastructure/docstore"
	"talent-catalog-backend/internal/infrastructure/storage"
	"talent-catalog-backend/pkg/logger"
)

// Container holds the application's dependency graph.
// Initialization order matters: config, then stores, then services,
// then handlers.
type Container struct {
	Config *config.Config

	// Infrastructure - singletons shared by both catalogs
	Blobs *storage.MinIOStorage
	Docs  *docstore.RedisStore

	// Catalog services - one engine instance per subsystem
	ArtistService *catalog.Service
	ActorService  *catalog.Service

	// HTTP handlers
	ArtistHandler *catalog.Handler
	ActorHandler  *catalog.Handler
	AssetHandler  *catalog.AssetHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	blobs, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}
	c.Blobs = blobs

	docs := docstore.NewRedisStore(cfg.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := docs.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	c.Docs = docs

	c.ArtistService = artist.NewService(blobs, docs, cfg.Catalog.ArtistsKey)
	c.ActorService = actor.NewService(blobs, docs, cfg.Catalog.ActorsKey)

	c.ArtistHandler = catalog.NewHandler(c.ArtistService)
	c.ActorHandler = catalog.NewHandler(c.ActorService)
	c.AssetHandler = catalog.NewAssetHandler(blobs)

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	return c, nil
}

func (c *Container) Cleanup() {
	if c.Docs != nil {
		if err := c.Docs.Close(); err != nil {
			logger.Error("failed to close document store", err)
		}
	}
}
