package main

import (
	"context"
	"net/http"
	"time"

	"talent-catalog-backend/internal/catalog"
	"talent-catalog-backend/internal/shared/middleware"
	"talent-catalog-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	// Matched path with a disallowed verb is 405, everything else 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	router.GET("/health", healthCheckHandler(c))

	setupCatalogRoutes(router, "/artists", c.ArtistHandler)
	setupCatalogRoutes(router, "/actors", c.ActorHandler)

	// Single-image management for the artists subsystem.
	router.DELETE("/files/:id/:image", c.ArtistHandler.DeleteImage)

	// Raw photo bytes straight from the blob store.
	router.GET("/assets/*key", c.AssetHandler.Serve)
	router.GET("/photos/*key", c.AssetHandler.Serve)

	return router
}

func setupCatalogRoutes(router *gin.Engine, prefix string, h *catalog.Handler) {
	group := router.Group(prefix)
	{
		group.GET("", h.List)
		group.GET("/admin", h.ListAdmin)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		}

		docsStatus := "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := appCtx.Docs.Ping(ctx); err != nil {
			docsStatus = err.Error()
			health["status"] = "degraded"
		}
		health["services"] = gin.H{"docstore": docsStatus}

		statusCode := http.StatusOK
		if docsStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
