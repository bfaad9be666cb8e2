// internal/api/router.go
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/config"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/di"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/services"
)

// SetupRouter wires the HTTP surface from services registered in the
// container.
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	container := di.GetContainer()

	draftService, err := di.Resolve[*services.DraftService](container, "draft")
	if err != nil {
		return nil, fmt.Errorf("draft service not initialized: %w", err)
	}

	chapterService, err := di.Resolve[*services.ChapterService](container, "chapter")
	if err != nil {
		return nil, fmt.Errorf("chapter service not initialized: %w", err)
	}

	hub, err := di.Resolve[*DraftHub](container, "draft_hub")
	if err != nil {
		return nil, fmt.Errorf("draft hub not initialized: %w", err)
	}
	draftService.SetNotifier(hub)

	handler := NewHandler(draftService, chapterService, hub)
	rh := NewResponseHelper()

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())

	r.GET("/healthz", handler.Health)

	chapters := r.Group("/stories/:storyID/volumes/:volumeID/chapters")
	{
		// Beacon saves authenticate via query token: the unload-time beacon
		// transport cannot set an Authorization header.
		chapters.PUT("/:chapterID/draft/beacon", queryTokenAuthMiddleware(rh), handler.SaveDraft)

		authed := chapters.Group("", bearerAuthMiddleware(rh))
		{
			authed.GET("/:chapterID/draft", handler.GetDraft)
			authed.PUT("/:chapterID/draft", handler.SaveDraft)
			authed.DELETE("/:chapterID/draft", handler.DeleteDraft)

			authed.POST("", handler.CreateChapter)
			authed.GET("/:chapterID", handler.GetChapter)
			authed.PUT("/:chapterID", handler.UpdateChapter)
		}
	}

	r.GET("/ws/chapters/:chapterID/drafts", handler.WatchDrafts)

	return r, nil
}
