// internal/app/app.go
package app

import (
	"fmt"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/api"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/config"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/di"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/services"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/storage"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/utils"
)

// InitServices builds the service graph in dependency order and registers
// everything in the container for the router to pick up.
func InitServices(cfg *config.Config) error {
	container := di.GetContainer()

	store, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open draft storage: %w", err)
	}
	container.Register("draft_store", store)

	draftService := services.NewDraftService(store)
	container.Register("draft", draftService)

	chapterService, err := services.NewChapterService(cfg.DataDir, draftService)
	if err != nil {
		return fmt.Errorf("failed to initialize chapter service: %w", err)
	}
	container.Register("chapter", chapterService)

	container.Register("draft_hub", api.NewDraftHub())

	return nil
}

// Cleanup releases resources held by registered services.
func Cleanup() {
	container := di.GetContainer()

	if store, err := di.Resolve[storage.DraftStore](container, "draft_store"); err == nil {
		if err := store.Close(); err != nil {
			utils.GetLogger().Warn("failed to close draft store", map[string]interface{}{
				"err": err.Error(),
			})
		}
	}
}
