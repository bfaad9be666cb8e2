// internal/api/handlers.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/services"
)

// Handler carries the services the draft API exposes.
type Handler struct {
	drafts   *services.DraftService
	chapters *services.ChapterService
	hub      *DraftHub
	rh       *ResponseHelper
}

// NewHandler creates the API handler.
func NewHandler(drafts *services.DraftService, chapters *services.ChapterService, hub *DraftHub) *Handler {
	return &Handler{
		drafts:   drafts,
		chapters: chapters,
		hub:      hub,
		rh:       NewResponseHelper(),
	}
}

func draftKeyFromPath(c *gin.Context) models.DraftKey {
	return models.DraftKey{
		StoryID:   c.Param("storyID"),
		VolumeID:  c.Param("volumeID"),
		ChapterID: c.Param("chapterID"),
	}
}

// GetDraft returns {hasDraft, content, updatedAt} for the chapter.
func (h *Handler) GetDraft(c *gin.Context) {
	draft, err := h.drafts.GetDraft(c.Request.Context(), authorID(c), draftKeyFromPath(c))
	if err != nil {
		h.rh.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SaveDraft upserts the chapter draft and echoes the server timestamp.
func (h *Handler) SaveDraft(c *gin.Context) {
	var req models.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rh.BadRequest(c, "invalid draft payload")
		return
	}

	updatedAt, err := h.drafts.SaveDraft(c.Request.Context(), authorID(c), draftKeyFromPath(c), &req)
	if err != nil {
		h.rh.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SaveDraftResponse{UpdatedAt: updatedAt})
}

// DeleteDraft removes the chapter draft. Idempotent.
func (h *Handler) DeleteDraft(c *gin.Context) {
	if err := h.drafts.DeleteDraft(c.Request.Context(), authorID(c), draftKeyFromPath(c)); err != nil {
		h.rh.FromAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateChapter performs the manual save of a brand-new chapter.
func (h *Handler) CreateChapter(c *gin.Context) {
	var input models.ChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.rh.BadRequest(c, "invalid chapter payload")
		return
	}

	chapter, err := h.chapters.CreateChapter(c.Request.Context(), authorID(c), c.Param("storyID"), c.Param("volumeID"), &input)
	if err != nil {
		h.rh.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

// UpdateChapter performs the manual save of an existing chapter.
func (h *Handler) UpdateChapter(c *gin.Context) {
	var input models.ChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.rh.BadRequest(c, "invalid chapter payload")
		return
	}

	chapter, err := h.chapters.UpdateChapter(c.Request.Context(), authorID(c), c.Param("storyID"), c.Param("volumeID"), c.Param("chapterID"), &input)
	if err != nil {
		h.rh.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// GetChapter loads a chapter for the editor's initial content.
func (h *Handler) GetChapter(c *gin.Context) {
	chapter, err := h.chapters.GetChapter(c.Request.Context(), c.Param("storyID"), c.Param("volumeID"), c.Param("chapterID"))
	if err != nil {
		h.rh.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// WatchDrafts subscribes the caller to draft-saved events for a chapter.
func (h *Handler) WatchDrafts(c *gin.Context) {
	h.hub.Handle(c)
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
