// internal/api/handlers_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/config"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/di"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/services"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/storage"
)

const draftPath = "/stories/1/volumes/2/chapters/5/draft"

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	container := di.GetContainer()
	container.Clear()

	store := storage.NewMemoryDraftStore()
	drafts := services.NewDraftService(store)
	chapters, err := services.NewChapterService(t.TempDir(), drafts)
	require.NoError(t, err)

	container.Register("draft_store", store)
	container.Register("draft", drafts)
	container.Register("chapter", chapters)
	container.Register("draft_hub", NewDraftHub())

	router, err := SetupRouter(&config.Config{DebugMode: true})
	require.NoError(t, err)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return &resp
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDraftEndpointsRequireBearerToken(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, draftPath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, w).Error.Code)
}

func TestDraftEndpointsRejectPathShapedTokens(t *testing.T) {
	router := setupTestRouter(t)

	for _, token := range []string{"../../outside", "a/b", `a\b`, ".", ".."} {
		w := doJSON(t, router, http.MethodGet, draftPath, token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "token %q", token)

		w = doJSON(t, router, http.MethodPut, draftPath, token,
			models.SaveDraftRequest{DraftContent: `{"title":"x"}`})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "token %q", token)
	}
}

func TestBeaconSaveRejectsPathShapedTokens(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPut, draftPath+"/beacon?token=..%2F..%2Foutside", "",
		models.SaveDraftRequest{DraftContent: `{"title":"x"}`})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDraftLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	// No draft yet.
	w := doJSON(t, router, http.MethodGet, draftPath, "author-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var draft models.ServerDraft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.False(t, draft.HasDraft)

	// Upsert.
	w = doJSON(t, router, http.MethodPut, draftPath, "author-1",
		models.SaveDraftRequest{DraftContent: `{"title":"wip"}`})
	require.Equal(t, http.StatusOK, w.Code)
	var saved models.SaveDraftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.False(t, saved.UpdatedAt.IsZero())

	// Read back.
	w = doJSON(t, router, http.MethodGet, draftPath, "author-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.True(t, draft.HasDraft)
	assert.Equal(t, `{"title":"wip"}`, draft.Content)

	// Another author sees nothing.
	w = doJSON(t, router, http.MethodGet, draftPath, "author-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.False(t, draft.HasDraft)

	// Delete, twice.
	w = doJSON(t, router, http.MethodDelete, draftPath, "author-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodDelete, draftPath, "author-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, draftPath, "author-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.False(t, draft.HasDraft)
}

func TestSaveDraftRejectsEmptyBody(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPut, draftPath, "author-1",
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBeaconSaveAuthenticatesViaQueryToken(t *testing.T) {
	router := setupTestRouter(t)

	// No token: rejected.
	w := doJSON(t, router, http.MethodPut, draftPath+"/beacon", "",
		models.SaveDraftRequest{DraftContent: `{"title":"exit"}`})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token in the query string, no Authorization header.
	w = doJSON(t, router, http.MethodPut, draftPath+"/beacon?token=author-1", "",
		models.SaveDraftRequest{DraftContent: `{"title":"exit"}`})
	require.Equal(t, http.StatusOK, w.Code)

	// The beacon write landed on the same draft slot the bearer routes use.
	w = doJSON(t, router, http.MethodGet, draftPath, "author-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var draft models.ServerDraft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.True(t, draft.HasDraft)
	assert.Equal(t, `{"title":"exit"}`, draft.Content)
}

func TestCreateChapterValidationErrors(t *testing.T) {
	router := setupTestRouter(t)

	zero := 0.0
	w := doJSON(t, router, http.MethodPost, "/stories/1/volumes/2/chapters", "author-1",
		models.ChapterInput{
			Title:       "Paid chapter",
			IsFree:      false,
			PriceCoin:   &zero,
			ContentHTML: "<p>content</p>",
		})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "priceCoin")
}

func TestManualSaveFlowClearsDraft(t *testing.T) {
	router := setupTestRouter(t)

	// Autosaved draft exists before the manual save.
	w := doJSON(t, router, http.MethodPut, draftPath, "author-1",
		models.SaveDraftRequest{DraftContent: `{"title":"autosaved"}`})
	require.Equal(t, http.StatusOK, w.Code)

	price := 20.0
	w = doJSON(t, router, http.MethodPut, "/stories/1/volumes/2/chapters/5", "author-1",
		models.ChapterInput{
			Title:       "Final title",
			IsFree:      false,
			PriceCoin:   &price,
			Status:      "published",
			ContentHTML: "<p>final</p>",
		})
	// Chapter 5 was never created, so the manual save path reports not-found
	// rather than silently creating it.
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Create it properly, then update.
	w = doJSON(t, router, http.MethodPost, "/stories/1/volumes/2/chapters", "author-1",
		models.ChapterInput{
			Title:       "Final title",
			IsFree:      true,
			Status:      "published",
			ContentHTML: "<p>final</p>",
		})
	require.Equal(t, http.StatusCreated, w.Code)
	var chapter models.Chapter
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chapter))
	require.NotEmpty(t, chapter.ID)

	// Reading the created chapter works.
	w = doJSON(t, router, http.MethodGet, "/stories/1/volumes/2/chapters/"+chapter.ID, "author-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The "new chapter" draft bucket was cleared by the create.
	w = doJSON(t, router, http.MethodPut, "/stories/1/volumes/2/chapters/"+chapter.ID, "author-1",
		models.ChapterInput{
			Title:       "Final title, revised",
			IsFree:      true,
			Status:      "published",
			ContentHTML: "<p>revised</p>",
		})
	require.Equal(t, http.StatusOK, w.Code)

	// The chapter draft from the start of the test is untouched (different
	// chapter id), but the updated chapter's own slot is clean.
	w = doJSON(t, router, http.MethodGet, "/stories/1/volumes/2/chapters/"+chapter.ID+"/draft", "author-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var draft models.ServerDraft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.False(t, draft.HasDraft)
}

func TestUpdateChapterWrongAuthorRejected(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/stories/1/volumes/2/chapters", "author-1",
		models.ChapterInput{
			Title:       "Mine",
			IsFree:      true,
			ContentHTML: "<p>mine</p>",
		})
	require.Equal(t, http.StatusCreated, w.Code)
	var chapter models.Chapter
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chapter))

	w = doJSON(t, router, http.MethodPut, "/stories/1/volumes/2/chapters/"+chapter.ID, "author-2",
		models.ChapterInput{
			Title:       "Not yours",
			IsFree:      true,
			ContentHTML: "<p>taken</p>",
		})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
