// internal/editor/remote.go
package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/utils"
)

// Client talks to the backend draft endpoints on behalf of one authoring
// session. A client without a token is still constructible: every call then
// fails fast and the session degrades to local-only persistence.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a draft API client. baseURL has no trailing slash.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// HasToken reports whether remote persistence is usable at all.
func (c *Client) HasToken() bool {
	return c.token != ""
}

func (c *Client) draftURL(key models.DraftKey) string {
	return fmt.Sprintf("%s/stories/%s/volumes/%s/chapters/%s/draft",
		c.baseURL, key.StoryID, key.VolumeID, key.ChapterID)
}

// FetchDraft loads the server-side draft for the chapter. Any failure is
// returned as-is; callers treat it as "no remote candidate".
func (c *Client) FetchDraft(ctx context.Context, key models.DraftKey) (*models.ServerDraft, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.draftURL(key), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch draft: unexpected status %d", resp.StatusCode)
	}

	var draft models.ServerDraft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// SaveDraft upserts the draft and returns the server's persistence time.
func (c *Client) SaveDraft(ctx context.Context, key models.DraftKey, content string, updatedAtClient time.Time) (time.Time, error) {
	body, err := json.Marshal(models.SaveDraftRequest{
		DraftContent:    content,
		UpdatedAtClient: updatedAtClient,
	})
	if err != nil {
		return time.Time{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.draftURL(key), bytes.NewReader(body))
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("save draft: unexpected status %d", resp.StatusCode)
	}

	var saved models.SaveDraftResponse
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return time.Time{}, err
	}
	return saved.UpdatedAt, nil
}

// DeleteDraft removes the server-side draft. Best-effort cleanup after a
// manual save; callers ignore failures.
func (c *Client) DeleteDraft(ctx context.Context, key models.DraftKey) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.draftURL(key), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete draft: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// SendBeacon fires the unload-time variant of the save: token in the query
// string because the beacon transport cannot set headers, body sent raw,
// result ignored. Advisory only.
func (c *Client) SendBeacon(key models.DraftKey, content string, updatedAtClient time.Time) {
	body, err := json.Marshal(models.SaveDraftRequest{
		DraftContent:    content,
		UpdatedAtClient: updatedAtClient,
	})
	if err != nil {
		return
	}

	beaconURL := c.draftURL(key) + "/beacon?token=" + url.QueryEscape(c.token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, beaconURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.GetLogger().Debug("draft beacon not delivered", map[string]interface{}{
			"key": key.String(),
			"err": err.Error(),
		})
		return
	}
	resp.Body.Close()
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
