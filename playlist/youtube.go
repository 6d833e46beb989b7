package playlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// musicCategoryID restricts searches to YouTube's music category.
const musicCategoryID = "10"

// YouTubeClient implements Platform against the YouTube Data API v3 with a
// bearer token. Created playlists are private.
type YouTubeClient struct {
	Endpoint string
	Token    string
	client   *http.Client
}

// NewYouTubeClient builds a client for the given OAuth bearer token.
func NewYouTubeClient(token string) *YouTubeClient {
	return &YouTubeClient{
		Endpoint: "https://www.googleapis.com",
		Token:    token,
		client:   &http.Client{Timeout: time.Minute},
	}
}

type playlistInsertResponse struct {
	ID string `json:"id"`
}

// CreatePlaylist implements Platform.
func (c *YouTubeClient) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	payload := map[string]interface{}{
		"snippet": map[string]string{
			"title":       name,
			"description": description,
		},
		"status": map[string]string{
			"privacyStatus": "private",
		},
	}
	var decoded playlistInsertResponse
	if err := c.post(ctx, "/youtube/v3/playlists?part=snippet,status", payload, &decoded); err != nil {
		return "", err
	}
	if decoded.ID == "" {
		return "", fmt.Errorf("youtube returned no playlist id")
	}
	return decoded.ID, nil
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// SearchMedia implements Platform. The first hit wins; an empty ID means no
// match, which the publisher treats as a per-item miss.
func (c *YouTubeClient) SearchMedia(ctx context.Context, title, artist string) (string, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("q", title+" "+artist)
	query.Set("type", "video")
	query.Set("maxResults", "1")
	query.Set("videoCategoryId", musicCategoryID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.Endpoint+"/youtube/v3/search?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", httpError(resp)
	}
	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}
	if len(decoded.Items) == 0 {
		return "", nil
	}
	return decoded.Items[0].ID.VideoID, nil
}

// AddToPlaylist implements Platform.
func (c *YouTubeClient) AddToPlaylist(ctx context.Context, playlistID, mediaID string) error {
	payload := map[string]interface{}{
		"snippet": map[string]interface{}{
			"playlistId": playlistID,
			"resourceId": map[string]string{
				"kind":    "youtube#video",
				"videoId": mediaID,
			},
		},
	}
	return c.post(ctx, "/youtube/v3/playlistItems?part=snippet", payload, nil)
}

func (c *YouTubeClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return httpError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// WatchURL renders the public playlist URL for an ID.
func WatchURL(playlistID string) string {
	return "https://www.youtube.com/playlist?list=" + playlistID
}

func httpError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(msg))
	if detail != "" {
		return fmt.Errorf("youtube error: %s: %s", resp.Status, detail)
	}
	return fmt.Errorf("youtube error: %s", resp.Status)
}
