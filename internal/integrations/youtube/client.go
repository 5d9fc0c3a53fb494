// internal/integrations/youtube/client.go
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"creator-funnel/internal/verify"
)

// Client talks to the YouTube Data API v3. It satisfies
// verify.ChannelAPI.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type channelListResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			VideoCount string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type searchListResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			PublishedAt time.Time `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	params := url.Values{}
	params.Set("part", "id")
	params.Set("forHandle", handle)

	var resp channelListResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no channel found for handle %s", handle)
	}
	return resp.Items[0].ID, nil
}

func (c *Client) ResolveUsername(ctx context.Context, username string) (string, error) {
	params := url.Values{}
	params.Set("part", "id")
	params.Set("forUsername", username)

	var resp channelListResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no channel found for username %s", username)
	}
	return resp.Items[0].ID, nil
}

func (c *Client) ChannelVideoCount(ctx context.Context, channelID string) (int, error) {
	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", channelID)

	var resp channelListResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return 0, err
	}
	if len(resp.Items) == 0 {
		return 0, fmt.Errorf("channel %s not found", channelID)
	}

	count, err := strconv.Atoi(resp.Items[0].Statistics.VideoCount)
	if err != nil {
		return 0, fmt.Errorf("invalid video count %q: %w", resp.Items[0].Statistics.VideoCount, err)
	}
	return count, nil
}

func (c *Client) RecentVideos(ctx context.Context, channelID string, maxResults int) ([]verify.Video, error) {
	params := url.Values{}
	params.Set("part", "id,snippet")
	params.Set("channelId", channelID)
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))

	var resp searchListResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	videos := make([]verify.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, verify.Video{
			ID:          item.ID.VideoID,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}

func (c *Client) VideoViewCounts(ctx context.Context, videoIDs []string) ([]int64, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", strings.Join(videoIDs, ","))

	var resp videoListResponse
	if err := c.get(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}

	views := make([]int64, 0, len(resp.Items))
	for _, item := range resp.Items {
		count, err := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid view count %q: %w", item.Statistics.ViewCount, err)
		}
		views = append(views, count)
	}
	return views, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
