package ytvideodata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
)

type dataAPIResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (c *Client) getFromDataAPI(ctx context.Context, videoID string) (*VideoData, error) {
	query := url.Values{}
	query.Set("part", "snippet,contentDetails")
	query.Set("id", videoID)
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dataAPIURL+"/videos?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result dataAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	item := result.Items[0]
	duration, err := ParseDuration(item.ContentDetails.Duration)
	if err != nil {
		return nil, err
	}

	videoData := VideoData{
		ID:              videoID,
		Title:           item.Snippet.Title,
		AuthorName:      item.Snippet.ChannelTitle,
		DurationSeconds: duration,
	}
	for _, size := range []string{"high", "medium", "default"} {
		if thumb, ok := item.Snippet.Thumbnails[size]; ok {
			videoData.ThumbnailURL = thumb.URL
			break
		}
	}

	return &videoData, nil
}

var durationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration converts an ISO-8601 duration such as PT1H2M3S to seconds.
func ParseDuration(iso string) (int, error) {
	match := durationRe.FindStringSubmatch(iso)
	if match == nil || iso == "P" || iso == "PT" {
		return 0, fmt.Errorf("invalid duration %q", iso)
	}

	multipliers := []int{24 * 60 * 60, 60 * 60, 60, 1}
	total := 0
	for i, part := range match[1:] {
		if part == "" {
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", iso, err)
		}
		total += n * multipliers[i]
	}

	return total, nil
}
