package ytvideodata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
	ErrInvalidVideoURL    = errors.New("invalid video url")
)

const (
	DefaultDataAPIURL = "https://www.googleapis.com/youtube/v3"
	DefaultOEmbedURL  = "https://www.youtube.com/oembed"
	DefaultPageURL    = "https://youtu.be"
)

type VideoData struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	AuthorName      string `json:"author_name"`
	ThumbnailURL    string `json:"thumbnail_url"`
	DurationSeconds int    `json:"duration_seconds"`
}

type Config struct {
	// APIKey enables the Data API. Without it durations are unknown (0).
	APIKey     string
	DataAPIURL string
	OEmbedURL  string
	PageURL    string
	HTTPClient *http.Client
}

type Client struct {
	apiKey     string
	dataAPIURL string
	oembedURL  string
	pageURL    string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	c := &Client{
		apiKey:     cfg.APIKey,
		dataAPIURL: cfg.DataAPIURL,
		oembedURL:  cfg.OEmbedURL,
		pageURL:    cfg.PageURL,
		httpClient: cfg.HTTPClient,
	}

	if c.dataAPIURL == "" {
		c.dataAPIURL = DefaultDataAPIURL
	}
	if c.oembedURL == "" {
		c.oembedURL = DefaultOEmbedURL
	}
	if c.pageURL == "" {
		c.pageURL = DefaultPageURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return c
}

// Get looks the video up by its 11-character id.
func (c *Client) Get(ctx context.Context, videoID string) (*VideoData, error) {
	if c.apiKey != "" {
		videoData, err := c.getFromDataAPI(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from data api: %w", err)
		}

		return videoData, nil
	}

	videoData, err := c.getWithEmbed(ctx, videoID)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("failed to get video data with embed: %w", err)
		}

		videoData, err = c.getFromPage(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	return videoData, nil
}

var (
	videoIDRe   = regexp.MustCompile(`(?:v=|youtu\.be/|embed/)([A-Za-z0-9_-]{11})`)
	bareVideoRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ParseVideoID extracts the video id from a watch, short or embed url.
// A bare id is accepted as is.
func ParseVideoID(videoURL string) (string, error) {
	if bareVideoRe.MatchString(videoURL) {
		return videoURL, nil
	}

	match := videoIDRe.FindStringSubmatch(videoURL)
	if match == nil {
		return "", ErrInvalidVideoURL
	}

	return match[1], nil
}
