package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/gauthierbraillon/tubeshelf/internal/format"
)

const (
	defaultBaseURL = "https://www.googleapis.com"

	// MaxResults is the page size ceiling of the search and videos endpoints.
	MaxResults = 50
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetry sets how many attempts a request gets on transport and 5xx
// failures, and the first backoff interval.
func WithRetry(tries uint, initial time.Duration) ClientOption {
	return func(c *Client) {
		c.maxTries = tries
		c.retryInterval = initial
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client is a YouTube Data API client authenticated with an API key.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    HTTPClient
	limiter       *rate.Limiter
	maxTries      uint
	retryInterval time.Duration
	logger        *slog.Logger
}

// NewClient creates a new YouTube API client using the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		limiter:       rate.NewLimiter(rate.Limit(10), 1),
		maxTries:      3,
		retryInterval: 500 * time.Millisecond,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchChannel retrieves a channel's snippet.
func (c *Client) FetchChannel(ctx context.Context, channelID string) (Channel, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", channelID)

	body, err := c.doRequest(ctx, "channels", params)
	if err != nil {
		return Channel{}, err
	}

	var response channelsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Channel{}, fmt.Errorf("failed to parse channels response: %w", err)
	}
	if len(response.Items) == 0 {
		return Channel{}, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	item := response.Items[0]
	return Channel{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		Thumbnail:   item.Snippet.Thumbnails.best(),
	}, nil
}

// FetchChannelVideos retrieves a channel's most recent uploads with full
// details, newest first.
func (c *Client) FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet,id")
	params.Set("channelId", channelID)
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(clampResults(limit)))

	results, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []Video{}, nil
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}

	return c.FetchVideos(ctx, ids...)
}

// FetchVideos retrieves full details for the given video IDs. Unknown IDs
// are silently absent from the result.
func (c *Client) FetchVideos(ctx context.Context, ids ...string) ([]Video, error) {
	videos := make([]Video, 0, len(ids))

	for start := 0; start < len(ids); start += MaxResults {
		end := min(start+MaxResults, len(ids))

		params := url.Values{}
		params.Set("part", "snippet,contentDetails,statistics")
		params.Set("id", strings.Join(ids[start:end], ","))

		batch, err := c.listVideos(ctx, params)
		if err != nil {
			return nil, err
		}
		videos = append(videos, batch...)
	}

	return videos, nil
}

// FetchVideo retrieves a single video, returning ErrVideoNotFound when the
// ID does not resolve.
func (c *Client) FetchVideo(ctx context.Context, id string) (Video, error) {
	videos, err := c.FetchVideos(ctx, id)
	if err != nil {
		return Video{}, err
	}
	if len(videos) == 0 {
		return Video{}, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}
	return videos[0], nil
}

// Search runs a keyword search across all of YouTube.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", opts.Query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(clampResults(opts.Max)))
	if opts.Order != "" {
		params.Set("order", opts.Order)
	}
	if opts.Duration != "" && opts.Duration != "any" {
		params.Set("videoDuration", opts.Duration)
	}

	return c.search(ctx, params)
}

// Trending retrieves the most popular chart, optionally for one region.
func (c *Client) Trending(ctx context.Context, regionCode string, limit int) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("chart", "mostPopular")
	params.Set("maxResults", strconv.Itoa(clampResults(limit)))
	if regionCode != "" {
		params.Set("regionCode", strings.ToUpper(regionCode))
	}

	return c.listVideos(ctx, params)
}

// NewSince lists a channel's uploads published after the given instant.
func (c *Client) NewSince(ctx context.Context, channelID string, after time.Time, limit int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("part", "snippet,id")
	params.Set("channelId", channelID)
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(clampResults(limit)))
	params.Set("publishedAfter", after.UTC().Format(time.RFC3339))

	return c.search(ctx, params)
}

func (c *Client) search(ctx context.Context, params url.Values) ([]SearchResult, error) {
	body, err := c.doRequest(ctx, "search", params)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]SearchResult, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ID.VideoID == "" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		results = append(results, SearchResult{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    item.Snippet.Thumbnails.best(),
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  publishedAt,
		})
	}

	return results, nil
}

func (c *Client) listVideos(ctx context.Context, params url.Values) ([]Video, error) {
	body, err := c.doRequest(ctx, "videos", params)
	if err != nil {
		return nil, err
	}

	var response videosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	videos := make([]Video, 0, len(response.Items))
	for _, item := range response.Items {
		videos = append(videos, item.toVideo())
	}

	return videos, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/youtube/v3/%s?%s", c.baseURL, endpoint, params.Encode())

	operation := func() ([]byte, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, backoff.Permanent(err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			c.logger.Debug("youtube: request failed, retrying", slog.String("endpoint", endpoint), slog.Any("error", err))
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if apiErr := parseAPIError(resp.StatusCode, body); apiErr != nil {
			if apiErr.Temporary() {
				c.logger.Debug("youtube: server error, retrying", slog.String("endpoint", endpoint), slog.Int("status", apiErr.StatusCode))
				return nil, apiErr
			}
			return nil, backoff.Permanent(apiErr)
		}

		return body, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval

	tries := c.maxTries
	if tries == 0 {
		tries = 1
	}

	body, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(tries))
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return nil, permanent.Err
		}
		return nil, err
	}
	return body, nil
}

func clampResults(n int) int {
	if n <= 0 || n > MaxResults {
		return MaxResults
	}
	return n
}

// API response types (private - implementation detail)

type thumbnails struct {
	Default struct {
		URL string `json:"url"`
	} `json:"default"`
	Medium struct {
		URL string `json:"url"`
	} `json:"medium"`
	High struct {
		URL string `json:"url"`
	} `json:"high"`
}

func (t thumbnails) best() string {
	switch {
	case t.High.URL != "":
		return t.High.URL
	case t.Medium.URL != "":
		return t.Medium.URL
	default:
		return t.Default.URL
	}
}

type channelsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			Thumbnails  thumbnails `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string     `json:"title"`
			Description  string     `json:"description"`
			ChannelID    string     `json:"channelId"`
			ChannelTitle string     `json:"channelTitle"`
			PublishedAt  string     `json:"publishedAt"`
			Thumbnails   thumbnails `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string     `json:"title"`
		Description  string     `json:"description"`
		ChannelID    string     `json:"channelId"`
		ChannelTitle string     `json:"channelTitle"`
		PublishedAt  string     `json:"publishedAt"`
		Thumbnails   thumbnails `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
		LikeCount string `json:"likeCount"`
	} `json:"statistics"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

func (item videoItem) toVideo() Video {
	publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	viewCount, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
	likeCount, _ := strconv.ParseInt(item.Statistics.LikeCount, 10, 64)

	thumbnail := item.Snippet.Thumbnails.best()
	if thumbnail == "" {
		thumbnail = ThumbnailURL(item.ID)
	}

	return Decorate(Video{
		ID:           item.ID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		Thumbnail:    thumbnail,
		ChannelID:    item.Snippet.ChannelID,
		ChannelTitle: item.Snippet.ChannelTitle,
		PublishedAt:  publishedAt,
		Duration:     item.ContentDetails.Duration,
		ViewCount:    viewCount,
		LikeCount:    likeCount,
	})
}

// Decorate fills the derived fields of v: duration in seconds and the
// display strings for duration, views and likes.
func Decorate(v Video) Video {
	if v.Duration != "" {
		v.DurationSeconds = format.ParseDuration(v.Duration)
		v.DurationText = format.FormatDuration(v.Duration)
	}
	v.ViewCountText = format.FormatNumber(v.ViewCount)
	v.LikeCountText = format.FormatNumber(v.LikeCount)
	return v
}
