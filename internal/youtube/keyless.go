package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultSiteURL = "https://www.youtube.com"

	// BasicTitle and BasicChannel label videos nothing is known about.
	BasicTitle   = "YouTube video"
	BasicChannel = "unavailable"
)

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

// WithSiteURL sets the base URL serving /oembed and /watch (useful for testing).
func WithSiteURL(url string) ResolverOption {
	return func(r *Resolver) {
		r.siteURL = strings.TrimRight(url, "/")
	}
}

// WithResolverHTTPClient sets a custom HTTP client.
func WithResolverHTTPClient(httpClient HTTPClient) ResolverOption {
	return func(r *Resolver) {
		r.httpClient = httpClient
	}
}

// WithResolverLogger sets the logger used when a lookup step fails.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver describes videos without an API key. It asks the oEmbed
// endpoint first, then reads the watch page's metadata tags, and finally
// settles for a basic snapshot built from the ID alone.
type Resolver struct {
	siteURL    string
	httpClient HTTPClient
	logger     *slog.Logger
}

// NewResolver creates a keyless video resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		siteURL:    defaultSiteURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup describes the video with the given ID. It never fails; the worst
// case is BasicVideo(id).
func (r *Resolver) Lookup(ctx context.Context, id string) Video {
	v, err := r.fromOEmbed(ctx, id)
	if err == nil {
		return v
	}
	r.logger.Debug("youtube: oEmbed lookup failed, trying watch page", slog.String("id", id), slog.Any("error", err))

	v, err = r.fromWatchPage(ctx, id)
	if err == nil {
		return v
	}
	r.logger.Debug("youtube: watch page lookup failed", slog.String("id", id), slog.Any("error", err))

	return BasicVideo(id)
}

// BasicVideo is the snapshot stored for a video nothing is known about.
func BasicVideo(id string) Video {
	return Video{
		ID:           id,
		Title:        BasicTitle,
		Thumbnail:    ThumbnailURL(id),
		ChannelTitle: BasicChannel,
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (r *Resolver) fromOEmbed(ctx context.Context, id string) (Video, error) {
	params := url.Values{}
	params.Set("url", WatchURL(id))
	params.Set("format", "json")

	body, err := r.get(ctx, r.siteURL+"/oembed?"+params.Encode())
	if err != nil {
		return Video{}, err
	}
	defer func() { _ = body.Close() }()

	var resp oembedResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return Video{}, fmt.Errorf("failed to parse oEmbed response: %w", err)
	}
	if resp.Title == "" {
		return Video{}, fmt.Errorf("oEmbed response has no title")
	}

	v := BasicVideo(id)
	v.Title = resp.Title
	if resp.AuthorName != "" {
		v.ChannelTitle = resp.AuthorName
	}
	if resp.ThumbnailURL != "" {
		v.Thumbnail = resp.ThumbnailURL
	}
	return Decorate(v), nil
}

func (r *Resolver) fromWatchPage(ctx context.Context, id string) (Video, error) {
	params := url.Values{}
	params.Set("v", id)

	body, err := r.get(ctx, r.siteURL+"/watch?"+params.Encode())
	if err != nil {
		return Video{}, err
	}
	defer func() { _ = body.Close() }()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return Video{}, fmt.Errorf("failed to parse watch page: %w", err)
	}

	title := doc.Find(`meta[property="og:title"]`).AttrOr("content", "")
	if title == "" {
		return Video{}, fmt.Errorf("watch page has no title")
	}

	v := BasicVideo(id)
	v.Title = title
	v.Description = doc.Find(`meta[property="og:description"]`).AttrOr("content", "")
	if img := doc.Find(`meta[property="og:image"]`).AttrOr("content", ""); img != "" {
		v.Thumbnail = img
	}
	if name := doc.Find(`[itemprop="author"] [itemprop="name"]`).AttrOr("content", ""); name != "" {
		v.ChannelTitle = name
	}
	v.ChannelID = doc.Find(`meta[itemprop="channelId"]`).AttrOr("content", "")
	v.Duration = doc.Find(`meta[itemprop="duration"]`).AttrOr("content", "")
	if published := doc.Find(`meta[itemprop="datePublished"]`).AttrOr("content", ""); published != "" {
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			v.PublishedAt = t
		} else if t, err := time.Parse("2006-01-02", published); err == nil {
			v.PublishedAt = t
		}
	}
	return Decorate(v), nil
}

func (r *Resolver) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}
	return resp.Body, nil
}
