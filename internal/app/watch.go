package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

// Watch is a resolved quick-watch request.
type Watch struct {
	Video    youtube.Video
	WatchURL string
	EmbedURL string
	// Keyless is true when details came from the keyless resolver.
	Keyless bool
}

// Resolve turns a video URL or ID into a video. With an API key the Data
// API is asked first; any failure or empty answer falls back to the
// keyless resolver, which always produces at least a basic snapshot.
func (a *App) Resolve(ctx context.Context, input string) (Watch, error) {
	id := youtube.ExtractVideoID(input)
	if id == "" {
		return Watch{}, fmt.Errorf("%w: %q", ErrInvalidVideo, strings.TrimSpace(input))
	}

	w := Watch{WatchURL: youtube.WatchURL(id), EmbedURL: youtube.EmbedURL(id)}

	api, err := a.api(ctx)
	if err == nil {
		v, err := api.FetchVideo(ctx, id)
		if err == nil {
			w.Video = v
			return w, nil
		}
		if ctx.Err() != nil {
			return Watch{}, ctx.Err()
		}
		a.logger.Warn("app: API lookup failed, falling back to keyless", slog.String("id", id), slog.Any("error", err))
	}

	w.Video = a.resolver.Lookup(ctx, id)
	w.Keyless = true
	return w, nil
}

// QuickWatch resolves input for immediate viewing.
func (a *App) QuickWatch(ctx context.Context, input string) (Watch, error) {
	return a.Resolve(ctx, input)
}

// SaveToLibrary resolves input and adds the video to the front of the library.
func (a *App) SaveToLibrary(ctx context.Context, input string) (youtube.Video, error) {
	w, err := a.Resolve(ctx, input)
	if err != nil {
		return youtube.Video{}, err
	}
	if _, err := a.state.AddToLibrary(ctx, w.Video); err != nil {
		return w.Video, err
	}
	return w.Video, nil
}

// Subscribe adds the channel of a quick-watched video to the channel list
// and drops the cached feed so the next load includes it.
func (a *App) Subscribe(ctx context.Context, v youtube.Video) ([]string, error) {
	if v.ChannelID == "" {
		return nil, fmt.Errorf("%w: channel of %s is unknown", ErrNoChannel, v.ID)
	}
	ids, err := a.state.AddChannel(ctx, v.ChannelID)
	if err != nil {
		return nil, err
	}
	if err := a.state.InvalidateCache(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// ShareTarget is a destination a video can be shared to.
type ShareTarget string

const (
	ShareFacebook ShareTarget = "facebook"
	ShareTwitter  ShareTarget = "twitter"
	ShareWhatsApp ShareTarget = "whatsapp"
	ShareTelegram ShareTarget = "telegram"
	ShareCopy     ShareTarget = "copy"
)

// ShareTargets lists every target in display order.
var ShareTargets = []ShareTarget{ShareFacebook, ShareTwitter, ShareWhatsApp, ShareTelegram, ShareCopy}

// ParseShareTarget validates a target name.
func ParseShareTarget(s string) (ShareTarget, error) {
	t := ShareTarget(strings.ToLower(strings.TrimSpace(s)))
	if t == "x" {
		t = ShareTwitter
	}
	if !slices.Contains(ShareTargets, t) {
		return "", fmt.Errorf("unknown share target %q: must be facebook, twitter, whatsapp, telegram or copy", s)
	}
	return t, nil
}

// ShareText is the message shared alongside the link.
func ShareText(v youtube.Video) string {
	return "Watch: " + v.Title
}

// ShareURL builds the link that shares v to target. ShareCopy yields the
// plain watch URL.
func ShareURL(v youtube.Video, target ShareTarget) (string, error) {
	link := youtube.WatchURL(v.ID)
	text := ShareText(v)

	params := url.Values{}
	switch target {
	case ShareFacebook:
		params.Set("u", link)
		return "https://www.facebook.com/sharer/sharer.php?" + params.Encode(), nil
	case ShareTwitter:
		params.Set("url", link)
		params.Set("text", text)
		return "https://twitter.com/intent/tweet?" + params.Encode(), nil
	case ShareWhatsApp:
		params.Set("text", text+" "+link)
		return "https://wa.me/?" + params.Encode(), nil
	case ShareTelegram:
		params.Set("url", link)
		params.Set("text", text)
		return "https://t.me/share/url?" + params.Encode(), nil
	case ShareCopy:
		return link, nil
	}
	return "", fmt.Errorf("unknown share target %q", target)
}

// ShareLink is one resolved share destination.
type ShareLink struct {
	Target ShareTarget
	URL    string
}

// Share finds the video in the feed or library (resolving it otherwise)
// and returns share links for the given targets, or all of them when none
// are given.
func (a *App) Share(ctx context.Context, input string, targets ...ShareTarget) (youtube.Video, []ShareLink, error) {
	id := youtube.ExtractVideoID(input)
	if id == "" {
		return youtube.Video{}, nil, fmt.Errorf("%w: %q", ErrInvalidVideo, strings.TrimSpace(input))
	}

	v, ok, err := a.known(ctx, id)
	if err != nil {
		return youtube.Video{}, nil, err
	}
	if !ok {
		w, err := a.Resolve(ctx, id)
		if err != nil {
			return youtube.Video{}, nil, err
		}
		v = w.Video
	}

	if len(targets) == 0 {
		targets = ShareTargets
	}
	links := make([]ShareLink, 0, len(targets))
	for _, t := range targets {
		u, err := ShareURL(v, t)
		if err != nil {
			return v, nil, err
		}
		links = append(links, ShareLink{Target: t, URL: u})
	}
	return v, links, nil
}

// known looks a video up in the cached feed and the library.
func (a *App) known(ctx context.Context, id string) (youtube.Video, bool, error) {
	cached, _, err := a.state.LoadCache(ctx)
	if err != nil {
		return youtube.Video{}, false, err
	}
	library, err := a.state.Library(ctx)
	if err != nil {
		return youtube.Video{}, false, err
	}
	for _, list := range [][]youtube.Video{cached, library} {
		if i := slices.IndexFunc(list, func(v youtube.Video) bool { return v.ID == id }); i >= 0 {
			return list[i], true, nil
		}
	}
	return youtube.Video{}, false, nil
}
