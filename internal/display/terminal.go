// Package display provides terminal output formatting for tubeshelf.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/gauthierbraillon/tubeshelf/internal/catalog"
	"github.com/gauthierbraillon/tubeshelf/internal/format"
	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

const separator = " • "

type palette struct {
	accent string
	muted  string
	good   string
}

var palettes = map[string]palette{
	"light": {accent: "#CC0000", muted: "#606060", good: "#2E7D32"},
	"dark":  {accent: "#FF4E45", muted: "#AAAAAA", good: "#81C784"},
}

// Option configures the TerminalFormatter.
type Option func(*TerminalFormatter)

// WithTheme selects the light or dark palette.
func WithTheme(theme string) Option {
	return func(f *TerminalFormatter) {
		if p, ok := palettes[theme]; ok {
			f.palette = p
		}
	}
}

// WithProfile forces a colour profile; termenv.Ascii disables styling.
func WithProfile(p termenv.Profile) Option {
	return func(f *TerminalFormatter) {
		f.profile = &p
	}
}

// WithClock replaces time.Now for relative dates (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(f *TerminalFormatter) {
		f.now = now
	}
}

// TerminalFormatter formats videos and lists for terminal display.
type TerminalFormatter struct {
	out     *termenv.Output
	profile *termenv.Profile
	palette palette
	now     func() time.Time
}

// NewTerminalFormatter creates a formatter styling for the terminal behind w.
func NewTerminalFormatter(w io.Writer, opts ...Option) *TerminalFormatter {
	f := &TerminalFormatter{
		palette: palettes["light"],
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.profile != nil {
		f.out = termenv.NewOutput(w, termenv.WithProfile(*f.profile))
	} else {
		f.out = termenv.NewOutput(w)
	}
	return f
}

func (f *TerminalFormatter) title(s string) string {
	return f.out.String(s).Bold().String()
}

func (f *TerminalFormatter) accent(s string) string {
	return f.out.String(s).Foreground(f.out.Color(f.palette.accent)).String()
}

func (f *TerminalFormatter) muted(s string) string {
	return f.out.String(s).Foreground(f.out.Color(f.palette.muted)).String()
}

func (f *TerminalFormatter) good(s string) string {
	return f.out.String(s).Foreground(f.out.Color(f.palette.good)).String()
}

// Marks flags a video's membership in the user's lists.
type Marks struct {
	Favorite   bool
	WatchLater bool
}

// FormatVideo formats a single video card.
func (f *TerminalFormatter) FormatVideo(v youtube.Video, marks Marks) string {
	var lines []string

	header := f.title(v.Title)
	var badges []string
	if marks.Favorite {
		badges = append(badges, f.accent("♥"))
	}
	if marks.WatchLater {
		badges = append(badges, f.accent("⏱"))
	}
	if len(badges) > 0 {
		header = strings.Join(badges, " ") + " " + header
	}
	lines = append(lines, header)

	meta := []string{v.ChannelTitle}
	if !v.PublishedAt.IsZero() {
		meta = append(meta, f.FormatTimestamp(v.PublishedAt))
	}
	if text := durationText(v); text != "" {
		meta = append(meta, text)
	}
	lines = append(lines, "  "+f.muted(strings.Join(meta, separator)))

	if stats := f.formatStats(v); stats != "" {
		lines = append(lines, "  "+stats)
	}

	lines = append(lines, "  "+youtube.WatchURL(v.ID))

	return strings.Join(lines, "\n") + "\n"
}

func durationText(v youtube.Video) string {
	switch {
	case v.DurationText != "":
		return v.DurationText
	case v.Duration != "":
		return format.FormatDuration(v.Duration)
	}
	return ""
}

// formatStats formats views and likes into a single line.
func (f *TerminalFormatter) formatStats(v youtube.Video) string {
	var parts []string

	views := v.ViewCountText
	if views == "" && v.ViewCount > 0 {
		views = format.FormatNumber(v.ViewCount)
	}
	if views != "" && views != "0" {
		parts = append(parts, views+" views")
	}

	likes := v.LikeCountText
	if likes == "" && v.LikeCount > 0 {
		likes = format.FormatNumber(v.LikeCount)
	}
	if likes != "" && likes != "0" {
		parts = append(parts, likes+" likes")
	}

	return strings.Join(parts, separator)
}

// Feed is one page of the browsable video list.
type Feed struct {
	Videos     []youtube.Video
	Total      int
	Page       int
	HasMore    bool
	Favorites  []string
	WatchLater []string
	FromCache  bool
	CachedAt   time.Time
	NewCount   int
}

// FormatFeed formats the video list with a "load more" footer.
func (f *TerminalFormatter) FormatFeed(feed Feed) string {
	if len(feed.Videos) == 0 {
		return "No videos to display.\n"
	}

	var b strings.Builder
	if feed.NewCount > 0 {
		fmt.Fprintf(&b, "%s\n\n", f.good(fmt.Sprintf("%d new %s since the last refresh", feed.NewCount, plural(feed.NewCount, "video"))))
	}

	cards := make([]string, 0, len(feed.Videos))
	for _, v := range feed.Videos {
		marks := Marks{
			Favorite:   catalog.Contains(feed.Favorites, v.ID),
			WatchLater: catalog.Contains(feed.WatchLater, v.ID),
		}
		cards = append(cards, f.FormatVideo(v, marks))
	}
	b.WriteString(strings.Join(cards, "\n"))

	footer := fmt.Sprintf("Showing %d of %d %s", len(feed.Videos), feed.Total, plural(feed.Total, "video"))
	if feed.FromCache && !feed.CachedAt.IsZero() {
		footer += separator + "cached " + f.formatAge(feed.CachedAt)
	}
	b.WriteString("\n" + f.muted(footer) + "\n")
	if feed.HasMore {
		fmt.Fprintf(&b, "%s\n", f.muted(fmt.Sprintf("Load more with --page %d", feed.Page+1)))
	}
	return b.String()
}

// FormatVideoList formats a plain list of video cards, such as the library
// or the trending chart.
func (f *TerminalFormatter) FormatVideoList(heading string, videos []youtube.Video, empty string) string {
	if len(videos) == 0 {
		return empty + "\n"
	}
	cards := make([]string, 0, len(videos))
	for _, v := range videos {
		cards = append(cards, f.FormatVideo(v, Marks{}))
	}
	return f.title(heading) + "\n\n" + strings.Join(cards, "\n")
}

// FormatLibrary formats the saved library, newest first.
func (f *TerminalFormatter) FormatLibrary(videos []youtube.Video) string {
	return f.FormatVideoList(fmt.Sprintf("My library (%d)", len(videos)), videos, "Your library is empty.")
}

// FormatTrending formats the trending chart.
func (f *TerminalFormatter) FormatTrending(region string, videos []youtube.Video) string {
	heading := "Trending worldwide"
	if region != "" {
		heading = "Trending in " + strings.ToUpper(region)
	}
	return f.FormatVideoList(heading, videos, "No trending videos found.")
}

// FormatSearchResults formats keyword search results.
func (f *TerminalFormatter) FormatSearchResults(query string, results []youtube.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results for %q.\n", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", f.title(fmt.Sprintf("Results for %q", query)))
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n", f.title(r.Title))
		meta := []string{r.ChannelTitle}
		if !r.PublishedAt.IsZero() {
			meta = append(meta, f.FormatTimestamp(r.PublishedAt))
		}
		fmt.Fprintf(&b, "  %s\n", f.muted(strings.Join(meta, separator)))
		if r.Description != "" {
			fmt.Fprintf(&b, "  %s\n", f.TruncateText(r.Description, 100))
		}
		fmt.Fprintf(&b, "  %s\n", youtube.WatchURL(r.ID))
	}
	return b.String()
}

// ChannelLine is one subscribed channel.
type ChannelLine struct {
	ID      string
	Title   string
	Default bool
}

// FormatChannels formats the subscription list.
func (f *TerminalFormatter) FormatChannels(channels []ChannelLine) string {
	if len(channels) == 0 {
		return "No channels subscribed. Add one with 'tubeshelf channels add <id>'.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", f.title(fmt.Sprintf("Channels (%d)", len(channels))))
	for _, ch := range channels {
		name := ch.Title
		if name == "" {
			name = ch.ID
		}
		line := fmt.Sprintf("  %s  %s", name, f.muted(ch.ID))
		if ch.Default {
			line += f.muted(" (default)")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatChannelStats formats per-channel video counts.
func (f *TerminalFormatter) FormatChannelStats(stats []catalog.ChannelCount) string {
	if len(stats) == 0 {
		return "No videos loaded.\n"
	}

	names := make([]string, len(stats))
	width := 0
	for i, s := range stats {
		names[i] = s.Title
		if names[i] == "" {
			names[i] = s.ID
		}
		width = max(width, len([]rune(names[i])))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", f.title("Videos per channel"))
	for i, s := range stats {
		pad := strings.Repeat(" ", width-len([]rune(names[i])))
		fmt.Fprintf(&b, "  %s%s  %s\n", names[i], pad, f.accent(fmt.Sprintf("%d", s.Count)))
	}
	return b.String()
}

// FormatChannelOptions formats the channels present in the loaded feed,
// the values accepted by 'videos --channel'.
func (f *TerminalFormatter) FormatChannelOptions(options []catalog.ChannelOption) string {
	if len(options) == 0 {
		return "No videos loaded.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", f.title(fmt.Sprintf("Filter by channel (%d)", len(options))))
	for _, o := range options {
		name := o.Title
		if name == "" {
			name = o.ID
		}
		fmt.Fprintf(&b, "  %s\n    --channel %s  %s\n", name, o.ID, f.muted(youtube.ChannelURL(o.ID)))
	}
	return b.String()
}

// FormatWatch formats the quick-watch preview.
func (f *TerminalFormatter) FormatWatch(v youtube.Video, watchURL, embedURL string, keyless bool) string {
	var b strings.Builder
	b.WriteString(f.FormatVideo(v, Marks{}))
	if v.Description != "" {
		fmt.Fprintf(&b, "\n  %s\n", f.TruncateText(v.Description, 200))
	}
	fmt.Fprintf(&b, "\n  Watch:   %s\n", watchURL)
	fmt.Fprintf(&b, "  Embed:   %s\n", embedURL)
	if v.ChannelID != "" {
		fmt.Fprintf(&b, "  Channel: %s\n", youtube.ChannelURL(v.ChannelID))
	}
	if keyless {
		fmt.Fprintf(&b, "  %s\n", f.muted("Details fetched without an API key; some fields may be missing."))
	}
	return b.String()
}

// ShareLine is one share destination.
type ShareLine struct {
	Target string
	URL    string
}

// FormatShare formats the share links of a video.
func (f *TerminalFormatter) FormatShare(v youtube.Video, links []ShareLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", f.title("Share: "+v.Title))
	for _, l := range links {
		fmt.Fprintf(&b, "  %-9s %s\n", l.Target, l.URL)
	}
	return b.String()
}

// FormatTimestamp formats a publish date relative to now.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	return format.FormatRelative(t, f.now())
}

func (f *TerminalFormatter) formatAge(t time.Time) string {
	diff := f.now().Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d %s ago", int(diff.Minutes()), plural(int(diff.Minutes()), "minute"))
	default:
		return fmt.Sprintf("%d %s ago", int(diff.Hours()), plural(int(diff.Hours()), "hour"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
