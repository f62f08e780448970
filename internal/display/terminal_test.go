package display

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"github.com/gauthierbraillon/tubeshelf/internal/catalog"
	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newFormatter(opts ...Option) *TerminalFormatter {
	opts = append([]Option{WithProfile(termenv.Ascii), WithClock(func() time.Time { return testNow })}, opts...)
	return NewTerminalFormatter(io.Discard, opts...)
}

func sampleVideo() youtube.Video {
	return youtube.Decorate(youtube.Video{
		ID:           "dQw4w9WgXcQ",
		Title:        "How to Build CLI Tools in Go",
		ChannelTitle: "Tech Channel",
		PublishedAt:  testNow.Add(-3 * 24 * time.Hour),
		Duration:     "PT12M5S",
		ViewCount:    1500,
		LikeCount:    2500000,
	})
}

func TestAC800_VideoCard_ShowsTitleChannelAndURL(t *testing.T) {
	output := newFormatter().FormatVideo(sampleVideo(), Marks{})

	for _, want := range []string{
		"How to Build CLI Tools in Go",
		"Tech Channel",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("user should see %q in:\n%s", want, output)
		}
	}
}

func TestAC800_VideoCard_ShowsFormattedStats(t *testing.T) {
	output := newFormatter().FormatVideo(sampleVideo(), Marks{})

	for _, want := range []string{"12:05", "1.5K views", "2.5M likes", "3 days ago"} {
		if !strings.Contains(output, want) {
			t.Errorf("user should see %q in:\n%s", want, output)
		}
	}
}

func TestAC800_VideoCard_HidesZeroStats(t *testing.T) {
	v := youtube.BasicVideo("dQw4w9WgXcQ")

	output := newFormatter().FormatVideo(v, Marks{})

	if strings.Contains(output, "views") || strings.Contains(output, "likes") {
		t.Errorf("videos without statistics should not show counts:\n%s", output)
	}
}

func TestAC801_VideoCard_MarksFavoritesAndWatchLater(t *testing.T) {
	f := newFormatter()

	plain := f.FormatVideo(sampleVideo(), Marks{})
	marked := f.FormatVideo(sampleVideo(), Marks{Favorite: true, WatchLater: true})

	if strings.Contains(plain, "♥") {
		t.Error("unmarked video should not show the favorite marker")
	}
	if !strings.Contains(marked, "♥") || !strings.Contains(marked, "⏱") {
		t.Errorf("marked video should show both markers:\n%s", marked)
	}
}

func TestAC802_Feed_ShowsLoadMoreFooter(t *testing.T) {
	feed := Feed{
		Videos:    []youtube.Video{sampleVideo()},
		Total:     30,
		Page:      1,
		HasMore:   true,
		Favorites: []string{"dQw4w9WgXcQ"},
	}

	output := newFormatter().FormatFeed(feed)

	if !strings.Contains(output, "Showing 1 of 30 videos") {
		t.Errorf("user should see progress through the list:\n%s", output)
	}
	if !strings.Contains(output, "--page 2") {
		t.Errorf("user should see how to load more:\n%s", output)
	}
	if !strings.Contains(output, "♥") {
		t.Error("favorites should be marked in the feed")
	}
}

func TestAC802_Feed_LastPageHasNoLoadMore(t *testing.T) {
	feed := Feed{Videos: []youtube.Video{sampleVideo()}, Total: 1, Page: 1}

	output := newFormatter().FormatFeed(feed)

	if strings.Contains(output, "Load more") {
		t.Errorf("last page should not offer more:\n%s", output)
	}
}

func TestAC802_Feed_ReportsNewVideosAndCacheAge(t *testing.T) {
	feed := Feed{
		Videos:    []youtube.Video{sampleVideo()},
		Total:     1,
		Page:      1,
		NewCount:  3,
		FromCache: true,
		CachedAt:  testNow.Add(-12 * time.Minute),
	}

	output := newFormatter().FormatFeed(feed)

	if !strings.Contains(output, "3 new videos") {
		t.Errorf("user should be told about new videos:\n%s", output)
	}
	if !strings.Contains(output, "cached 12 minutes ago") {
		t.Errorf("user should see the cache age:\n%s", output)
	}
}

func TestAC803_Feed_ShowsEmptyMessage(t *testing.T) {
	output := newFormatter().FormatFeed(Feed{})

	if !strings.Contains(strings.ToLower(output), "no videos") {
		t.Errorf("user should see an empty-list message, got %q", output)
	}
}

func TestAC804_Channels_ListsNamesAndDefaults(t *testing.T) {
	output := newFormatter().FormatChannels([]ChannelLine{
		{ID: "UCaaaaaaaaaaaaaaaaaaaaaa", Title: "Alpha", Default: true},
		{ID: "UCbbbbbbbbbbbbbbbbbbbbbb"},
	})

	if !strings.Contains(output, "Channels (2)") {
		t.Errorf("user should see the channel count:\n%s", output)
	}
	if !strings.Contains(output, "Alpha") || !strings.Contains(output, "(default)") {
		t.Errorf("user should see names and default markers:\n%s", output)
	}
	if strings.Count(output, "UCbbbbbbbbbbbbbbbbbbbbbb") != 2 {
		t.Errorf("unnamed channel should fall back to its ID:\n%s", output)
	}
}

func TestAC805_ChannelStats_AlignsCounts(t *testing.T) {
	output := newFormatter().FormatChannelStats([]catalog.ChannelCount{
		{Title: "Long channel name", Count: 12},
		{Title: "Short", Count: 3},
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected heading plus 2 rows, got:\n%s", output)
	}
	if strings.Index(lines[1], "12") != strings.Index(lines[2], "3") {
		t.Errorf("counts should line up:\n%s", output)
	}
}

func TestAC805_ChannelStats_UntitledChannelShowsID(t *testing.T) {
	output := newFormatter().FormatChannelStats([]catalog.ChannelCount{
		{ID: "UCaaaaaaaaaaaaaaaaaaaaaa", Title: "Alpha", Count: 2},
		{ID: "UCbbbbbbbbbbbbbbbbbbbbbb", Count: 1},
	})

	if !strings.Contains(output, "UCbbbbbbbbbbbbbbbbbbbbbb  1") {
		t.Errorf("a channel without a title should be listed by ID:\n%s", output)
	}
}

func TestAC805_ChannelOptions_ListFilterValues(t *testing.T) {
	output := newFormatter().FormatChannelOptions([]catalog.ChannelOption{
		{ID: "UCaaaaaaaaaaaaaaaaaaaaaa", Title: "Alpha"},
		{ID: "UCbbbbbbbbbbbbbbbbbbbbbb"},
	})

	for _, want := range []string{
		"Filter by channel (2)",
		"Alpha",
		"--channel UCaaaaaaaaaaaaaaaaaaaaaa",
		"https://www.youtube.com/channel/UCbbbbbbbbbbbbbbbbbbbbbb",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q:\n%s", want, output)
		}
	}
	if output := newFormatter().FormatChannelOptions(nil); !strings.Contains(output, "No videos") {
		t.Errorf("empty feed should say so, got %q", output)
	}
}

func TestAC806_Library_ShowsCountOrEmpty(t *testing.T) {
	f := newFormatter()

	if output := f.FormatLibrary(nil); !strings.Contains(output, "empty") {
		t.Errorf("empty library should say so, got %q", output)
	}
	if output := f.FormatLibrary([]youtube.Video{sampleVideo()}); !strings.Contains(output, "My library (1)") {
		t.Errorf("library should show its size:\n%s", output)
	}
}

func TestAC807_SearchResults_TruncateDescriptions(t *testing.T) {
	results := []youtube.SearchResult{{
		ID:          "dQw4w9WgXcQ",
		Title:       "Gopher talk",
		Description: strings.Repeat("long description ", 20),
	}}

	output := newFormatter().FormatSearchResults("gopher", results)

	if !strings.Contains(output, `Results for "gopher"`) || !strings.Contains(output, "...") {
		t.Errorf("unexpected search output:\n%s", output)
	}
	if output := newFormatter().FormatSearchResults("zzz", nil); !strings.Contains(output, "No results") {
		t.Errorf("empty search should say so, got %q", output)
	}
}

func TestAC808_Watch_ShowsLinksAndKeylessNotice(t *testing.T) {
	v := youtube.BasicVideo("dQw4w9WgXcQ")

	output := newFormatter().FormatWatch(v, youtube.WatchURL(v.ID), youtube.EmbedURL(v.ID), true)

	if !strings.Contains(output, "Embed:   https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1") {
		t.Errorf("user should see the embed URL:\n%s", output)
	}
	if !strings.Contains(output, "without an API key") {
		t.Errorf("user should be told details are limited:\n%s", output)
	}
	if strings.Contains(output, "Channel:") {
		t.Errorf("a snapshot without a channel ID has no channel link:\n%s", output)
	}

	v.ChannelID = "UCN6hQCg6tIs5x6CoYLwXlhQ"
	output = newFormatter().FormatWatch(v, youtube.WatchURL(v.ID), youtube.EmbedURL(v.ID), false)
	if !strings.Contains(output, "Channel: https://www.youtube.com/channel/UCN6hQCg6tIs5x6CoYLwXlhQ") {
		t.Errorf("user should see the channel link to subscribe with:\n%s", output)
	}
}

func TestAC809_Share_ListsTargets(t *testing.T) {
	output := newFormatter().FormatShare(sampleVideo(), []ShareLine{
		{Target: "facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=x"},
		{Target: "copy", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	})

	if !strings.Contains(output, "facebook") || !strings.Contains(output, "sharer.php") {
		t.Errorf("user should see the share links:\n%s", output)
	}
}

func TestAC810_Theme_StylesOnlyWithColourProfile(t *testing.T) {
	plain := newFormatter(WithTheme("dark")).FormatVideo(sampleVideo(), Marks{})
	if strings.Contains(plain, "\x1b[") {
		t.Error("ascii profile should not emit escape codes")
	}

	styled := NewTerminalFormatter(io.Discard, WithProfile(termenv.TrueColor), WithTheme("dark")).
		FormatVideo(sampleVideo(), Marks{Favorite: true})
	if !strings.Contains(styled, "\x1b[") {
		t.Error("true colour profile should emit escape codes")
	}
}

func TestAC811_TruncateText(t *testing.T) {
	f := newFormatter()

	truncated := f.TruncateText("This is a very long text that should be truncated", 20)
	if len([]rune(truncated)) > 20 || !strings.HasSuffix(truncated, "...") {
		t.Errorf("expected at most 20 runes ending in ..., got %q", truncated)
	}
	if got := f.TruncateText("Short", 20); got != "Short" {
		t.Errorf("short text should be unchanged, got %q", got)
	}
	if got := f.TruncateText("ééééééééé", 5); got != "éé..." {
		t.Errorf("truncation should respect runes, got %q", got)
	}
}
