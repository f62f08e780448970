package catalog

import (
	"math"
	"testing"
	"time"

	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixture() []youtube.Video {
	return []youtube.Video{
		{ID: "oldest", Title: "Intro to Go", ChannelID: "UC1", ChannelTitle: "Tinkerers", PublishedAt: now.Add(-3 * time.Hour), DurationSeconds: 120, ViewCount: 50, LikeCount: 9},
		{ID: "newest", Title: "Rust vs Go", ChannelID: "UC2", ChannelTitle: "Crabs", PublishedAt: now.Add(-1 * time.Hour), DurationSeconds: 1500, ViewCount: 900, LikeCount: 1},
		{ID: "middle", Title: "Cooking pasta", Description: "a GO-TO recipe", ChannelID: "UC3", ChannelTitle: "Kitchen", PublishedAt: now.Add(-2 * time.Hour), DurationSeconds: 300, ViewCount: 10, LikeCount: 40},
		{ID: "edge", Title: "Twenty minutes", ChannelID: "UC1", ChannelTitle: "Tinkerers", PublishedAt: now.Add(-4 * time.Hour), DurationSeconds: 1200, ViewCount: 5, LikeCount: 5},
	}
}

func ids(videos []youtube.Video) []string {
	out := make([]string, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []youtube.Video, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotIDs)
		}
	}
}

func TestAC200_Browse_ShowsNewestVideosFirst(t *testing.T) {
	assertIDs(t, Apply(fixture(), Query{}), "newest", "middle", "oldest", "edge")
}

func TestAC200_Browse_DoesNotModifyInput(t *testing.T) {
	videos := fixture()
	_ = Apply(videos, Query{Sort: SortViews})

	assertIDs(t, videos, "oldest", "newest", "middle", "edge")
}

func TestAC201_Browse_SortsByRequestedKey(t *testing.T) {
	testCases := []struct {
		key  SortKey
		want []string
	}{
		{SortViews, []string{"newest", "oldest", "middle", "edge"}},
		{SortLikes, []string{"middle", "oldest", "edge", "newest"}},
		{SortDurationShort, []string{"oldest", "middle", "edge", "newest"}},
		{SortDurationLong, []string{"newest", "edge", "middle", "oldest"}},
		{SortDate, []string{"newest", "middle", "oldest", "edge"}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.key), func(t *testing.T) {
			assertIDs(t, Apply(fixture(), Query{Sort: tc.key}), tc.want...)
		})
	}
}

func TestAC202_Browse_FiltersByDurationBucket(t *testing.T) {
	for _, v := range Apply(fixture(), Query{Duration: DurationShort}) {
		if v.DurationSeconds >= 300 {
			t.Errorf("short videos must be under 300s, got %s with %ds", v.ID, v.DurationSeconds)
		}
	}
	for _, v := range Apply(fixture(), Query{Duration: DurationLong}) {
		if v.DurationSeconds <= 1200 {
			t.Errorf("long videos must be over 1200s, got %s with %ds", v.ID, v.DurationSeconds)
		}
	}

	assertIDs(t, Apply(fixture(), Query{Duration: DurationShort}), "oldest")
	assertIDs(t, Apply(fixture(), Query{Duration: DurationMedium}), "middle", "edge")
	assertIDs(t, Apply(fixture(), Query{Duration: DurationLong}), "newest")
}

func TestAC203_Browse_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	// "go" matches two titles and one description
	assertIDs(t, Apply(fixture(), Query{Text: "  GO "}), "newest", "middle", "oldest")
	// channel title match
	assertIDs(t, Apply(fixture(), Query{Text: "kitchen"}), "middle")
	assertIDs(t, Apply(fixture(), Query{Text: "nothing matches"}))
}

func TestAC204_Browse_FiltersByChannel(t *testing.T) {
	assertIDs(t, Apply(fixture(), Query{Channel: "UC1"}), "oldest", "edge")
	assertIDs(t, Apply(fixture(), Query{Channel: "all"}), "newest", "middle", "oldest", "edge")
}

func TestAC205_Browse_FiltersByView(t *testing.T) {
	favorites := []string{"edge", "middle", "not-loaded"}
	watchLater := []string{"newest"}

	assertIDs(t, Apply(fixture(), Query{View: ViewFavorites, Favorites: favorites}), "middle", "edge")
	assertIDs(t, Apply(fixture(), Query{View: ViewWatchLater, WatchLater: watchLater}), "newest")
	assertIDs(t, Apply(fixture(), Query{View: ViewFavorites}))
}

func TestAC206_Browse_CombinesFilters(t *testing.T) {
	got := Apply(fixture(), Query{Channel: "UC1", Duration: DurationMedium, Text: "twenty", Sort: SortViews})
	assertIDs(t, got, "edge")
}

func TestAC207_Browse_HandlesEmptyListGracefully(t *testing.T) {
	got := Apply(nil, Query{})

	if got == nil {
		t.Fatal("result should be an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no videos, got %d", len(got))
	}
}

func TestAC208_Browse_LoadMoreGrowsThePage(t *testing.T) {
	videos := Apply(fixture(), Query{})

	first, more := Page(videos, 1, 3)
	assertIDs(t, first, "newest", "middle", "oldest")
	if !more {
		t.Error("a fourth video remains, more should be true")
	}

	second, more := Page(videos, 2, 3)
	if len(second) != 4 || more {
		t.Errorf("second page should show all 4 videos with nothing left, got %d (more=%v)", len(second), more)
	}

	all, more := Page(videos, 1, 0)
	if len(all) != 4 || more {
		t.Error("size 0 should disable paging")
	}

	huge, more := Page(videos, math.MaxInt/2, 12)
	if len(huge) != 4 || more {
		t.Errorf("a page far past the end should show everything, got %d (more=%v)", len(huge), more)
	}
}

func TestAC209_Channels_ListsDistinctChannelsInOrder(t *testing.T) {
	got := Channels(fixture())

	want := []ChannelOption{{"UC1", "Tinkerers"}, {"UC2", "Crabs"}, {"UC3", "Kitchen"}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestAC210_ChannelStats_MostVideosFirst(t *testing.T) {
	got := ChannelStats(fixture())

	if len(got) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(got))
	}
	if got[0].ID != "UC1" || got[0].Count != 2 {
		t.Errorf("expected UC1 with 2 videos first, got %+v", got[0])
	}
}

func TestParsers_RejectUnknownValues(t *testing.T) {
	if _, err := ParseSortKey("random"); err == nil {
		t.Error("unknown sort key should be rejected")
	}
	if _, err := ParseDurationBucket("tiny"); err == nil {
		t.Error("unknown duration bucket should be rejected")
	}
	if _, err := ParseView("later"); err == nil {
		t.Error("unknown view should be rejected")
	}

	if k, _ := ParseSortKey(""); k != SortDate {
		t.Errorf("empty sort should default to date, got %q", k)
	}
	if d, _ := ParseDurationBucket("any"); d != DurationAny {
		t.Errorf("'any' should mean all durations, got %q", d)
	}
	if v, _ := ParseView("watchLater"); v != ViewWatchLater {
		t.Errorf("watchLater should map to watch-later, got %q", v)
	}
}
