package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gauthierbraillon/tubeshelf/internal/youtube"
)

// Apply runs videos through the view, channel, text and duration filters
// and sorts the survivors. The input slice is never modified and the result
// is never nil.
func Apply(videos []youtube.Video, q Query) []youtube.Video {
	favorites := toSet(q.Favorites)
	watchLater := toSet(q.WatchLater)
	text := strings.ToLower(strings.TrimSpace(q.Text))

	filtered := make([]youtube.Video, 0, len(videos))
	for _, v := range videos {
		switch q.View {
		case ViewFavorites:
			if !favorites[v.ID] {
				continue
			}
		case ViewWatchLater:
			if !watchLater[v.ID] {
				continue
			}
		}
		if q.Channel != "" && q.Channel != "all" && v.ChannelID != q.Channel {
			continue
		}
		if text != "" && !matchesText(v, text) {
			continue
		}
		if !InBucket(v.DurationSeconds, q.Duration) {
			continue
		}
		filtered = append(filtered, v)
	}

	Sort(filtered, q.Sort)
	return filtered
}

// InBucket reports whether a video of the given length belongs to bucket.
func InBucket(seconds int, bucket DurationBucket) bool {
	switch bucket {
	case DurationShort:
		return seconds < ShortMaxSeconds
	case DurationMedium:
		return seconds >= ShortMaxSeconds && seconds <= MediumMaxSeconds
	case DurationLong:
		return seconds > MediumMaxSeconds
	default:
		return true
	}
}

// Sort orders videos in place. Ties keep their relative order.
func Sort(videos []youtube.Video, key SortKey) {
	slices.SortStableFunc(videos, func(a, b youtube.Video) int {
		switch key {
		case SortViews:
			return cmp.Compare(b.ViewCount, a.ViewCount)
		case SortLikes:
			return cmp.Compare(b.LikeCount, a.LikeCount)
		case SortDurationShort:
			return cmp.Compare(a.DurationSeconds, b.DurationSeconds)
		case SortDurationLong:
			return cmp.Compare(b.DurationSeconds, a.DurationSeconds)
		default:
			return b.PublishedAt.Compare(a.PublishedAt)
		}
	})
}

// Page returns the first page*size videos, the way repeated "load more"
// grows the visible list, and whether more remain. page starts at 1.
func Page(videos []youtube.Video, page, size int) ([]youtube.Video, bool) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		return videos, false
	}
	if page >= (len(videos)+size-1)/size {
		return videos, false
	}
	return videos[:page*size], true
}

// Channels lists the distinct channels of videos in first-seen order.
func Channels(videos []youtube.Video) []ChannelOption {
	seen := make(map[string]bool)
	options := make([]ChannelOption, 0)
	for _, v := range videos {
		if seen[v.ChannelID] {
			continue
		}
		seen[v.ChannelID] = true
		options = append(options, ChannelOption{ID: v.ChannelID, Title: v.ChannelTitle})
	}
	return options
}

// ChannelStats counts videos per channel, most prolific channel first.
func ChannelStats(videos []youtube.Video) []ChannelCount {
	index := make(map[string]int)
	stats := make([]ChannelCount, 0)
	for _, v := range videos {
		i, ok := index[v.ChannelID]
		if !ok {
			i = len(stats)
			index[v.ChannelID] = i
			stats = append(stats, ChannelCount{ID: v.ChannelID, Title: v.ChannelTitle})
		}
		stats[i].Count++
	}
	slices.SortStableFunc(stats, func(a, b ChannelCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return stats
}

// Contains reports whether ids holds id.
func Contains(ids []string, id string) bool {
	return slices.Contains(ids, id)
}

func matchesText(v youtube.Video, text string) bool {
	return strings.Contains(strings.ToLower(v.Title), text) ||
		strings.Contains(strings.ToLower(v.ChannelTitle), text) ||
		strings.Contains(strings.ToLower(v.Description), text)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
