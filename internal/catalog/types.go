// Package catalog filters, sorts and pages the loaded video list.
//
// This package enables tubeshelf to:
// - Narrow the video list by view, channel, free text and duration bucket
// - Order videos by date, views, likes or duration
// - Page through results the way "load more" does
// - Summarise which channels the loaded videos come from
package catalog

import (
	"fmt"
	"strings"
)

// View selects which part of the video list is browsed.
type View string

const (
	ViewAll        View = "all"
	ViewFavorites  View = "favorites"
	ViewWatchLater View = "watch-later"
)

// DurationBucket groups videos by length.
type DurationBucket string

const (
	DurationAny    DurationBucket = "all"
	DurationShort  DurationBucket = "short"  // under 5 minutes
	DurationMedium DurationBucket = "medium" // 5 to 20 minutes
	DurationLong   DurationBucket = "long"   // over 20 minutes
)

// Bucket bounds in seconds.
const (
	ShortMaxSeconds  = 300
	MediumMaxSeconds = 1200
)

// SortKey orders the filtered list.
type SortKey string

const (
	SortDate          SortKey = "date"
	SortViews         SortKey = "views"
	SortLikes         SortKey = "likes"
	SortDurationShort SortKey = "duration-short"
	SortDurationLong  SortKey = "duration-long"
)

// Query describes one pass through the pipeline. The zero value lists every
// video newest first.
type Query struct {
	View       View
	Favorites  []string
	WatchLater []string
	Channel    string
	Text       string
	Duration   DurationBucket
	Sort       SortKey
}

// ChannelOption is one entry of the channel filter.
type ChannelOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ChannelCount is the number of loaded videos for one channel.
type ChannelCount struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// ParseView validates a view name. The empty string means ViewAll.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case "", ViewAll:
		return ViewAll, nil
	case ViewFavorites, ViewWatchLater:
		return v, nil
	case "watchlater":
		return ViewWatchLater, nil
	default:
		return "", fmt.Errorf("invalid view %q: must be all, favorites or watch-later", s)
	}
}

// ParseDurationBucket validates a duration bucket name. The empty string
// and "any" mean DurationAny.
func ParseDurationBucket(s string) (DurationBucket, error) {
	switch d := DurationBucket(strings.ToLower(strings.TrimSpace(s))); d {
	case "", "any", DurationAny:
		return DurationAny, nil
	case DurationShort, DurationMedium, DurationLong:
		return d, nil
	default:
		return "", fmt.Errorf("invalid duration %q: must be all, short, medium or long", s)
	}
}

// ParseSortKey validates a sort key. The empty string means SortDate.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "", SortDate:
		return SortDate, nil
	case SortViews, SortLikes, SortDurationShort, SortDurationLong:
		return k, nil
	default:
		return "", fmt.Errorf("invalid sort %q: must be date, views, likes, duration-short or duration-long", s)
	}
}
