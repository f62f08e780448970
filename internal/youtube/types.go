// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables tubeshelf to:
// - Load recent uploads and channel details for subscribed channels
// - Look up arbitrary videos by ID for quick watch and the library
// - Run keyword searches and fetch the trending chart
// - Describe videos without an API key through oEmbed and page metadata
package youtube

import "time"

// Channel holds the channel details shown next to its videos.
type Channel struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Video represents a YouTube video. It is immutable once fetched and keyed
// by its 11-character ID.
type Video struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Thumbnail       string    `json:"thumbnail"`
	ChannelID       string    `json:"channelId"`
	ChannelTitle    string    `json:"channelTitle"`
	PublishedAt     time.Time `json:"publishedAt"`
	Duration        string    `json:"duration"`
	DurationSeconds int       `json:"durationSeconds"`
	ViewCount       int64     `json:"viewCount"`
	LikeCount       int64     `json:"likeCount"`

	DurationText  string `json:"durationFormatted,omitempty"`
	ViewCountText string `json:"viewCountFormatted,omitempty"`
	LikeCountText string `json:"likeCountFormatted,omitempty"`
}

// URL returns the video's watch page.
func (v Video) URL() string {
	return WatchURL(v.ID)
}

// SearchResult is a video found by keyword search. Search results carry
// only snippet data; statistics need a separate FetchVideos call.
type SearchResult struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Thumbnail    string    `json:"thumbnail"`
	ChannelID    string    `json:"channelId"`
	ChannelTitle string    `json:"channelTitle"`
	PublishedAt  time.Time `json:"publishedAt"`
}

// SearchOptions configures a keyword search.
type SearchOptions struct {
	Query    string
	Order    string // relevance, date, viewCount or rating
	Duration string // any, short, medium or long
	Max      int
}
