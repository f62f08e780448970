// Package contracts holds sample YouTube responses shaped exactly like the
// real services return them. Tests serve these from fake servers so that
// parsing is checked against the published wire format rather than against
// whatever a test author happened to type.
package contracts

// ChannelListContract is a channels.list response (part=snippet).
const ChannelListContract = `{
  "kind": "youtube#channelListResponse",
  "etag": "etag-channels",
  "pageInfo": {"totalResults": 1, "resultsPerPage": 5},
  "items": [{
    "kind": "youtube#channel",
    "etag": "etag-channel",
    "id": "UCN6hQCg6tIs5x6CoYLwXlhQ",
    "snippet": {
      "title": "Contract Channel",
      "description": "Channel used by contract tests",
      "publishedAt": "2012-03-01T12:00:00Z",
      "thumbnails": {
        "default": {"url": "https://yt3.ggpht.com/default.jpg", "width": 88, "height": 88},
        "medium": {"url": "https://yt3.ggpht.com/medium.jpg", "width": 240, "height": 240},
        "high": {"url": "https://yt3.ggpht.com/high.jpg", "width": 800, "height": 800}
      }
    }
  }]
}`

// SearchListContract is a search.list response (part=snippet,id, type=video).
const SearchListContract = `{
  "kind": "youtube#searchListResponse",
  "etag": "etag-search",
  "nextPageToken": "CAUQAA",
  "regionCode": "US",
  "pageInfo": {"totalResults": 2, "resultsPerPage": 50},
  "items": [
    {
      "kind": "youtube#searchResult",
      "etag": "etag-result-1",
      "id": {"kind": "youtube#video", "videoId": "contract001"},
      "snippet": {
        "publishedAt": "2024-05-20T15:00:00Z",
        "channelId": "UCN6hQCg6tIs5x6CoYLwXlhQ",
        "title": "First contract video",
        "description": "The newest upload",
        "thumbnails": {"high": {"url": "https://i.ytimg.com/vi/contract001/hqdefault.jpg"}},
        "channelTitle": "Contract Channel",
        "liveBroadcastContent": "none",
        "publishTime": "2024-05-20T15:00:00Z"
      }
    },
    {
      "kind": "youtube#searchResult",
      "etag": "etag-result-2",
      "id": {"kind": "youtube#video", "videoId": "contract002"},
      "snippet": {
        "publishedAt": "2024-05-10T09:30:00Z",
        "channelId": "UCN6hQCg6tIs5x6CoYLwXlhQ",
        "title": "Second contract video",
        "description": "An older upload",
        "thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/contract002/mqdefault.jpg"}},
        "channelTitle": "Contract Channel",
        "liveBroadcastContent": "none",
        "publishTime": "2024-05-10T09:30:00Z"
      }
    }
  ]
}`

// VideoListContract is a videos.list response (part=snippet,contentDetails,statistics).
const VideoListContract = `{
  "kind": "youtube#videoListResponse",
  "etag": "etag-videos",
  "pageInfo": {"totalResults": 2, "resultsPerPage": 2},
  "items": [
    {
      "kind": "youtube#video",
      "etag": "etag-video-1",
      "id": "contract001",
      "snippet": {
        "publishedAt": "2024-05-20T15:00:00Z",
        "channelId": "UCN6hQCg6tIs5x6CoYLwXlhQ",
        "title": "First contract video",
        "description": "The newest upload",
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/contract001/default.jpg", "width": 120, "height": 90},
          "high": {"url": "https://i.ytimg.com/vi/contract001/hqdefault.jpg", "width": 480, "height": 360}
        },
        "channelTitle": "Contract Channel",
        "tags": ["go", "contracts"],
        "categoryId": "28",
        "liveBroadcastContent": "none"
      },
      "contentDetails": {
        "duration": "PT1H2M3S",
        "dimension": "2d",
        "definition": "hd",
        "caption": "false",
        "licensedContent": true,
        "projection": "rectangular"
      },
      "statistics": {
        "viewCount": "2500000",
        "likeCount": "1500",
        "favoriteCount": "0",
        "commentCount": "42"
      }
    },
    {
      "kind": "youtube#video",
      "etag": "etag-video-2",
      "id": "contract002",
      "snippet": {
        "publishedAt": "2024-05-10T09:30:00Z",
        "channelId": "UCN6hQCg6tIs5x6CoYLwXlhQ",
        "title": "Second contract video",
        "description": "An older upload",
        "thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/contract002/mqdefault.jpg"}},
        "channelTitle": "Contract Channel",
        "categoryId": "28",
        "liveBroadcastContent": "none"
      },
      "contentDetails": {"duration": "PT45S", "dimension": "2d", "definition": "sd", "caption": "false"},
      "statistics": {"viewCount": "999", "favoriteCount": "0"}
    }
  ]
}`

// QuotaExceededContract is the 403 body returned when the daily quota is spent.
const QuotaExceededContract = `{
  "error": {
    "code": 403,
    "message": "The request cannot be completed because you have exceeded your <a href=\"/youtube/v3/getting-started#quota\">quota</a>.",
    "errors": [{
      "message": "The request cannot be completed because you have exceeded your <a href=\"/youtube/v3/getting-started#quota\">quota</a>.",
      "domain": "youtube.quota",
      "reason": "quotaExceeded"
    }]
  }
}`

// KeyInvalidContract is the 400 body returned for a malformed API key.
const KeyInvalidContract = `{
  "error": {
    "code": 400,
    "message": "API key not valid. Please pass a valid API key.",
    "errors": [{
      "message": "API key not valid. Please pass a valid API key.",
      "domain": "global",
      "reason": "badRequest"
    }],
    "status": "INVALID_ARGUMENT"
  }
}`

// OEmbedContract is a youtube.com/oembed response.
const OEmbedContract = `{
  "title": "Rick Astley - Never Gonna Give You Up (Official Music Video)",
  "author_name": "Rick Astley",
  "author_url": "https://www.youtube.com/@RickAstleyYT",
  "type": "video",
  "height": 113,
  "width": 200,
  "version": "1.0",
  "provider_name": "YouTube",
  "provider_url": "https://www.youtube.com/",
  "thumbnail_height": 360,
  "thumbnail_width": 480,
  "thumbnail_url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
  "html": "<iframe width=\"200\" height=\"113\" src=\"https://www.youtube.com/embed/dQw4w9WgXcQ?feature=oembed\"></iframe>"
}`
