package youtube

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingAPIKey is returned when an API call is attempted without a key.
	ErrMissingAPIKey = errors.New("youtube API key is not set")

	// ErrChannelNotFound is returned when a channel ID resolves to nothing.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrVideoNotFound is returned when a video ID resolves to nothing.
	ErrVideoNotFound = errors.New("video not found")
)

// APIError is an error object returned by the YouTube Data API.
type APIError struct {
	StatusCode int
	Message    string
	Reason     string
}

func (e *APIError) Error() string {
	msg := describeStatus(e.StatusCode)
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", msg, e.Message)
	}
	return msg
}

// Temporary reports whether retrying the same request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

var quotaReasons = map[string]bool{
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

// IsQuotaExceeded reports whether err is a quota or rate limit rejection.
func IsQuotaExceeded(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return quotaReasons[apiErr.Reason] || apiErr.StatusCode == http.StatusTooManyRequests
}

type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// parseAPIError extracts the API error object from body. It returns nil when
// the status is OK and the body carries no error object.
func parseAPIError(statusCode int, body []byte) *APIError {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)

	if env.Error == nil {
		if statusCode == http.StatusOK {
			return nil
		}
		return &APIError{StatusCode: statusCode}
	}

	apiErr := &APIError{StatusCode: statusCode, Message: env.Error.Message}
	if statusCode == http.StatusOK && env.Error.Code != 0 {
		apiErr.StatusCode = env.Error.Code
	}
	if len(env.Error.Errors) > 0 {
		apiErr.Reason = env.Error.Errors[0].Reason
	}
	return apiErr
}

func describeStatus(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "YouTube API rejected the request - check the API key and channel IDs"
	case http.StatusUnauthorized:
		return "YouTube API authentication failed - run 'tubeshelf key set' with a valid key"
	case http.StatusForbidden:
		return "YouTube API access denied - the key may be restricted or out of quota"
	case http.StatusNotFound:
		return "YouTube API resource not found"
	case http.StatusTooManyRequests:
		return "YouTube API rate limit exceeded - please try again later"
	case http.StatusServiceUnavailable:
		return "YouTube API temporarily unavailable - please try again in a few minutes"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return "YouTube API server error - please try again later"
	default:
		return fmt.Sprintf("YouTube API error (status %d)", statusCode)
	}
}
