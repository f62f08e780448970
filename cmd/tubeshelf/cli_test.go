// Package main tests document the expected behavior of the tubeshelf CLI.
//
// These are BLACK BOX tests - they test the CLI by executing the binary
// and checking stdout/stderr output.
//
// External dependencies mocked:
// - YouTube Data API and oEmbed via TUBESHELF_API_URL / TUBESHELF_SITE_URL
// - Persistent state via TUBESHELF_CONFIG_DIR (file store)
//
// Test requirements (this file serves as documentation):
// - CLI has root command with version info
// - "videos" lists, filters and pages channel videos, using the cache
// - "channels" validates IDs and rejects duplicates
// - "watch" works without an API key
// - "favorites", "library", "share", "key" and "theme" persist state
// - Error messages are helpful
package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

var binaryPath string

// TestMain builds the binary once before running tests.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tubeshelf-test")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "tubeshelf")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = "."
	if err := cmd.Run(); err != nil {
		_ = os.RemoveAll(dir)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// runCLI executes the CLI binary with given arguments and environment.
func runCLI(t *testing.T, env map[string]string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = t.TempDir()

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "YOUTUBE_API_KEY=", "TUBESHELF_STORE=file", "TUBESHELF_RATE_LIMIT=0")
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode = 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("failed to run command: %v", err)
	}

	return outBuf.String(), errBuf.String(), exitCode
}

// testEnv points the CLI at a fresh config dir and the given server.
func testEnv(t *testing.T, serverURL string) map[string]string {
	t.Helper()
	env := map[string]string{"TUBESHELF_CONFIG_DIR": t.TempDir()}
	if serverURL != "" {
		env["TUBESHELF_API_URL"] = serverURL
		env["TUBESHELF_SITE_URL"] = serverURL
	}
	return env
}

// fakeYouTube serves every channel with the same two uploads.
func fakeYouTube(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/youtube/v3/channels":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{
					"id":      r.URL.Query().Get("id"),
					"snippet": map[string]any{"title": "Gopher Channel"},
				}},
			})
		case "/youtube/v3/search":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"id": map[string]any{"videoId": "gophervid01"}, "snippet": map[string]any{"title": "Concurrency in Go"}},
					{"id": map[string]any{"videoId": "gophervid02"}, "snippet": map[string]any{"title": "A long talk"}},
				},
			})
		case "/youtube/v3/videos":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					video("gophervid01", "Concurrency in Go", "2024-06-02T10:00:00Z", "PT4M10S", "1500"),
					video("gophervid02", "A long talk", "2024-06-01T10:00:00Z", "PT1H2M3S", "2500000"),
				},
			})
		case "/oembed":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"title":       "Keyless Title",
				"author_name": "Keyless Author",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func video(id, title, published, duration, views string) map[string]any {
	return map[string]any{
		"id": id,
		"snippet": map[string]any{
			"title":        title,
			"channelId":    "UCgopherchannel000000000",
			"channelTitle": "Gopher Channel",
			"publishedAt":  published,
		},
		"contentDetails": map[string]any{"duration": duration},
		"statistics":     map[string]any{"viewCount": views, "likeCount": "10"},
	}
}

// TestRootCommand_Help verifies help output shows available commands.
func TestRootCommand_Help(t *testing.T) {
	stdout, _, _ := runCLI(t, nil, "--help")
	output := strings.ToLower(stdout)

	expects := []string{"tubeshelf", "usage", "videos", "channels", "watch", "library", "share"}
	for _, want := range expects {
		if !strings.Contains(output, want) {
			t.Errorf("help should contain %q, got:\n%s", want, stdout)
		}
	}
}

// TestRootCommand_Version verifies version output.
func TestRootCommand_Version(t *testing.T) {
	stdout, _, _ := runCLI(t, nil, "--version")

	if !strings.HasPrefix(stdout, "tubeshelf version ") {
		t.Errorf("version should show tubeshelf and version, got:\n%s", stdout)
	}
}

// TestVideosCommand_RequiresAPIKey verifies a helpful error without a key.
func TestVideosCommand_RequiresAPIKey(t *testing.T) {
	_, stderr, exitCode := runCLI(t, testEnv(t, ""), "videos")

	if exitCode == 0 {
		t.Error("should fail without an API key")
	}
	if !strings.Contains(stderr, "tubeshelf key set") {
		t.Errorf("error should explain how to set a key, got:\n%s", stderr)
	}
}

// TestVideosCommand_DisplaysAndCachesVideos verifies videos are fetched once
// and then served from the cache.
func TestVideosCommand_DisplaysAndCachesVideos(t *testing.T) {
	var requests atomic.Int32
	server := fakeYouTube(t, &requests)
	env := testEnv(t, server.URL)
	env["YOUTUBE_API_KEY"] = "test-key"

	stdout, stderr, exitCode := runCLI(t, env, "videos")

	if exitCode != 0 {
		t.Fatalf("videos should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	for _, want := range []string{"Concurrency in Go", "A long talk", "1:02:03", "2.5M views", "Showing 2 of 2 videos"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q, got:\n%s", want, stdout)
		}
	}
	if strings.Index(stdout, "Concurrency in Go") > strings.Index(stdout, "A long talk") {
		t.Error("newest video should be listed first")
	}

	before := requests.Load()
	stdout, _, _ = runCLI(t, env, "videos", "--sort", "views")
	if requests.Load() != before {
		t.Error("second run within 30 minutes should use the cache")
	}
	if strings.Index(stdout, "A long talk") > strings.Index(stdout, "Concurrency in Go") {
		t.Errorf("sorting by views should put the most viewed first, got:\n%s", stdout)
	}
}

// TestVideosCommand_FiltersByDuration verifies duration buckets.
func TestVideosCommand_FiltersByDuration(t *testing.T) {
	server := fakeYouTube(t, nil)
	env := testEnv(t, server.URL)
	env["YOUTUBE_API_KEY"] = "test-key"

	stdout, _, exitCode := runCLI(t, env, "videos", "--duration", "short")

	if exitCode != 0 {
		t.Fatalf("videos should succeed, got exit code %d", exitCode)
	}
	if !strings.Contains(stdout, "Concurrency in Go") || strings.Contains(stdout, "A long talk") {
		t.Errorf("only the short video should be listed, got:\n%s", stdout)
	}
}

// TestVideosCommand_ListsChannelFilterValues verifies --list-channels shows
// the channels present in the feed.
func TestVideosCommand_ListsChannelFilterValues(t *testing.T) {
	server := fakeYouTube(t, nil)
	env := testEnv(t, server.URL)
	env["YOUTUBE_API_KEY"] = "test-key"

	stdout, stderr, exitCode := runCLI(t, env, "videos", "--list-channels")

	if exitCode != 0 {
		t.Fatalf("videos --list-channels should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	for _, want := range []string{"Filter by channel (1)", "Gopher Channel", "--channel UCgopherchannel000000000"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q, got:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Concurrency in Go") {
		t.Errorf("only channels should be listed, got:\n%s", stdout)
	}
}

// TestRefreshCommand_ReportsLoadedChannels verifies the refresh summary.
func TestRefreshCommand_ReportsLoadedChannels(t *testing.T) {
	server := fakeYouTube(t, nil)
	env := testEnv(t, server.URL)
	env["YOUTUBE_API_KEY"] = "test-key"

	stdout, stderr, exitCode := runCLI(t, env, "refresh")

	if exitCode != 0 {
		t.Fatalf("refresh should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	if !strings.Contains(stdout, "Loaded 2 videos from 10 channels.") {
		t.Errorf("refresh should count every loaded channel, got:\n%s", stdout)
	}
}

// TestVideosCommand_RejectsUnknownSort verifies flag validation.
func TestVideosCommand_RejectsUnknownSort(t *testing.T) {
	_, stderr, exitCode := runCLI(t, testEnv(t, ""), "videos", "--sort", "random")

	if exitCode == 0 {
		t.Error("should fail with an unknown sort")
	}
	if !strings.Contains(strings.ToLower(stderr), "sort") {
		t.Errorf("error should mention the sort key, got:\n%s", stderr)
	}
}

// TestChannelsCommand_AddListAndReject verifies channel management.
func TestChannelsCommand_AddListAndReject(t *testing.T) {
	env := testEnv(t, "")

	stdout, stderr, exitCode := runCLI(t, env, "channels", "add", "UCuAXFkgsw1L7xaCfnd5JJOw")
	if exitCode != 0 {
		t.Fatalf("add should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	if !strings.Contains(stdout, "11 channels") {
		t.Errorf("add should report the new count, got:\n%s", stdout)
	}

	_, stderr, exitCode = runCLI(t, env, "channels", "add", "UCuAXFkgsw1L7xaCfnd5JJOw")
	if exitCode == 0 || !strings.Contains(stderr, "already") {
		t.Errorf("duplicate add should fail with a helpful message, got %d:\n%s", exitCode, stderr)
	}

	_, stderr, exitCode = runCLI(t, env, "channels", "add", "not-a-channel")
	if exitCode == 0 || !strings.Contains(strings.ToLower(stderr), "invalid channel") {
		t.Errorf("malformed ID should be rejected, got %d:\n%s", exitCode, stderr)
	}

	stdout, _, _ = runCLI(t, env, "channels", "list")
	if !strings.Contains(stdout, "Channels (11)") || !strings.Contains(stdout, "UCuAXFkgsw1L7xaCfnd5JJOw") {
		t.Errorf("list should show the added channel, got:\n%s", stdout)
	}

	stdout, _, _ = runCLI(t, env, "channels", "reset")
	if !strings.Contains(stdout, "10 default channels") {
		t.Errorf("reset should restore defaults, got:\n%s", stdout)
	}
}

// TestWatchCommand_WorksWithoutAPIKey verifies keyless quick watch.
func TestWatchCommand_WorksWithoutAPIKey(t *testing.T) {
	server := fakeYouTube(t, nil)

	stdout, stderr, exitCode := runCLI(t, testEnv(t, server.URL), "watch", "https://youtu.be/dQw4w9WgXcQ")

	if exitCode != 0 {
		t.Fatalf("watch should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	for _, want := range []string{"Keyless Title", "Keyless Author", "https://www.youtube.com/embed/dQw4w9WgXcQ"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q, got:\n%s", want, stdout)
		}
	}
}

// TestWatchCommand_SubscribesToChannel verifies a quick-watched video's
// channel can be added to the channel list, once.
func TestWatchCommand_SubscribesToChannel(t *testing.T) {
	server := fakeYouTube(t, nil)
	env := testEnv(t, server.URL)
	env["YOUTUBE_API_KEY"] = "test-key"

	stdout, stderr, exitCode := runCLI(t, env, "watch", "gophervid01", "--subscribe")

	if exitCode != 0 {
		t.Fatalf("watch --subscribe should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	for _, want := range []string{"Channel: https://www.youtube.com/channel/UCgopherchannel000000000", "Subscribed to Gopher Channel (11 channels)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q, got:\n%s", want, stdout)
		}
	}

	stdout, _, _ = runCLI(t, env, "channels", "list")
	if !strings.Contains(stdout, "UCgopherchannel000000000") {
		t.Errorf("channel list should include the new channel, got:\n%s", stdout)
	}

	_, stderr, exitCode = runCLI(t, env, "watch", "gophervid01", "--subscribe")
	if exitCode == 0 || !strings.Contains(stderr, "already in your list") {
		t.Errorf("subscribing twice should fail with a helpful message, got %d:\n%s", exitCode, stderr)
	}
}

// TestWatchCommand_RejectsInvalidURL verifies URL validation.
func TestWatchCommand_RejectsInvalidURL(t *testing.T) {
	_, stderr, exitCode := runCLI(t, testEnv(t, ""), "watch", "https://example.com/clip")

	if exitCode == 0 {
		t.Error("should fail for a non-YouTube URL")
	}
	if !strings.Contains(stderr, "not a YouTube video") {
		t.Errorf("error should explain the input is invalid, got:\n%s", stderr)
	}
}

// TestFavoritesCommand_TogglePersists verifies favorites survive across runs.
func TestFavoritesCommand_TogglePersists(t *testing.T) {
	server := fakeYouTube(t, nil)
	env := testEnv(t, server.URL)
	env["YOUTUBE_API_KEY"] = "test-key"

	stdout, _, _ := runCLI(t, env, "favorites", "toggle", "gophervid01")
	if !strings.Contains(stdout, "Added gophervid01 to favorites") {
		t.Errorf("toggle should add, got:\n%s", stdout)
	}

	stdout, _, exitCode := runCLI(t, env, "favorites", "list")
	if exitCode != 0 {
		t.Fatalf("favorites list should succeed, got exit code %d", exitCode)
	}
	if !strings.Contains(stdout, "Concurrency in Go") || strings.Contains(stdout, "A long talk") {
		t.Errorf("favorites should list only the favorite, got:\n%s", stdout)
	}

	stdout, _, _ = runCLI(t, env, "favorites", "toggle", "https://www.youtube.com/watch?v=gophervid01")
	if !strings.Contains(stdout, "Removed gophervid01 from favorites") {
		t.Errorf("second toggle should remove, got:\n%s", stdout)
	}
}

// TestLibraryCommand_AddListClear verifies the library lifecycle.
func TestLibraryCommand_AddListClear(t *testing.T) {
	server := fakeYouTube(t, nil)
	env := testEnv(t, server.URL)

	stdout, stderr, exitCode := runCLI(t, env, "library", "add", "dQw4w9WgXcQ")
	if exitCode != 0 {
		t.Fatalf("add should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	if !strings.Contains(stdout, "Keyless Title") {
		t.Errorf("add should name the saved video, got:\n%s", stdout)
	}

	_, stderr, exitCode = runCLI(t, env, "library", "add", "dQw4w9WgXcQ")
	if exitCode == 0 || !strings.Contains(stderr, "already in your library") {
		t.Errorf("duplicate add should fail, got %d:\n%s", exitCode, stderr)
	}

	stdout, _, _ = runCLI(t, env, "library", "list")
	if !strings.Contains(stdout, "My library (1)") {
		t.Errorf("list should show 1 video, got:\n%s", stdout)
	}

	_, _, exitCode = runCLI(t, env, "library", "clear")
	if exitCode == 0 {
		t.Error("clear without --yes should be refused")
	}

	stdout, _, _ = runCLI(t, env, "library", "clear", "--yes")
	if !strings.Contains(stdout, "Removed 1 videos") {
		t.Errorf("clear should report what it removed, got:\n%s", stdout)
	}
}

// TestShareCommand_PrintsLinks verifies share link output.
func TestShareCommand_PrintsLinks(t *testing.T) {
	server := fakeYouTube(t, nil)

	stdout, _, exitCode := runCLI(t, testEnv(t, server.URL), "share", "dQw4w9WgXcQ", "--to", "telegram")

	if exitCode != 0 {
		t.Fatalf("share should succeed, got exit code %d", exitCode)
	}
	if !strings.Contains(stdout, "https://t.me/share/url?") || !strings.Contains(stdout, "Keyless+Title") {
		t.Errorf("output should contain the telegram link, got:\n%s", stdout)
	}
}

// TestSearchCommand_RequiresAPIKey verifies search is key-only.
func TestSearchCommand_RequiresAPIKey(t *testing.T) {
	_, stderr, exitCode := runCLI(t, testEnv(t, ""), "search", "golang")

	if exitCode == 0 || !strings.Contains(stderr, "API key") {
		t.Errorf("search without key should fail, got %d:\n%s", exitCode, stderr)
	}
}

// TestKeyCommand_MasksSavedKey verifies the key is stored but never echoed.
func TestKeyCommand_MasksSavedKey(t *testing.T) {
	env := testEnv(t, "")

	runCLI(t, env, "key", "set", "abcdef123456")
	stdout, _, _ := runCLI(t, env, "key", "show")

	if strings.Contains(stdout, "abcdef123456") {
		t.Error("key show must not print the full key")
	}
	if !strings.Contains(stdout, "********3456") {
		t.Errorf("key show should print a masked key, got:\n%s", stdout)
	}

	runCLI(t, env, "key", "reset")
	stdout, _, _ = runCLI(t, env, "key", "show")
	if !strings.Contains(stdout, "No API key") {
		t.Errorf("reset should forget the key, got:\n%s", stdout)
	}
}

// TestThemeCommand_Toggles verifies the theme persists.
func TestThemeCommand_Toggles(t *testing.T) {
	env := testEnv(t, "")

	stdout, _, _ := runCLI(t, env, "theme", "toggle")
	if !strings.Contains(stdout, "dark") {
		t.Errorf("first toggle should switch to dark, got:\n%s", stdout)
	}

	stdout, _, _ = runCLI(t, env, "theme")
	if !strings.Contains(stdout, "dark") {
		t.Errorf("theme should persist, got:\n%s", stdout)
	}
}

// TestConfigCommand_ShowsSettings verifies config output.
func TestConfigCommand_ShowsSettings(t *testing.T) {
	env := testEnv(t, "")

	stdout, _, exitCode := runCLI(t, env, "config")

	if exitCode != 0 {
		t.Fatalf("config should succeed, got exit code %d", exitCode)
	}
	if !strings.Contains(stdout, env["TUBESHELF_CONFIG_DIR"]) || !strings.Contains(stdout, "Store:") {
		t.Errorf("config should show the config dir and store, got:\n%s", stdout)
	}
}
