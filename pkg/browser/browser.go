// Package browser opens YouTube and share links in the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"slices"
	"strings"
)

// DefaultHosts are the hosts tubeshelf ever needs to open.
var DefaultHosts = []string{
	"youtube.com",
	"youtu.be",
	"youtube-nocookie.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"wa.me",
	"t.me",
}

// Launcher hands a validated URL to the operating system.
type Launcher func(url string) error

// Opener validates URLs against a host allow-list before launching them.
type Opener struct {
	hosts  []string
	launch Launcher
}

// Option configures the Opener.
type Option func(*Opener)

// WithHosts replaces the allowed hosts. Subdomains of an allowed host are
// allowed too.
func WithHosts(hosts ...string) Option {
	return func(o *Opener) {
		o.hosts = hosts
	}
}

// WithLauncher replaces the system launcher (useful for testing).
func WithLauncher(l Launcher) Option {
	return func(o *Opener) {
		o.launch = l
	}
}

// New creates an Opener.
func New(opts ...Option) *Opener {
	o := &Opener{
		hosts:  DefaultHosts,
		launch: systemLaunch,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open opens the specified URL in the default browser.
// It validates the URL before passing it to the system browser to prevent command injection.
func (o *Opener) Open(urlString string) error {
	if err := o.Validate(urlString); err != nil {
		return err
	}
	return o.launch(urlString)
}

// Validate checks scheme and host without opening anything.
func (o *Opener) Validate(urlString string) error {
	if strings.ContainsAny(urlString, " \t\r\n\x00") {
		return fmt.Errorf("invalid URL: contains whitespace or control characters")
	}
	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https allowed)", parsedURL.Scheme)
	}

	host := strings.ToLower(parsedURL.Hostname())
	allowed := slices.ContainsFunc(o.hosts, func(h string) bool {
		return host == h || strings.HasSuffix(host, "."+h)
	})
	if !allowed {
		return fmt.Errorf("refusing to open %q: host not allowed", host)
	}
	return nil
}

func systemLaunch(urlString string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", urlString) // #nosec G204 -- URL validated by Opener
	case "darwin":
		cmd = exec.Command("open", urlString) // #nosec G204 -- URL validated by Opener
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", urlString) // #nosec G204 -- URL validated by Opener
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
