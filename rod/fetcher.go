// Package rod provides a headless Chrome implementation of fmkit.Fetcher.
//
// The fetch runs inside a page opened on the source origin so the request
// carries the browser's own headers, cookies and TLS fingerprint.
package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/fmkit"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout bounds a whole fetch, including the origin navigation.
const DefaultFetchTimeout = 20 * time.Second

// Ensure Fetcher implements fmkit.Fetcher at compile time.
var _ fmkit.Fetcher = (*Fetcher)(nil)

// fetchJS runs a credentialed fetch in page context.
const fetchJS = `async (url) => {
	const res = await fetch(url, {credentials: "include", headers: {"Accept": "text/html,application/xhtml+xml"}});
	return {status: res.status, statusText: res.statusText, body: await res.text()};
}`

// Fetcher retrieves HTML through a headless Chrome page.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	timeout   time.Duration
	userAgent string
	limiter   *rate.Limiter

	mu     sync.Mutex
	closed bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-fetch timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRateLimit spaces fetches to at most r per second with no bursting.
func WithRateLimit(r rate.Limit) Option {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(r, 1)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// LauncherPID returns the process id of the launched browser.
func (f *Fetcher) LauncherPID() int {
	return f.launcher.PID()
}

// Fetch opens the origin of rawURL in a fresh page and fetches rawURL from
// inside it. A non-2xx response or a network failure is returned as
// *fmkit.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return "", fmkit.Errorf(fmkit.EINVALID, "fetcher is closed")
	}

	if err := ctx.Err(); err != nil {
		return "", &fmkit.FetchError{URL: rawURL, Err: err}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", &fmkit.FetchError{URL: rawURL, Err: err}
		}
	}

	origin, err := originOf(rawURL)
	if err != nil {
		return "", &fmkit.FetchError{URL: rawURL, Err: err}
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", &fmkit.FetchError{URL: rawURL, Err: fmt.Errorf("opening page: %w", err)}
	}
	defer page.Close()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", &fmkit.FetchError{URL: rawURL, Err: fmt.Errorf("setting user agent: %w", err)}
		}
	}

	if err := page.Navigate(origin); err != nil {
		return "", &fmkit.FetchError{URL: rawURL, Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return "", &fmkit.FetchError{URL: rawURL, Err: err}
	}

	res, err := page.Eval(fetchJS, rawURL)
	if err != nil {
		return "", &fmkit.FetchError{URL: rawURL, Err: err}
	}

	code := res.Value.Get("status").Int()
	if code < 200 || code > 299 {
		return "", &fmkit.FetchError{
			URL:        rawURL,
			StatusCode: code,
			Status:     statusLine(code, res.Value.Get("statusText").Str()),
		}
	}

	return res.Value.Get("body").Str(), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	err := f.browser.Close()
	f.launcher.Kill()
	return err
}

// originOf returns the scheme and host of rawURL as a root URL.
func originOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("not an absolute URL: %q", rawURL)
	}
	return u.Scheme + "://" + u.Host + "/", nil
}

// statusLine formats a status like net/http does, e.g. "403 Forbidden".
// HTTP/2 responses carry no reason phrase, so the standard text is used.
func statusLine(code int, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		text = http.StatusText(code)
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", code, text))
}
