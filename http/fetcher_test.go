package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/fmkit"
	fmhttp "github.com/fwojciec/fmkit/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := fmhttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("accepts any 2xx status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNonAuthoritativeInfo)
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		fetcher := fmhttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "ok", html)
	})

	t.Run("sends browser-like headers", func(t *testing.T) {
		t.Parallel()

		var got http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
		}))
		defer server.Close()

		fetcher := fmhttp.NewFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, fmhttp.DefaultUserAgent, got.Get("User-Agent"))
		assert.Contains(t, got.Get("Accept"), "text/html")
		assert.NotEmpty(t, got.Get("Accept-Language"))
		assert.Equal(t, "document", got.Get("Sec-Fetch-Dest"))
		assert.Equal(t, "navigate", got.Get("Sec-Fetch-Mode"))
	})

	t.Run("uses custom user agent", func(t *testing.T) {
		t.Parallel()

		var ua string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua = r.UserAgent()
		}))
		defer server.Close()

		fetcher := fmhttp.NewFetcher(fmhttp.WithUserAgent("fmkit-test/1.0"))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "fmkit-test/1.0", ua)
	})

	t.Run("sends back cookies set by the source", func(t *testing.T) {
		t.Parallel()

		var cookie string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie("session"); err == nil {
				cookie = c.Value
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123", Path: "/"})
		}))
		defer server.Close()

		fetcher := fmhttp.NewFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Empty(t, cookie, "no cookie on first request")

		_, err = fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "abc123", cookie)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := fmhttp.NewFetcher(fmhttp.WithTimeout(10 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)

		var fe *fmkit.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Zero(t, fe.StatusCode)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := fmhttp.NewFetcher()
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns fetch error for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := fmhttp.NewFetcher(fmhttp.WithTimeout(100 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")

		var fe *fmkit.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, fmkit.EUNAVAILABLE, fmkit.ErrorCode(err))
		assert.Equal(t, fe.Err.Error(), fmkit.ErrorMessage(err))
	})

	t.Run("returns status for non-2xx responses", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("<html>Just a moment...</html>"))
		}))
		defer server.Close()

		fetcher := fmhttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)

		assert.Empty(t, html)
		var fe *fmkit.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
		assert.Equal(t, "503 Service Unavailable", fe.Error())
		assert.Equal(t, server.URL, fe.URL)
	})

	t.Run("spaces requests with a rate limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		fetcher := fmhttp.NewFetcher(fmhttp.WithRateLimit(rate.Limit(10)))
		defer fetcher.Close()

		start := time.Now()
		for range 3 {
			_, err := fetcher.Fetch(context.Background(), server.URL)
			require.NoError(t, err)
		}

		assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	})
}
