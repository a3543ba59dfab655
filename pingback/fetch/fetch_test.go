package fetch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/marcelsud/pingback/pingback/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(t *testing.T, opts ...fetch.FetcherOption) *fetch.HTTPFetcher {
	t.Helper()

	f, err := fetch.NewHTTPFetcher(opts...)
	require.NoError(t, err)
	return f
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("success - get with header lines", func(t *testing.T) {
		var accept string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accept = r.Header.Get("Accept")
			w.Header().Set("X-Pingback", "http://example.com/xmlrpc")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html>hi</html>"))
		}))
		defer srv.Close()

		res := newFetcher(t).Fetch(ctx, srv.URL)

		require.NoError(t, res.Err)
		assert.Equal(t, "application/xml", accept)
		assert.Equal(t, "<html>hi</html>", res.Body)
		require.NotEmpty(t, res.Headers)
		assert.Equal(t, "HTTP/1.1 200 OK", res.Headers[0])
		assert.Contains(t, res.Headers, "X-Pingback: http://example.com/xmlrpc")
		assert.Contains(t, res.Headers, "Content-Type: text/html; charset=utf-8")
	})

	t.Run("success - non 2xx still returns headers and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		res := newFetcher(t).Fetch(ctx, srv.URL)

		require.NoError(t, res.Err)
		assert.Equal(t, "HTTP/1.1 404 Not Found", res.Headers[0])
		assert.Equal(t, "gone\n", res.Body)
	})

	t.Run("success - post with payload and headers", func(t *testing.T) {
		var method, ctype string
		var payload []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			ctype = r.Header.Get("Content-Type")
			payload, _ = io.ReadAll(r.Body)
		}))
		defer srv.Close()

		res := newFetcher(t).Fetch(ctx, srv.URL,
			fetch.WithMethod(http.MethodPost),
			fetch.WithHeader("Content-Type", "text/xml"),
			fetch.WithBody([]byte("<methodCall/>")),
		)

		require.NoError(t, res.Err)
		assert.Equal(t, http.MethodPost, method)
		assert.Equal(t, "text/xml", ctype)
		assert.Equal(t, "<methodCall/>", string(payload))
	})

	t.Run("success - empty reply is not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		res := newFetcher(t).Fetch(ctx, srv.URL, fetch.WithMethod(http.MethodPost))

		require.NoError(t, res.Err)
		assert.Equal(t, "HTTP/1.1 204 No Content", res.Headers[0])
		assert.Empty(t, res.Body)
	})

	t.Run("success - body is decoded to utf-8", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
			w.Write([]byte{'c', 'a', 'f', 0xe9})
		}))
		defer srv.Close()

		res := newFetcher(t).Fetch(ctx, srv.URL)

		require.NoError(t, res.Err)
		assert.Equal(t, "café", res.Body)
	})

	t.Run("success - redirects are followed", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("moved here"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		res := newFetcher(t).Fetch(ctx, srv.URL+"/old")

		require.NoError(t, res.Err)
		assert.Equal(t, "moved here", res.Body)
	})

	t.Run("error - redirect loop", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, r.URL.Path+"x", http.StatusFound)
		}))
		defer srv.Close()

		res := newFetcher(t).Fetch(ctx, srv.URL+"/")

		require.Error(t, res.Err)
		assert.Contains(t, res.Err.Error(), "stopped after 10 redirects")
		assert.Empty(t, res.Headers)
		assert.Empty(t, res.Body)
	})

	t.Run("success - self signed certificates are accepted", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("secure"))
		}))
		defer srv.Close()

		res := newFetcher(t).Fetch(ctx, srv.URL)

		require.NoError(t, res.Err)
		assert.Equal(t, "secure", res.Body)
	})

	t.Run("success - oversized bodies are truncated", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte(strings.Repeat("a", fetch.MaxBodySize+100)))
		}))
		defer srv.Close()

		res := newFetcher(t).Fetch(ctx, srv.URL)

		require.NoError(t, res.Err)
		assert.Len(t, res.Body, fetch.MaxBodySize)
	})

	t.Run("error - unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		res := newFetcher(t).Fetch(ctx, url)

		require.Error(t, res.Err)
		assert.Nil(t, res.Headers)
		assert.Empty(t, res.Body)
	})

	t.Run("error - invalid url", func(t *testing.T) {
		res := newFetcher(t).Fetch(ctx, "http://bad host/")

		require.Error(t, res.Err)
		assert.Contains(t, res.Err.Error(), "creating request")
	})

	t.Run("error - cancelled while rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		f := newFetcher(t, fetch.WithRateLimit(0.001))

		first := f.Fetch(ctx, srv.URL)
		require.NoError(t, first.Err)

		cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		second := f.Fetch(cctx, srv.URL)

		require.Error(t, second.Err)
		assert.Contains(t, second.Err.Error(), "rate limiter")
	})
}
