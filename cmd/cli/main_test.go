package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marcelsud/pingback/pingback"
	"github.com/marcelsud/pingback/pingback/fetch"
	"github.com/marcelsud/pingback/pingback/xmlrpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()

	fetcher, err := fetch.NewHTTPFetcher()
	require.NoError(t, err)
	return &Context{Context: context.Background(), fetcher: fetcher, logger: zerolog.Nop()}
}

func TestPingCommand(t *testing.T) {
	t.Run("error - remote fault keeps the server message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(xmlrpc.EncodeFault(17, "The source URL does not contain a link to the target URL, and so cannot be used as a source."))
		}))
		defer srv.Close()

		cmd := &pingCommand{Endpoint: srv.URL, Source: "http://a.example/", Target: "http://b.example/"}
		err := cmd.Run(newTestContext(t))

		var fault pingback.Fault
		require.True(t, errors.As(err, &fault))
		assert.Equal(t, 17, fault.Code)
		assert.Equal(t, "The source URL does not contain a link to the target URL, and so cannot be used as a source.", fault.Message)
	})

	t.Run("error - empty reply fails to decode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		cmd := &pingCommand{Endpoint: srv.URL, Source: "http://a.example/", Target: "http://b.example/"}
		err := cmd.Run(newTestContext(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding response")
	})

	t.Run("success - acknowledgement", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(xmlrpc.EncodeSuccess("http://a.example/", "http://b.example/"))
		}))
		defer srv.Close()

		cmd := &pingCommand{Endpoint: srv.URL, Source: "http://a.example/", Target: "http://b.example/"}

		assert.NoError(t, cmd.Run(newTestContext(t)))
	})
}
