package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCollector struct {
	stored int64
	err    error
}

func (s stubCollector) Collect(ctx context.Context) (Metrics, error) {
	return Metrics{Stored: s.stored}, s.err
}

func (s stubCollector) GetStoredCount(ctx context.Context) (int64, error) {
	return s.stored, s.err
}

func scrape(t *testing.T, oe *OTelExporter) string {
	t.Helper()

	rec := httptest.NewRecorder()
	oe.ServeHTTP().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestOTelExporter(t *testing.T) {
	t.Run("success - counters are exported", func(t *testing.T) {
		oe, err := NewOTelExporter(nil)
		require.NoError(t, err)
		t.Cleanup(func() { oe.Shutdown(context.Background()) })

		oe.Received(49, false)
		oe.Received(0, true)
		oe.Discovered(true)
		oe.Discovered(false)
		oe.Dispatched()

		out := scrape(t, oe)

		assert.Contains(t, out, "pingback_received_total")
		assert.Contains(t, out, `pingback_fault_code="49"`)
		assert.Contains(t, out, `pingback_verified="true"`)
		assert.Contains(t, out, `pingback_endpoint_found="false"`)
		assert.Contains(t, out, "pingback_dispatched_total")
		assert.Contains(t, out, "go_goroutines")
		assert.NotContains(t, out, "pingback_verified_stored")
	})

	t.Run("success - stored gauge reads the collector", func(t *testing.T) {
		oe, err := NewOTelExporter(stubCollector{stored: 7})
		require.NoError(t, err)
		t.Cleanup(func() { oe.Shutdown(context.Background()) })

		out := scrape(t, oe)

		assert.Regexp(t, `pingback_verified_stored(\{[^}]*\})? 7`, out)
	})

	t.Run("collector failure does not break the scrape", func(t *testing.T) {
		oe, err := NewOTelExporter(stubCollector{err: errors.New("redis down")})
		require.NoError(t, err)
		t.Cleanup(func() { oe.Shutdown(context.Background()) })

		rec := httptest.NewRecorder()
		oe.ServeHTTP().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		assert.Equal(t, 200, rec.Code)
		assert.NotRegexp(t, `pingback_verified_stored(\{[^}]*\})? \d`, rec.Body.String())
	})

	t.Run("shutdown", func(t *testing.T) {
		oe, err := NewOTelExporter(nil)
		require.NoError(t, err)

		assert.NoError(t, oe.Shutdown(context.Background()))
	})
}

func TestRedisCollector_NewRedisCollector(t *testing.T) {
	collector := NewRedisCollector(nil)

	assert.NotNil(t, collector)
}
