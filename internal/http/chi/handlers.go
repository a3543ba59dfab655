package chi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/pingback/pingback"
	"github.com/marcelsud/pingback/pingback/fetch"
	"github.com/rs/zerolog"
)

// Inspect walks every link of a page, so it gets more room than a single exchange
const requestTimeout = 2 * time.Minute

// Options wires the pingback API
type Options struct {
	Fetcher  fetch.Fetcher
	Observer pingback.Observer

	// Pingbacks serves /v1/pingbacks, nil answers 503
	Pingbacks  pingback.Reader
	OnVerified pingback.VerifiedFunc

	// EndpointURL is advertised in X-Pingback on every response when set
	EndpointURL string
	Metrics     http.Handler
	Logger      zerolog.Logger
}

// Handlers sets up the pingback API routes
func Handlers(opt Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(opt.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	if opt.EndpointURL != "" {
		r.Use(advertise(opt.EndpointURL))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if opt.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opt.Metrics)
	}

	// Every method reaches the endpoint, non POST calls get a fault back
	r.Handle("/xmlrpc", xmlrpcEndpoint(opt))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/inspect", postInspect(opt).ServeHTTP)
		r.Get("/discover", getDiscover(opt).ServeHTTP)
		r.Get("/pingbacks", getPingbacks(opt.Pingbacks).ServeHTTP)
		r.Get("/pingbacks/{id}", getPingback(opt.Pingbacks).ServeHTTP)
	})

	return r
}

// advertise sets the X-Pingback header so pages served here accept pingbacks
func advertise(endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Pingback", endpoint)
			next.ServeHTTP(w, r)
		})
	}
}

// newPingback creates the per-request protocol instance
func newPingback(r *http.Request, opt Options) *pingback.Pingback {
	return pingback.New(opt.Fetcher,
		pingback.WithLogger(httplog.LogEntry(r.Context())),
		pingback.WithObserver(opt.Observer),
		pingback.WithHost(hostContext(r)),
	)
}

// hostContext derives the site context from the request, honouring a TLS terminating proxy
func hostContext(r *http.Request) pingback.HostContext {
	return pingback.HostContext{
		Host:   r.Host,
		Secure: r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https"),
	}
}
