package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/marcelsud/pingback/pingback"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var validate = validator.New()

/* HTTP layer DTOs for the pingback API
 * Separate from domain entities to avoid leaking internal structure
 */

// inspectRequest is the body of POST /v1/inspect
type inspectRequest struct {
	SourceURL string `json:"source_url" validate:"required,http_url"`
}

// inspectResponse lists the pingbacks sent on behalf of the source
type inspectResponse struct {
	SourceURL string           `json:"source_url"`
	Sent      []pingback.Entry `json:"sent"`
}

// discoverResponse tells whether a page accepts pingbacks
type discoverResponse struct {
	URL      string `json:"url"`
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint,omitempty"`
}

// pingbackResponse represents a verified pingback in the API
type pingbackResponse struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Permalink  string    `json:"permalink"`
	Title      string    `json:"title"`
	ReceivedAt time.Time `json:"received_at"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// postInspect handles POST /v1/inspect
func postInspect(opt Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req inspectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			http.Error(w, fmt.Sprintf("invalid source_url: %v", err), http.StatusBadRequest)
			return
		}

		p := newPingback(r, opt)
		p.Inspect(r.Context(), req.SourceURL)

		writeJSON(w, http.StatusOK, inspectResponse{
			SourceURL: req.SourceURL,
			Sent:      p.Log().Entries(),
		})
	})
}

// getDiscover handles GET /v1/discover?url=
func getDiscover(opt Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		url := r.URL.Query().Get("url")
		if url == "" {
			http.Error(w, "url is required", http.StatusBadRequest)
			return
		}

		endpoint, ok := newPingback(r, opt).Discover(r.Context(), url)
		writeJSON(w, http.StatusOK, discoverResponse{
			URL:      url,
			Enabled:  ok,
			Endpoint: endpoint,
		})
	})
}

// getPingbacks handles GET /v1/pingbacks?limit=
func getPingbacks(reader pingback.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			http.Error(w, "no pingback store configured", http.StatusServiceUnavailable)
			return
		}

		limit := defaultListLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = min(n, maxListLimit)
		}

		list, err := reader.List(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		responses := make([]pingbackResponse, 0, len(list))
		for _, v := range list {
			responses = append(responses, toResponse(v))
		}
		writeJSON(w, http.StatusOK, responses)
	})
}

// getPingback handles GET /v1/pingbacks/{id}
func getPingback(reader pingback.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			http.Error(w, "no pingback store configured", http.StatusServiceUnavailable)
			return
		}

		id := chi.URLParam(r, "id")
		v, err := reader.Get(r.Context(), id)
		if errors.Is(err, pingback.ErrNotFound) {
			http.Error(w, fmt.Sprintf("pingback not found: %s", id), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(v))
	})
}

func toResponse(v pingback.Verified) pingbackResponse {
	return pingbackResponse{
		ID:         v.ID,
		Source:     v.Source,
		Permalink:  v.Permalink,
		Title:      v.Title,
		ReceivedAt: v.ReceivedAt,
	}
}
