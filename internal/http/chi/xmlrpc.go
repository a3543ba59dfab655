package chi

import (
	"io"
	"net/http"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/pingback/pingback"
)

// maxCallSize caps an inbound XML-RPC document
const maxCallSize = 1 << 20

/* xmlrpcEndpoint handles ANY /xmlrpc
 * Faults and acknowledgements both go out as 200 with an XML body, the
 * outcome lives in the document
 */
func xmlrpcEndpoint(opt Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := httplog.LogEntry(r.Context())

		// An oversized or unreadable body is handled like a malformed one
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallSize))
		if err != nil {
			logger.Warn().Err(err).Msg("reading xml-rpc body")
			body = nil
		}
		defer r.Body.Close()

		p := newPingback(r, opt)
		req := pingback.Request{
			Method:      r.Method,
			Body:        body,
			HostContext: hostContext(r),
		}
		if err := p.Listen(r.Context(), req, opt.OnVerified); err != nil {
			logger.Info().Err(err).Msg("pingback rejected")
		}

		w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		if err := p.SendResponse(w); err != nil {
			logger.Error().Err(err).Msg("writing xml-rpc response")
		}
	})
}
