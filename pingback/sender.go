package pingback

import (
	"context"
	"fmt"
	"net/http"

	"github.com/marcelsud/pingback/pingback/fetch"
	"github.com/marcelsud/pingback/pingback/markup"
	"github.com/marcelsud/pingback/pingback/xmlrpc"
)

/* Inspect pings every pingback-enabled page that sourceURL links to
 * Links are handled one at a time in document order. Nothing is reported to
 * the caller: a page that cannot be fetched or parsed, or a link whose
 * discovery or dispatch fails, is skipped. Each dispatch adds a log entry.
 */
func (p *Pingback) Inspect(ctx context.Context, sourceURL string) {
	res := p.fetcher.Fetch(ctx, sourceURL)
	if res.Body == "" {
		p.logger.Debug().Str("source", sourceURL).AnErr("fetch_error", res.Err).Msg("nothing to inspect")
		return
	}

	hrefs, err := markup.Anchors(res.Body)
	if err != nil {
		p.logger.Debug().Str("source", sourceURL).Err(err).Msg("source is not parseable")
		return
	}

	for _, href := range hrefs {
		endpoint, ok := p.Discover(ctx, href)
		if !ok {
			continue
		}
		p.fetcher.Fetch(ctx, endpoint,
			fetch.WithMethod(http.MethodPost),
			fetch.WithHeader("Content-Type", "text/xml"),
			fetch.WithBody(xmlrpc.EncodePing(sourceURL, href)),
		)
		p.observer.Dispatched()
		p.addLog(fmt.Sprintf("Send Pingback from '%s' to '%s' by '%s'", sourceURL, href, endpoint))
	}
}
