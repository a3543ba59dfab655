package pingback

import (
	"context"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	headerPattern = regexp.MustCompile(`^X-Pingback:[ \t]*(.+)`)
	linkPattern   = regexp.MustCompile(`(?is)<link\s+rel\s?=\s?"pingback"\s+href\s?=\s?"(.+?)"\s*/?>`)

	validate = validator.New()
)

/* Discover finds the pingback endpoint advertised by url
 * The X-Pingback response header wins over a <link rel="pingback"> tag in the
 * body. The bool is false when url is invalid, unreachable or advertises nothing.
 */
func (p *Pingback) Discover(ctx context.Context, url string) (string, bool) {
	endpoint, ok := p.discover(ctx, url)
	p.observer.Discovered(ok)
	return endpoint, ok
}

func (p *Pingback) discover(ctx context.Context, url string) (string, bool) {
	url = Resolve(url, p.host)
	if err := validate.Var(url, "required,url"); err != nil {
		return "", false
	}

	res := p.fetcher.Fetch(ctx, url)
	if len(res.Headers) == 0 {
		p.logger.Debug().Str("url", url).AnErr("fetch_error", res.Err).Msg("discovery got no response")
		return "", false
	}

	for _, line := range res.Headers {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	if m := linkPattern.FindStringSubmatch(res.Body); m != nil {
		return m[1], true
	}
	return "", false
}
