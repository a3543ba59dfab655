package pingback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/marcelsud/pingback/pingback/markup"
	"github.com/marcelsud/pingback/pingback/xmlrpc"
)

var (
	ErrNoResponse   = errors.New("no response has been set")
	ErrResponseSent = errors.New("response already sent")
)

// Request is the inbound call plus what the hosting environment knows about the site
type Request struct {
	Method string
	Body   []byte
	HostContext
}

// PingCall holds the two params of pingback.ping, source first
type PingCall struct {
	Source    string
	Permalink string
}

// VerifiedFunc is called once a source has been shown to link to permalink
type VerifiedFunc func(ctx context.Context, source, permalink, body string)

/* Listen runs the receive flow for req
 * Checks run in a fixed order and the first one to fail sets a fault
 * response and ends the flow, so later checks never run. On success
 * onVerified is called exactly once before the success response is set.
 * The returned error is the Fault that was sent back, nil on success.
 */
func (p *Pingback) Listen(ctx context.Context, req Request, onVerified VerifiedFunc) error {
	p.host = req.HostContext

	err := p.listen(ctx, req, onVerified)
	if err == nil {
		p.observer.Received(0, true)
		return nil
	}

	var f Fault
	if !errors.As(err, &f) {
		f = Generic
	}
	p.logger.Debug().Int("fault_code", f.Code).Err(err).Msg("pingback rejected")
	p.GenerateErrorResponse(f)
	p.observer.Received(f.Code, false)
	return f
}

func (p *Pingback) listen(ctx context.Context, req Request, onVerified VerifiedFunc) error {
	if req.Method != http.MethodPost {
		return Denied
	}

	root, err := xmlrpc.Decode(req.Body)
	if err != nil {
		p.logger.Debug().Err(err).Msg("malformed call")
		return Generic
	}
	if root.Name != "methodCall" {
		return Generic
	}
	if name := root.Child("methodName"); name == nil || name.Text != xmlrpc.Method {
		return Denied
	}

	call, ok := pingCall(root.Child("params"))
	if !ok {
		return Denied
	}
	call.Source = Resolve(call.Source, p.host)
	call.Permalink = Resolve(call.Permalink, p.host)
	if call.Source == call.Permalink {
		return Generic
	}

	// the page being pinged must be one of ours that accepts pingbacks
	if _, ok := p.Discover(ctx, call.Permalink); !ok {
		return TargetNotUsable
	}

	res := p.fetcher.Fetch(ctx, call.Source)
	if res.Body == "" {
		return TargetDontExist
	}

	hrefs, err := markup.Anchors(res.Body)
	if err != nil {
		return NoLinkURI
	}
	for _, href := range hrefs {
		if Resolve(href, p.host) != call.Permalink {
			continue
		}
		p.addLog("Pingback success from " + call.Source + " to our article " + call.Permalink)
		if onVerified != nil {
			onVerified(ctx, call.Source, call.Permalink, res.Body)
		}
		p.response = xmlrpc.EncodeSuccess(call.Source, call.Permalink)
		return nil
	}
	return NoLinkURI
}

// pingCall reads exactly two non-empty string params
func pingCall(params *xmlrpc.Node) (PingCall, bool) {
	if params == nil || len(params.Children) != 2 {
		return PingCall{}, false
	}

	var urls [2]string
	for i, param := range params.Children {
		if param.Name != "param" {
			return PingCall{}, false
		}
		s, ok := xmlrpc.StringValue(param.Child("value"))
		if !ok || s == "" {
			return PingCall{}, false
		}
		urls[i] = s
	}
	return PingCall{Source: urls[0], Permalink: urls[1]}, true
}

// GenerateErrorResponse sets the response document to the encoding of f
func (p *Pingback) GenerateErrorResponse(f Fault) {
	p.response = xmlrpc.EncodeFault(f.Code, f.Message)
}

// Response returns the current response document, nil before Listen
func (p *Pingback) Response() []byte {
	return p.response
}

// SendResponse writes the response document as the whole output, it must be the last call made on p
func (p *Pingback) SendResponse(w io.Writer) error {
	if p.response == nil {
		return ErrNoResponse
	}
	if p.sent {
		return ErrResponseSent
	}
	p.sent = true
	if _, err := w.Write(p.response); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}
