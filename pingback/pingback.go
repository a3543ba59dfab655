/*
Package pingback sends and receives pingbacks.

A Pingback value serves one logical operation, either Inspect (send flow) or
Listen (receive flow), and keeps its activity log and response document as
plain fields. Create a fresh value per request and never share one between
goroutines. The Fetcher it wraps may be shared.
*/
package pingback

import (
	"time"

	"github.com/marcelsud/pingback/pingback/fetch"
	"github.com/rs/zerolog"
)

// Observer is told about protocol outcomes, typically to feed metrics
type Observer interface {
	// Received reports the end of a Listen call, code is ignored when verified is true
	Received(code int, verified bool)
	Discovered(found bool)
	Dispatched()
}

type nopObserver struct{}

func (nopObserver) Received(int, bool) {}
func (nopObserver) Discovered(bool)    {}
func (nopObserver) Dispatched()        {}

type Pingback struct {
	fetcher  fetch.Fetcher
	logger   zerolog.Logger
	observer Observer
	now      func() time.Time

	host     HostContext
	log      Log
	response []byte
	sent     bool
}

// Option configures a Pingback
type Option func(*Pingback)

// WithLogger mirrors log entries and diagnostics to logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pingback) {
		p.logger = logger
	}
}

// WithObserver reports outcomes to o
func WithObserver(o Observer) Option {
	return func(p *Pingback) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithHost sets the site context used to resolve local references during Inspect and Discover
func WithHost(host HostContext) Option {
	return func(p *Pingback) {
		p.host = host
	}
}

// WithClock replaces time.Now for log timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Pingback) {
		p.now = now
	}
}

// New creates a Pingback that performs its HTTP exchanges through fetcher
func New(fetcher fetch.Fetcher, opts ...Option) *Pingback {
	p := &Pingback{
		fetcher:  fetcher,
		logger:   zerolog.Nop(),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Log exposes the activity log, read only
func (p *Pingback) Log() *Log {
	return &p.log
}

func (p *Pingback) addLog(msg string) {
	e := p.log.append(p.now(), msg)
	p.logger.Info().Time("logged_at", e.Time).Msg(msg)
}
