package pingback

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/pingback/pingback/markup"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Reader.Get for unknown or expired ids
var ErrNotFound = errors.New("pingback not found")

/* Verified is a pingback that passed every check
 * Uses value semantics as it represents data, not behavior
 */
type Verified struct {
	ID         string
	Source     string
	Permalink  string
	Title      string
	Body       string
	ReceivedAt time.Time
}

/* Small, focused interfaces
 * Storage is for publishing verified pingbacks to consumers, it is never
 * consulted to reject a pingback seen before
 */

// Reader provides read operations for verified pingbacks
type Reader interface {
	Get(ctx context.Context, id string) (Verified, error)
	// List returns the newest limit pingbacks, newest first
	List(ctx context.Context, limit int) ([]Verified, error)
}

// Writer provides write operations for verified pingbacks
type Writer interface {
	Store(ctx context.Context, v Verified) (string, error)
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}

// Publish returns a VerifiedFunc storing every verified pingback through w
func Publish(w Writer, logger zerolog.Logger) VerifiedFunc {
	return func(ctx context.Context, source, permalink, body string) {
		v := Verified{
			ID:         uuid.New().String(),
			Source:     source,
			Permalink:  permalink,
			Title:      markup.Title(body),
			Body:       body,
			ReceivedAt: time.Now().UTC(),
		}

		id, err := w.Store(ctx, v)
		if err != nil {
			logger.Error().Err(err).
				Str("source", source).
				Str("permalink", permalink).
				Msg("storing verified pingback")
			return
		}
		logger.Info().Str("id", id).Str("source", source).Str("permalink", permalink).Msg("verified pingback stored")
	}
}
