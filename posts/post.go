package posts

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

/* Post is a page published by this site
 * Its outbound links are the candidates for pingbacks
 */
type Post struct {
	URL     string `validate:"required,http_url"`
	Title   string
	Enabled bool
}

// Validate checks if the post configuration is valid
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid post %q: %w", p.URL, err)
	}
	return nil
}
