package posts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* Loader manages the list of published posts from posts.yaml
 * Keeps the file order so posts are inspected the way they are listed
 */

// Config represents the structure of posts.yaml
type Config struct {
	Posts []PostConfig `yaml:"posts"`
}

// PostConfig represents a single post in the YAML file
type PostConfig struct {
	URL     string `yaml:"url"`
	Title   string `yaml:"title"`
	Enabled *bool  `yaml:"enabled"` // Default: true
}

// Loader holds the loaded posts
type Loader struct {
	posts []*Post
	byURL map[string]*Post
}

// NewLoader creates a new post loader
func NewLoader() *Loader {
	return &Loader{
		byURL: make(map[string]*Post),
	}
}

// Load reads and parses the posts.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading posts file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing posts YAML: %w", err)
	}

	for _, pc := range config.Posts {
		enabled := true
		if pc.Enabled != nil {
			enabled = *pc.Enabled
		}

		post := &Post{
			URL:     pc.URL,
			Title:   pc.Title,
			Enabled: enabled,
		}

		if err := post.Validate(); err != nil {
			return fmt.Errorf("validating post: %w", err)
		}
		if _, exists := l.byURL[post.URL]; exists {
			return fmt.Errorf("duplicate post url: %s", post.URL)
		}

		l.posts = append(l.posts, post)
		l.byURL[post.URL] = post
	}

	return nil
}

// Get retrieves a post by its URL
func (l *Loader) Get(url string) (*Post, error) {
	post, exists := l.byURL[url]
	if !exists {
		return nil, fmt.Errorf("post not found: %s", url)
	}
	return post, nil
}

// List returns all loaded posts in file order
func (l *Loader) List() []*Post {
	posts := make([]*Post, len(l.posts))
	copy(posts, l.posts)
	return posts
}

// Enabled returns the posts that should be inspected
func (l *Loader) Enabled() []*Post {
	var posts []*Post
	for _, post := range l.posts {
		if post.Enabled {
			posts = append(posts, post)
		}
	}
	return posts
}
