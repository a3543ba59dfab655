package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/pingback/posts"
)

/* validate-posts - Standalone CLI tool to validate posts.yaml
 * Usage: go run cmd/validate-posts/main.go [posts.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	postsFile := "posts.yaml"
	if len(os.Args) > 1 {
		postsFile = os.Args[1]
	}

	fmt.Printf("Validating posts file: %s\n", postsFile)
	fmt.Println(strings.Repeat("-", 50))

	loader := posts.NewLoader()
	if err := loader.Load(postsFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	loaded := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d post(s), %d enabled:\n", len(loaded), len(loader.Enabled()))

	for i, post := range loaded {
		fmt.Printf("\n%d. %s\n", i+1, post.URL)
		if post.Title != "" {
			fmt.Printf("   Title:   %s\n", post.Title)
		}
		fmt.Printf("   Enabled: %t\n", post.Enabled)
	}

	fmt.Printf("\n✓ All posts are valid!\n")
}
