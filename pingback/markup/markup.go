/*
Package markup extracts links from arbitrary third-party HTML.

Parsing always runs in recovery mode: goquery builds the tree with
golang.org/x/net/html, which applies the HTML5 error recovery rules, so
unclosed tags, stray end tags and similar damage never surface as errors.
The only failure is a document with nothing in it.
*/
package markup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrEmptyDocument = errors.New("empty html document")

// Parse builds a document from body
func Parse(body string) (*goquery.Document, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyDocument
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return doc, nil
}

// Anchors returns the href of every <a> element in document order, "" for anchors without one
func Anchors(body string) ([]string, error) {
	doc, err := Parse(body)
	if err != nil {
		return nil, err
	}

	var hrefs []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	return hrefs, nil
}

// Title returns the trimmed <title> of body, "" when there is none
func Title(body string) string {
	doc, err := Parse(body)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
