// Package discovery extracts the relative API endpoints linked from an HTML page.
package discovery

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// absolutePrefix marks links that leave the upstream API.
const absolutePrefix = "http"

// Endpoint is a relative path discovered on the upstream root page.
type Endpoint struct {
	Path string `json:"path"`
}

// Discover parses html and returns the relative anchor targets it links to,
// each at most once, in the order they first appear.
func Discover(html string) ([]Endpoint, error) {
	return DiscoverReader(strings.NewReader(html))
}

// DiscoverReader is Discover over a stream.
func DiscoverReader(r io.Reader) ([]Endpoint, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("discovery: parse html: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument walks an already parsed document.
func FromDocument(doc *goquery.Document) []Endpoint {
	endpoints := make([]Endpoint, 0)
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" || strings.HasPrefix(href, absolutePrefix) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		endpoints = append(endpoints, Endpoint{Path: href})
	})

	return endpoints
}

// Paths flattens endpoints into their path strings.
func Paths(endpoints []Endpoint) []string {
	out := make([]string, len(endpoints))
	for i, ep := range endpoints {
		out[i] = ep.Path
	}
	return out
}
