// Package ingest turns raw policy sources (pasted text, URLs) into clean
// text ready for analysis.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// Fetcher extracts the main textual content of a page. Declared as an
// interface so services can be tested without network access.
type Fetcher interface {
	FetchText(url string) (string, error)
}

type ReadabilityFetcher struct {
	Timeout time.Duration
}

func NewReadabilityFetcher() *ReadabilityFetcher {
	return &ReadabilityFetcher{Timeout: 30 * time.Second}
}

func (f *ReadabilityFetcher) FetchText(url string) (string, error) {
	article, err := readability.FromURL(url, f.Timeout)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable content at %s", url)
	}
	return text, nil
}
