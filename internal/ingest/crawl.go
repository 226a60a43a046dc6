package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/josinaldojr/gemini-rag/internal/rag"
	"go.uber.org/zap"
)

// Crawler fetches pages breadth-first from a base URL, staying on its host.
type Crawler struct {
	client *http.Client
	logger *zap.Logger
}

func NewCrawler(client *http.Client, logger *zap.Logger) *Crawler {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{client: client, logger: logger}
}

// FromURL crawls at most maxPages pages. Pages that fail to download are
// logged and skipped.
func (c *Crawler) FromURL(ctx context.Context, baseURL string, maxPages int) ([]rag.Document, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if maxPages <= 0 {
		maxPages = 50
	}

	visited := make(map[string]bool)
	queue := []string{base.String()}
	pages := 0

	var docs []rag.Document
	for len(queue) > 0 && pages < maxPages {
		if err := ctx.Err(); err != nil {
			return docs, err
		}

		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true
		pages++

		body, err := c.fetch(ctx, current)
		if err != nil {
			c.logger.Warn("skipping page", zap.String("url", current), zap.Error(err))
			continue
		}

		text := sanitizeUTF8(strings.TrimSpace(extractMainText(body)))
		if text != "" {
			docs = append(docs, documentsFor(current, urlToTitle(current, base), text)...)
		}

		for _, link := range extractLinks(body, base) {
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	return docs, nil
}

func (c *Crawler) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
