package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"support-assistant/internal/contextutil"
)

const (
	defaultEndpoint = "https://html.duckduckgo.com/html/"
	maxResults      = 5
	searchTimeout   = 10 * time.Second
)

// Result is a single web search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// WebSearcher runs a web search and formats the hits as LLM context.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type duckDuckGoSearcher struct {
	endpoint string
	client   *http.Client
}

// NewDuckDuckGoSearcher creates a searcher against the DuckDuckGo HTML endpoint.
// An empty endpoint selects the public one.
func NewDuckDuckGoSearcher(endpoint string) WebSearcher {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &duckDuckGoSearcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: searchTimeout},
	}
}

// Search scrapes the HTML results page and returns a formatted context block.
func (s *duckDuckGoSearcher) Search(ctx context.Context, query string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	results, err := s.fetch(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no search results for %q", query)
	}

	logger.DebugContext(ctx, "web search completed", "query", query, "results", len(results))

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("Title: %s\nURL: %s\nSnippet: %s", r.Title, r.URL, r.Snippet))
	}
	return b.String(), nil
}

func (s *duckDuckGoSearcher) fetch(ctx context.Context, query string) ([]Result, error) {
	reqURL := fmt.Sprintf("%s?q=%s", s.endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		anchor := sel.Find("a.result__a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())

		if title == "" || href == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			URL:     resolveRedirect(href),
			Snippet: snippet,
		})
		return len(results) < maxResults
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=... redirect links.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
