package links

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"support-assistant/internal/contextutil"
)

const titleFetchTimeout = 5 * time.Second

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// TitleFetcher resolves a page title for a URL.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, url string) string
}

type httpTitleFetcher struct {
	client *http.Client
}

// NewTitleFetcher creates a fetcher that follows redirects and parses the page.
func NewTitleFetcher() TitleFetcher {
	return &httpTitleFetcher{
		client: &http.Client{Timeout: titleFetchTimeout},
	}
}

// FetchTitle returns the page title, falling back through <title>, the first
// <h1>, then og:title. On any failure the URL itself is returned.
func (f *httpTitleFetcher) FetchTitle(ctx context.Context, url string) string {
	logger := contextutil.LoggerFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return url
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		logger.DebugContext(ctx, "title fetch failed", "url", url, "error", err)
		return url
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return url
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return url
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return url
}
