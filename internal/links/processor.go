package links

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// previewMarker is the anchor text the model uses to request a title preview.
const previewMarker = "PREVIEW"

var linkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)

// Link is an extracted link destined for the client's button list.
type Link struct {
	URL          string `json:"url"`
	Text         string `json:"text"`
	TitlePreview string `json:"title_preview"`
}

// Processor rewrites markdown links in a response into inline references and
// a separate link list.
type Processor interface {
	Process(ctx context.Context, markdown string) (string, []Link)
}

type linkProcessor struct {
	titles TitleFetcher
}

// NewProcessor creates a processor backed by the given title fetcher.
func NewProcessor(titles TitleFetcher) Processor {
	return &linkProcessor{titles: titles}
}

// Process extracts every markdown link, deduplicates by URL, and replaces each
// inline occurrence with " (<label> - see link below)". Returned links keep
// first-seen order. Anchor text wins over the fetched title, the shortest
// non-marker text winning when a URL appears more than once.
func (p *linkProcessor) Process(ctx context.Context, markdown string) (string, []Link) {
	matches := linkPattern.FindAllStringSubmatchIndex(markdown, -1)
	if len(matches) == 0 {
		return markdown, nil
	}

	type occurrence struct {
		start, end int
		text       string
		url        string
		preview    bool
	}

	var occurrences []occurrence
	textOptions := make(map[string][]string)
	var urlOrder []string

	for _, m := range matches {
		text := strings.TrimSpace(markdown[m[2]:m[3]])
		url := strings.TrimSpace(markdown[m[4]:m[5]])
		occurrences = append(occurrences, occurrence{
			start:   m[0],
			end:     m[1],
			text:    text,
			url:     url,
			preview: strings.EqualFold(text, previewMarker),
		})
		if _, seen := textOptions[url]; !seen {
			urlOrder = append(urlOrder, url)
		}
		textOptions[url] = append(textOptions[url], text)
	}

	// Fetch each unique URL's title once
	titles := make(map[string]string, len(urlOrder))
	for _, url := range urlOrder {
		titles[url] = p.titles.FetchTitle(ctx, url)
	}

	result := make([]Link, 0, len(urlOrder))
	for _, url := range urlOrder {
		title := titles[url]
		buttonText := "View Link"
		if shortest := shortestAnchor(textOptions[url]); shortest != "" {
			buttonText = shortest
		} else if title != url {
			buttonText = title
		}
		result = append(result, Link{
			URL:          url,
			Text:         buttonText,
			TitlePreview: title,
		})
	}

	// Rewrite occurrences back to front so offsets stay valid
	rewritten := markdown
	for i := len(occurrences) - 1; i >= 0; i-- {
		occ := occurrences[i]
		label := occ.text
		if label == "" || occ.preview {
			if title := titles[occ.url]; title != occ.url {
				label = title
			} else {
				label = "link details"
			}
		}
		replacement := fmt.Sprintf(" (%s - see link below)", label)
		rewritten = rewritten[:occ.start] + replacement + rewritten[occ.end:]
	}

	return rewritten, result
}

// shortestAnchor picks the shortest usable anchor text, skipping empty strings
// and the preview marker.
func shortestAnchor(options []string) string {
	shortest := ""
	for _, opt := range options {
		if opt == "" || strings.EqualFold(opt, previewMarker) {
			continue
		}
		if shortest == "" || len(opt) < len(shortest) {
			shortest = opt
		}
	}
	return shortest
}
