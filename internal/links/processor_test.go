package links

import (
	"context"
	"strings"
	"testing"
)

// stubTitles maps URLs to canned titles; unknown URLs echo back the URL.
type stubTitles struct {
	titles map[string]string
	calls  map[string]int
}

func newStubTitles(titles map[string]string) *stubTitles {
	return &stubTitles{titles: titles, calls: make(map[string]int)}
}

func (s *stubTitles) FetchTitle(_ context.Context, url string) string {
	s.calls[url]++
	if t, ok := s.titles[url]; ok {
		return t
	}
	return url
}

func TestProcessor_Process(t *testing.T) {
	titles := newStubTitles(map[string]string{
		"https://example.com/vpn": "VPN Help Center",
	})
	processor := NewProcessor(titles)

	text, links := processor.Process(context.Background(),
		"See [PREVIEW](https://example.com/vpn) for details.")

	if !strings.Contains(text, "(VPN Help Center - see link below)") {
		t.Errorf("Process() text = %q, want title placeholder inline", text)
	}
	if strings.Contains(text, "[PREVIEW]") {
		t.Errorf("Process() text still contains raw link: %q", text)
	}
	if len(links) != 1 {
		t.Fatalf("Process() links = %d, want 1", len(links))
	}
	if links[0].Text != "VPN Help Center" || links[0].TitlePreview != "VPN Help Center" {
		t.Errorf("Process() link = %+v, want title as text and preview", links[0])
	}
}

func TestProcessor_Process_DeduplicatesByURL(t *testing.T) {
	titles := newStubTitles(map[string]string{
		"https://example.com/doc": "Long Document Title",
	})
	processor := NewProcessor(titles)

	input := "Start [Read the full documentation](https://example.com/doc) " +
		"or [docs](https://example.com/doc) or [PREVIEW](https://example.com/doc)."

	text, links := processor.Process(context.Background(), input)

	if len(links) != 1 {
		t.Fatalf("Process() links = %d, want 1 after dedup", len(links))
	}
	if links[0].Text != "docs" {
		t.Errorf("Process() link text = %q, want shortest anchor %q", links[0].Text, "docs")
	}
	if got := titles.calls["https://example.com/doc"]; got != 1 {
		t.Errorf("FetchTitle called %d times, want 1 per unique URL", got)
	}
	// Non-marker occurrences keep their own anchor text inline
	if !strings.Contains(text, "(Read the full documentation - see link below)") {
		t.Errorf("Process() text = %q, want original anchor inline", text)
	}
	if !strings.Contains(text, "(Long Document Title - see link below)") {
		t.Errorf("Process() text = %q, want title for marker occurrence", text)
	}
}

func TestProcessor_Process_TitleFetchFailure(t *testing.T) {
	titles := newStubTitles(nil) // every fetch falls back to the URL
	processor := NewProcessor(titles)

	text, links := processor.Process(context.Background(),
		"Try [PREVIEW](https://unreachable.example/page).")

	if !strings.Contains(text, "(link details - see link below)") {
		t.Errorf("Process() text = %q, want generic placeholder", text)
	}
	if len(links) != 1 {
		t.Fatalf("Process() links = %d, want 1", len(links))
	}
	if links[0].Text != "View Link" {
		t.Errorf("Process() link text = %q, want View Link fallback", links[0].Text)
	}
	if links[0].TitlePreview != "https://unreachable.example/page" {
		t.Errorf("Process() title preview = %q, want URL fallback", links[0].TitlePreview)
	}
}

func TestProcessor_Process_NoLinks(t *testing.T) {
	processor := NewProcessor(newStubTitles(nil))

	text, links := processor.Process(context.Background(), "Plain answer with no links.")
	if text != "Plain answer with no links." {
		t.Errorf("Process() text = %q, want unchanged", text)
	}
	if links != nil {
		t.Errorf("Process() links = %v, want nil", links)
	}
}
