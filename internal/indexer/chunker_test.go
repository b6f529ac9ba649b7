package indexer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkMarkdown_TitleExtraction(t *testing.T) {
	chunker := NewMarkdownChunker()

	tests := []struct {
		name      string
		content   string
		filename  string
		wantTitle string
	}{
		{
			name:      "h1 title",
			content:   "# VPN Setup\n\nConnect to the corporate VPN.",
			filename:  "vpn-setup.md",
			wantTitle: "VPN Setup",
		},
		{
			name:      "h2 fallback when no h1",
			content:   "## Printer Troubleshooting\n\nCheck the queue first.",
			filename:  "printers.md",
			wantTitle: "Printer Troubleshooting",
		},
		{
			name:      "filename fallback",
			content:   "Just some text without headings.",
			filename:  "leave-policy.md",
			wantTitle: "Leave Policy",
		},
		{
			name:      "empty file uses filename",
			content:   "",
			filename:  "expense_reports.md",
			wantTitle: "Expense Reports",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, _, err := chunker.ChunkMarkdown([]byte(tt.content), tt.filename)
			if err != nil {
				t.Fatalf("ChunkMarkdown() error = %v", err)
			}
			if title != tt.wantTitle {
				t.Errorf("ChunkMarkdown() title = %q, want %q", title, tt.wantTitle)
			}
		})
	}
}

func TestChunkMarkdown_HeadingPaths(t *testing.T) {
	chunker := NewMarkdownChunker()

	content := `# Network Guide

Intro paragraph about the network that has enough text to stand on its own as a chunk of content.

## WiFi

Connect to the office wireless network using your employee credentials and the corporate SSID.

### Guest Access

Guests use the separate guest network with a rotating password available at reception each week.
`

	_, chunks, err := chunker.ChunkMarkdown([]byte(content), "network.md")
	if err != nil {
		t.Fatalf("ChunkMarkdown() error = %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("ChunkMarkdown() returned no chunks")
	}

	var foundNested bool
	for _, c := range chunks {
		if c.HeadingPath == "Network Guide > WiFi > Guest Access" {
			foundNested = true
			if !strings.Contains(c.Text, "guest network") {
				t.Errorf("nested chunk text = %q, want guest network content", c.Text)
			}
		}
	}
	if !foundNested {
		var paths []string
		for _, c := range chunks {
			paths = append(paths, c.HeadingPath)
		}
		t.Errorf("ChunkMarkdown() heading paths = %v, want nested path present", paths)
	}
}

func TestChunkMarkdown_SizeConstraints(t *testing.T) {
	chunker := NewMarkdownChunker()

	// One oversized section that must be split
	var b strings.Builder
	b.WriteString("# Big Section\n\n")
	for i := 0; i < 60; i++ {
		b.WriteString("This sentence pads the section with repeated filler content for splitting. ")
	}

	_, chunks, err := chunker.ChunkMarkdown([]byte(b.String()), "big.md")
	if err != nil {
		t.Fatalf("ChunkMarkdown() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("ChunkMarkdown() chunks = %d, want split into multiple", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c.Text); n > maxChunkSize {
			t.Errorf("chunk %d size = %d runes, want <= %d", i, n, maxChunkSize)
		}
		if c.Index != i {
			t.Errorf("chunk %d index = %d, want %d", i, c.Index, i)
		}
		if c.HeadingPath != "Big Section" {
			t.Errorf("chunk %d heading path = %q, want Big Section", i, c.HeadingPath)
		}
	}
}

func TestChunkMarkdown_Tables(t *testing.T) {
	chunker := NewMarkdownChunker()

	content := `# Hardware

| Model | RAM |
|-------|-----|
| X1    | 16G |
`

	_, chunks, err := chunker.ChunkMarkdown([]byte(content), "hardware.md")
	if err != nil {
		t.Fatalf("ChunkMarkdown() error = %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("ChunkMarkdown() returned no chunks")
	}
	all := ""
	for _, c := range chunks {
		all += c.Text
	}
	if !strings.Contains(all, "Model | RAM") {
		t.Errorf("ChunkMarkdown() table row missing, got %q", all)
	}
	if !strings.Contains(all, "X1 | 16G") {
		t.Errorf("ChunkMarkdown() data row missing, got %q", all)
	}
}

func TestChunkText(t *testing.T) {
	t.Run("short text single chunk", func(t *testing.T) {
		title, chunks := ChunkText([]byte("Short note."), "onboarding_checklist.txt")
		if title != "Onboarding Checklist" {
			t.Errorf("ChunkText() title = %q, want Onboarding Checklist", title)
		}
		if len(chunks) != 1 || chunks[0].Text != "Short note." {
			t.Errorf("ChunkText() chunks = %v, want single chunk", chunks)
		}
	})

	t.Run("long text overlapping windows", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 80; i++ {
			b.WriteString("Every employee must complete the security training once per year. ")
		}

		_, chunks := ChunkText([]byte(b.String()), "training.txt")
		if len(chunks) < 2 {
			t.Fatalf("ChunkText() chunks = %d, want multiple", len(chunks))
		}
		for i, c := range chunks {
			if n := utf8.RuneCountInString(c.Text); n > maxChunkSize {
				t.Errorf("chunk %d size = %d runes, want <= %d", i, n, maxChunkSize)
			}
			if c.Index != i {
				t.Errorf("chunk %d index = %d, want %d", i, c.Index, i)
			}
		}
	})

	t.Run("empty text", func(t *testing.T) {
		_, chunks := ChunkText([]byte("   \n"), "empty.txt")
		if len(chunks) != 0 {
			t.Errorf("ChunkText() chunks = %d, want 0", len(chunks))
		}
	})
}
