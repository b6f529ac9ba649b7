package indexer

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	minChunkSize = 50
	maxChunkSize = 1000 // Max runes per chunk
	chunkOverlap = 150  // Overlap in runes when splitting plain text
)

// MarkdownChunker chunks markdown content using goldmark AST parsing.
type MarkdownChunker struct {
	parser goldmark.Markdown
}

// NewMarkdownChunker creates a new markdown chunker.
func NewMarkdownChunker() *MarkdownChunker {
	return &MarkdownChunker{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// ChunkMarkdown parses markdown content and returns the title and chunks.
// Chunks follow the heading hierarchy with size constraints applied.
func (c *MarkdownChunker) ChunkMarkdown(content []byte, filename string) (title string, chunks []Chunk, err error) {
	if len(content) == 0 {
		title = titleFromFilename(filename)
		return title, []Chunk{}, nil
	}

	reader := text.NewReader(content)
	doc := c.parser.Parser().Parse(reader)

	title = extractTitle(doc, content, filename)
	chunks = c.buildChunks(doc, content, title)
	chunks = applySizeConstraints(chunks)

	return title, chunks, nil
}

// ChunkText splits plain text into overlapping windows. Used for .txt files.
func ChunkText(content []byte, filename string) (string, []Chunk) {
	title := titleFromFilename(filename)
	body := strings.TrimSpace(string(content))
	if body == "" {
		return title, []Chunk{}
	}

	runes := []rune(body)
	if len(runes) <= maxChunkSize {
		return title, []Chunk{{Index: 0, HeadingPath: title, Text: body}}
	}

	var chunks []Chunk
	start := 0
	index := 0
	for start < len(runes) {
		end := start + maxChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		// Prefer breaking at a paragraph or sentence boundary
		window := string(runes[start:end])
		if end < len(runes) {
			if p := strings.LastIndex(window, "\n\n"); p > maxChunkSize/2 {
				end = start + p + 2
			} else if p := strings.LastIndex(window, ". "); p > maxChunkSize/2 {
				end = start + p + 2
			}
		}

		chunks = append(chunks, Chunk{
			Index:       index,
			HeadingPath: title,
			Text:        strings.TrimSpace(string(runes[start:end])),
		})
		index++

		if end >= len(runes) {
			break
		}
		start = end - chunkOverlap
		if start < 0 {
			start = 0
		}
	}

	return title, chunks
}

// extractTitle extracts the document title: the first level-1 heading, the
// first level-2 heading if no level 1, then the filename.
func extractTitle(doc ast.Node, content []byte, filename string) string {
	var firstH1, firstH2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok {
			headingText := nodeText(heading, content)
			if heading.Level == 1 && firstH1 == "" {
				firstH1 = headingText
			} else if heading.Level == 2 && firstH2 == "" && firstH1 == "" {
				firstH2 = headingText
			}
			if firstH1 != "" {
				return ast.WalkStop, nil
			}
		}

		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	if firstH2 != "" {
		return firstH2
	}
	return titleFromFilename(filename)
}

// titleFromFilename strips the extension and capitalizes words.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// buildChunks walks the AST and starts a new chunk at every heading.
func (c *MarkdownChunker) buildChunks(doc ast.Node, content []byte, docTitle string) []Chunk {
	var chunks []Chunk
	var current *Chunk
	var headingStack []headingInfo
	chunkIndex := 0

	flush := func() {
		if current != nil && strings.TrimSpace(current.Text) != "" {
			chunks = append(chunks, *current)
			chunkIndex++
		}
		current = nil
	}

	appendText := func(s string) {
		if current == nil {
			// Content before the first heading falls under the document title
			current = &Chunk{Index: chunkIndex, HeadingPath: docTitle}
		}
		current.Text += s
	}

	newline := func() {
		if current != nil && current.Text != "" && !strings.HasSuffix(current.Text, "\n") {
			current.Text += "\n"
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			flush()
			for len(headingStack) > 0 && headingStack[len(headingStack)-1].level >= node.Level {
				headingStack = headingStack[:len(headingStack)-1]
			}
			headingStack = append(headingStack, headingInfo{
				level: node.Level,
				text:  nodeText(node, content),
			})
			current = &Chunk{Index: chunkIndex, HeadingPath: headingPath(headingStack)}
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			appendText(string(node.Segment.Value(content)))
			return ast.WalkContinue, nil

		case *ast.String:
			appendText(string(node.Value))
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			newline()
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				appendText(string(seg.Value(content)))
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			newline()
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				appendText(string(seg.Value(content)))
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.List, *ast.ListItem:
			newline()
			return ast.WalkContinue, nil

		default:
			// Table rows from the table extension are flattened with pipes
			kindName := n.Kind().String()
			if kindName == "TableRow" || kindName == "TableHeader" {
				newline()
				appendText(tableRowText(n, content) + "\n")
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})

	flush()

	if len(chunks) == 0 {
		chunks = append(chunks, Chunk{
			Index:       0,
			HeadingPath: docTitle,
			Text:        string(content),
		})
	}

	return chunks
}

type headingInfo struct {
	level int
	text  string
}

// headingPath renders the heading stack as "Heading1 > Heading2 > Heading3".
func headingPath(stack []headingInfo) string {
	parts := make([]string, len(stack))
	for i, h := range stack {
		parts[i] = h.text
	}
	return strings.Join(parts, " > ")
}

// nodeText extracts the plain text content of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// tableRowText extracts a table row's cells joined with pipe separators.
func tableRowText(row ast.Node, content []byte) string {
	var b strings.Builder
	cells := 0

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind().String() == "TableCell" {
			if cells > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(nodeText(node, content))
			cells++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return b.String()
}

// applySizeConstraints merges tiny chunks forward and splits oversized ones.
// Size is measured in runes.
func applySizeConstraints(chunks []Chunk) []Chunk {
	if len(chunks) == 0 {
		return chunks
	}

	var result []Chunk
	i := 0
	for i < len(chunks) {
		current := chunks[i]

		// Merge with the next chunk while the current one is below the minimum
		for utf8.RuneCountInString(current.Text) < minChunkSize && i+1 < len(chunks) {
			next := chunks[i+1]
			merged := current.Text + "\n\n" + next.Text
			if utf8.RuneCountInString(merged) > maxChunkSize {
				break
			}
			current.Text = merged
			i++
		}

		if utf8.RuneCountInString(current.Text) > maxChunkSize {
			result = append(result, splitChunk(current)...)
		} else {
			result = append(result, current)
		}
		i++
	}

	for i := range result {
		result[i].Index = i
	}
	return result
}

// splitChunk splits an oversized chunk, preferring paragraph then sentence
// boundaries, falling back to a hard split.
func splitChunk(chunk Chunk) []Chunk {
	runes := []rune(chunk.Text)
	if len(runes) <= maxChunkSize {
		return []Chunk{chunk}
	}

	var splits []Chunk
	start := 0
	for start < len(runes) {
		end := start + maxChunkSize
		if end >= len(runes) {
			splits = append(splits, Chunk{
				HeadingPath: chunk.HeadingPath,
				Text:        string(runes[start:]),
			})
			break
		}

		window := string(runes[start:end])
		splitPoint := end
		if p := strings.LastIndex(window, "\n\n"); p != -1 {
			splitPoint = start + p + 2
		} else if p := strings.LastIndex(window, "\n"); p != -1 {
			splitPoint = start + p + 1
		} else if p := strings.LastIndex(window, ". "); p != -1 {
			splitPoint = start + p + 2
		}

		splits = append(splits, Chunk{
			HeadingPath: chunk.HeadingPath,
			Text:        string(runes[start:splitPoint]),
		})
		start = splitPoint
	}

	for i := range splits {
		splits[i].Index = chunk.Index + i
	}
	return splits
}
