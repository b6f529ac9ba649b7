package llm

import (
	"context"
	"fmt"
	"strings"

	"support-assistant/internal/contextutil"
)

// Source is the classifier's verdict on where an answer should come from.
type Source string

const (
	SourceInternalDocs Source = "Internal_Docs"
	SourceWebSearchIT  Source = "Web_Search_IT"
	SourceGreeting     Source = "Greeting"
	SourceMismatch     Source = "TopicMismatch"
	SourceOutOfScope   Source = "OutOfScope"
)

// Classification is the structured result of the initial-analysis call.
type Classification struct {
	Source          Source
	SimplifiedQuery string
}

// RoutingDecision is the structured result of the ticket-assignment call.
type RoutingDecision struct {
	Level     string // "L1" or "L2"
	Priority  string // "Low", "Medium" or "High"
	Reasoning string
	Category  string
}

// relevanceContextBudget caps the snippet text sent to the relevance check.
const relevanceContextBudget = 3000

// Gateway wraps the generative model for the four structured calls the
// conversation engine makes: classification, relevance checking, answer
// drafting and ticket routing. Parse failures never escape as errors where a
// safe default exists; the raw model text is logged for diagnosis instead.
type Gateway struct {
	client *Client
}

// NewGateway creates a gateway around a chat completions client.
func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

// Classify runs the initial-analysis prompt for a query in the given mode
// ("IT" or "HR"). If the model's output cannot be parsed, the query degrades
// to Internal_Docs with the original text as the simplified query.
func (g *Gateway) Classify(ctx context.Context, query, mode string) (Classification, error) {
	logger := contextutil.LoggerFromContext(ctx)

	fallback := Classification{Source: SourceInternalDocs, SimplifiedQuery: query}

	prompt := fmt.Sprintf(initialAnalysisPrompt, query, mode, mode, mode, mode)
	raw, err := g.client.Chat(ctx, prompt)
	if err != nil {
		return fallback, fmt.Errorf("classification call failed: %w", err)
	}

	var parsed struct {
		BestSource      string `json:"best_source"`
		SimplifiedQuery string `json:"simplified_query_for_search"`
	}
	if err := ExtractJSON(raw, &parsed); err != nil {
		logger.WarnContext(ctx, "unparseable classifier output, defaulting to Internal_Docs",
			"error", err, "raw", truncate(raw, 200))
		return fallback, nil
	}

	source := Source(parsed.BestSource)
	switch source {
	case SourceInternalDocs, SourceWebSearchIT, SourceGreeting, SourceMismatch, SourceOutOfScope:
	default:
		logger.WarnContext(ctx, "unknown classification source, defaulting to Internal_Docs", "source", parsed.BestSource)
		return fallback, nil
	}

	// Web search is an IT-only source; the prompt says so but models drift.
	if source == SourceWebSearchIT && mode != "IT" {
		source = SourceInternalDocs
	}

	simplified := strings.TrimSpace(parsed.SimplifiedQuery)
	if simplified == "" {
		simplified = query
	}

	logger.InfoContext(ctx, "query classified", "source", source, "simplified_query", simplified)
	return Classification{Source: source, SimplifiedQuery: simplified}, nil
}

// CheckRelevance asks the model a binary yes/no question about whether the
// retrieved snippets actually answer the query. Anything other than a clear
// "NO" counts as relevant, matching the lenient reading the pipeline wants.
func (g *Gateway) CheckRelevance(ctx context.Context, originalQuery, simplifiedQuery, retrievedContext string) (bool, error) {
	if len(retrievedContext) > relevanceContextBudget {
		retrievedContext = retrievedContext[:relevanceContextBudget]
	}

	prompt := fmt.Sprintf(relevanceCheckPrompt, originalQuery, simplifiedQuery, retrievedContext)
	raw, err := g.client.Chat(ctx, prompt)
	if err != nil {
		return false, fmt.Errorf("relevance check failed: %w", err)
	}

	return !strings.Contains(strings.ToUpper(strings.TrimSpace(raw)), "NO"), nil
}

// GenerateAnswer drafts the final markdown answer from the retrieved or
// searched context. sourceType is a human-readable label such as
// "IT Internal Docs" or "Web Search Results".
func (g *Gateway) GenerateAnswer(ctx context.Context, query, mode, sourceType, contextText string) (string, error) {
	prompt := fmt.Sprintf(responseGenerationPrompt, mode, query, sourceType, contextText)
	answer, err := g.client.ChatWithMessages(ctx, []Message{{Role: "user", Content: prompt}}, ChatParams{Temperature: 0.7})
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return answer, nil
}

// SuggestRouting runs the ticket-assignment prompt after negative feedback.
// Parse or call failures fall back to L1/Medium so escalation never blocks.
func (g *Gateway) SuggestRouting(ctx context.Context, query, lastResponse, feedback string) RoutingDecision {
	logger := contextutil.LoggerFromContext(ctx)

	fallback := RoutingDecision{Level: "L1", Priority: "Medium"}

	prompt := fmt.Sprintf(ticketAssignmentPrompt, query, lastResponse, feedback)
	raw, err := g.client.Chat(ctx, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "ticket routing call failed, defaulting to L1/Medium", "error", err)
		return fallback
	}

	var parsed struct {
		AssignmentLevel   string `json:"assignment_level"`
		Priority          string `json:"priority"`
		Reasoning         string `json:"reasoning"`
		SuggestedCategory string `json:"suggested_category"`
	}
	if err := ExtractJSON(raw, &parsed); err != nil {
		logger.WarnContext(ctx, "unparseable routing output, defaulting to L1/Medium",
			"error", err, "raw", truncate(raw, 200))
		return fallback
	}

	level := strings.ToUpper(strings.TrimSpace(parsed.AssignmentLevel))
	if level != "L1" && level != "L2" {
		level = "L1"
	}
	priority := capitalize(strings.TrimSpace(parsed.Priority))
	switch priority {
	case "Low", "Medium", "High":
	default:
		priority = "Medium"
	}

	return RoutingDecision{
		Level:     level,
		Priority:  priority,
		Reasoning: parsed.Reasoning,
		Category:  parsed.SuggestedCategory,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
