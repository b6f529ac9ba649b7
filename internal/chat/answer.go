package chat

import (
	"context"
	"fmt"
	"strings"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/llm"
	"support-assistant/internal/session"
)

const lastResponseLimit = 500

// answer runs the classify/retrieve/generate pipeline for a free-text query.
func (e *engine) answer(ctx context.Context, sess *session.Session, rawQuery string, intent Intent) TurnResponse {
	logger := contextutil.LoggerFromContext(ctx)

	query := strings.TrimSpace(rawQuery)
	simplified := query
	source := llm.SourceInternalDocs

	wasExpecting := sess.ExpectingNewQuery
	sess.ExpectingNewQuery = false

	switch {
	case intent == IntentStay:
		// Replaying the query that triggered a topic mismatch. The user chose
		// to stay, so the stored redirect is consumed and never re-fired.
		if r := sess.MismatchRedirect; r != nil {
			if r.OriginalQuery != "" {
				query = r.OriginalQuery
			}
			if r.SimplifiedQuery != "" {
				simplified = r.SimplifiedQuery
			} else {
				simplified = query
			}
			sess.MismatchRedirect = nil
		}
		sess.PendingQuery = query
		sess.JustStayed = true
	case wasExpecting:
		// The user was explicitly asked for a fresh question; skip
		// classification and answer it directly from internal docs.
		sess.PendingQuery = query
		sess.JustStayed = false
	default:
		sess.PendingQuery = query
		sess.JustStayed = false

		cls, err := e.gateway.Classify(ctx, query, string(sess.Mode))
		if err != nil {
			logger.ErrorContext(ctx, "query classification failed", "error", err)
			return e.classifyFailure(sess)
		}
		source = cls.Source
		if cls.SimplifiedQuery != "" {
			simplified = cls.SimplifiedQuery
		}

		if resp, handled := e.handleNonAnswerable(sess, query, simplified, source); handled {
			return resp
		}
	}

	if sess.Mode == session.ModeIT {
		e.ensureTicket(ctx, sess, query)
	}

	contextText, sourceLabel := e.gatherContext(ctx, sess, query, simplified, source)
	if contextText == "" {
		return e.noContextFallback(ctx, sess)
	}

	answer, err := e.gateway.GenerateAnswer(ctx, query, string(sess.Mode), sourceLabel, contextText)
	if err != nil {
		logger.ErrorContext(ctx, "answer generation failed", "error", err)
		return e.generationFailure(sess)
	}

	processed, extracted := e.links.Process(ctx, answer)
	sess.LastResponse = truncateRunes(processed, lastResponseLimit)

	if sess.Mode == session.ModeIT && sess.Ticket != nil {
		note := fmt.Sprintf("Bot response for query %q:\n%s", query, truncateRunes(processed, 1000))
		if err := e.ticketer.Comment(ctx, sess.Ticket.Key, note, false); err != nil {
			logger.ErrorContext(ctx, "failed to record response on ticket", "key", sess.Ticket.Key, "error", err)
		}
	}

	return TurnResponse{
		SessionID: sess.ID,
		Response:  processed,
		Links:     extracted,
		Options:   feedbackOptions(),
	}
}

// handleNonAnswerable short-circuits greetings, out-of-scope queries and topic
// mismatches. A mismatch stores the query so a later stay intent can replay it.
func (e *engine) handleNonAnswerable(sess *session.Session, query, simplified string, source llm.Source) (TurnResponse, bool) {
	switch source {
	case llm.SourceGreeting:
		text := fmt.Sprintf("Hi! This is your %s Assistant. How can I assist you today?", sess.Mode)
		if containsHowAreYou(query) {
			text = fmt.Sprintf("I'm doing well, thanks for asking! How can I help you with %s matters today?", sess.Mode)
		}
		sess.PendingQuery = ""
		sess.LastResponse = text
		return TurnResponse{
			SessionID: sess.ID,
			Response:  text,
			Options:   []string{switchOption(sess.Mode), "No, Thank you."},
		}, true

	case llm.SourceOutOfScope:
		text := fmt.Sprintf("My apologies, I can only assist with IT or HR-related matters. "+
			"Do you have a question for the %s Assistant?", sess.Mode)
		sess.PendingQuery = ""
		sess.LastResponse = text
		return TurnResponse{
			SessionID: sess.ID,
			Response:  text,
			Options:   []string{switchOption(sess.Mode), "No, Thank you."},
		}, true

	case llm.SourceMismatch:
		other := otherMode(sess.Mode)
		sess.MismatchRedirect = &session.Redirect{OriginalQuery: query, SimplifiedQuery: simplified}
		text := fmt.Sprintf("It appears your query aligns more with %s topics. You are currently with the %s Assistant. "+
			"Would you like to switch to the %s Assistant?", other, sess.Mode, other)
		sess.LastResponse = text
		return TurnResponse{
			SessionID: sess.ID,
			Response:  text,
			Options: []string{
				fmt.Sprintf("Yes, switch to %s Assistant", other),
				fmt.Sprintf("No, stay with %s Assistant", sess.Mode),
			},
		}, true
	}
	return TurnResponse{}, false
}

// ensureTicket creates the tracking ticket for an IT query. Repeating the
// exact query the open ticket was raised for adds a follow-up note instead of
// opening a second ticket.
func (e *engine) ensureTicket(ctx context.Context, sess *session.Session, query string) {
	logger := contextutil.LoggerFromContext(ctx)

	if t := sess.Ticket; t != nil {
		if t.Query == query {
			note := fmt.Sprintf("User follow-up on same issue (%s): %q", t.Key, query)
			if err := e.ticketer.Comment(ctx, t.Key, note, false); err != nil {
				logger.ErrorContext(ctx, "failed to record follow-up", "key", t.Key, "error", err)
			}
			return
		}
		// Different query, the old ticket stays open on its own track.
		sess.Ticket = nil
	}

	name := sess.EmployeeName
	if name == "" {
		name = "Unknown"
	}
	summary := fmt.Sprintf("Chatbot IT (%s - EmpID %d): %s...", name, sess.EmployeeID, truncateRunes(query, 60))
	description := fmt.Sprintf("Employee: %s (ID %d)\nQuery: %s\n\nTicket raised automatically by the IT support assistant.",
		name, sess.EmployeeID, query)

	ticket, err := e.ticketer.Create(ctx, summary, description, sess.ReporterEmail)
	if err != nil {
		logger.ErrorContext(ctx, "ticket creation failed", "error", err)
		return
	}
	logger.InfoContext(ctx, "ticket created", "key", ticket.Key)

	sess.Ticket = &session.TicketRef{Key: ticket.Key, AssignedLevel: "L1", Query: query}
	initial := fmt.Sprintf("Ticket for query: %q. Bot attempting to resolve.", query)
	if err := e.ticketer.Comment(ctx, ticket.Key, initial, false); err != nil {
		logger.ErrorContext(ctx, "failed to add initial comment", "key", ticket.Key, "error", err)
	}
	if err := e.ticketer.StartProgress(ctx, ticket.Key); err != nil {
		logger.ErrorContext(ctx, "failed to move ticket to in progress", "key", ticket.Key, "error", err)
	}
}

// gatherContext retrieves documentation and checks relevance. IT queries that
// find nothing relevant fall through to web search; HR never does.
func (e *engine) gatherContext(ctx context.Context, sess *session.Session, query, simplified string, source llm.Source) (string, string) {
	logger := contextutil.LoggerFromContext(ctx)

	docsLabel := fmt.Sprintf("%s Internal Docs", sess.Mode)
	wantWeb := source == llm.SourceWebSearchIT && sess.Mode == session.ModeIT

	if !wantWeb {
		result, err := e.retriever.Retrieve(ctx, string(sess.Mode), simplified)
		switch {
		case err != nil:
			logger.ErrorContext(ctx, "retrieval failed", "error", err)
		case result.Found:
			relevant, err := e.gateway.CheckRelevance(ctx, query, simplified, result.Context)
			if err != nil {
				logger.ErrorContext(ctx, "relevance check failed", "error", err)
			} else if relevant {
				return result.Context, docsLabel
			}
			logger.InfoContext(ctx, "retrieved context discarded", "mode", sess.Mode)
		default:
			logger.InfoContext(ctx, "no documents found", "mode", sess.Mode)
		}
		if sess.Mode != session.ModeIT {
			return "", ""
		}
	}

	results, err := e.searcher.Search(ctx, simplified)
	if err != nil {
		logger.ErrorContext(ctx, "web search failed", "error", err)
		return "", ""
	}
	if results == "" {
		return "", ""
	}
	return results, "Web Search Results"
}

// classifyFailure degrades a classification error into a rephrase prompt.
func (e *engine) classifyFailure(sess *session.Session) TurnResponse {
	if sess.Mode == session.ModeHR {
		sess.LastResponse = hrErrorFallbackMessage
		return TurnResponse{
			SessionID: sess.ID,
			Response:  hrErrorFallbackMessage,
			Links:     hrReferenceLinks,
			Options:   []string{"Rephrase my HR question", "No, Thank you."},
		}
	}
	text := "Sorry, I had trouble understanding that IT query. Could you rephrase?"
	sess.LastResponse = text
	return TurnResponse{
		SessionID: sess.ID,
		Response:  text,
		Options:   []string{"Rephrase my IT question", switchOption(sess.Mode), "No, Thank you."},
	}
}

// noContextFallback answers when neither docs nor web search produced context.
func (e *engine) noContextFallback(ctx context.Context, sess *session.Session) TurnResponse {
	if sess.Mode == session.ModeHR {
		sess.LastResponse = hrFallbackMessage
		return TurnResponse{
			SessionID: sess.ID,
			Response:  hrFallbackMessage,
			Links:     hrReferenceLinks,
			Options:   []string{"Rephrase my HR question", "No, Thank you."},
		}
	}

	text := "I couldn't find specific information to resolve your IT query."
	if sess.Ticket != nil {
		text = fmt.Sprintf("I couldn't find specific information to resolve your IT query. "+
			"Your ticket **%s** remains open and our team will look into it.", sess.Ticket.Key)
	}
	sess.LastResponse = text
	return TurnResponse{
		SessionID: sess.ID,
		Response:  text,
		Options:   []string{"Rephrase my IT question", "No, Thank you."},
	}
}

// generationFailure degrades an LLM generation error per department.
func (e *engine) generationFailure(sess *session.Session) TurnResponse {
	if sess.Mode == session.ModeHR {
		sess.LastResponse = hrErrorFallbackMessage
		return TurnResponse{
			SessionID: sess.ID,
			Response:  hrErrorFallbackMessage,
			Links:     hrReferenceLinks,
			Options:   []string{"Rephrase my HR question", "No, Thank you."},
		}
	}

	text := "Sorry, something went wrong while preparing your answer."
	if sess.Ticket != nil {
		text = fmt.Sprintf("Sorry, something went wrong while preparing your answer. "+
			"Your ticket **%s** remains open.", sess.Ticket.Key)
	}
	sess.LastResponse = text
	return TurnResponse{
		SessionID: sess.ID,
		Response:  text,
		Options:   []string{"Rephrase my IT question", switchOption(sess.Mode), "No, Thank you."},
	}
}

func containsHowAreYou(query string) bool {
	return strings.Contains(strings.ToLower(query), "how are you")
}
