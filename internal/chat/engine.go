package chat

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_gateway.go -package=mocks support-assistant/internal/chat Gateway
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retriever.go -package=mocks support-assistant/internal/chat Retriever
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_web_searcher.go -package=mocks support-assistant/internal/chat WebSearcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_link_processor.go -package=mocks support-assistant/internal/chat LinkProcessor
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks support-assistant/internal/chat Engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/links"
	"support-assistant/internal/llm"
	"support-assistant/internal/retrieval"
	"support-assistant/internal/session"
	"support-assistant/internal/storage"
	"support-assistant/internal/ticketing"
)

// Gateway is the slice of the LLM gateway the engine consumes.
type Gateway interface {
	Classify(ctx context.Context, query, mode string) (llm.Classification, error)
	CheckRelevance(ctx context.Context, originalQuery, simplifiedQuery, retrievedContext string) (bool, error)
	GenerateAnswer(ctx context.Context, query, mode, sourceType, contextText string) (string, error)
	SuggestRouting(ctx context.Context, query, lastResponse, feedback string) llm.RoutingDecision
}

// Retriever fetches documentation context for a department-scoped query.
type Retriever interface {
	Retrieve(ctx context.Context, department, query string) (retrieval.Result, error)
}

// WebSearcher runs the IT web-search fallback.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// LinkProcessor rewrites markdown links into inline references plus a list.
type LinkProcessor interface {
	Process(ctx context.Context, markdown string) (string, []links.Link)
}

// Directory looks up employees for the identity-capture step.
type Directory interface {
	GetByID(ctx context.Context, id int) (storage.Employee, error)
}

// TurnRequest is one user turn.
type TurnRequest struct {
	SessionID string
	Query     string
	Intent    Intent
}

// TurnResponse is the payload a turn produces. Every turn produces one; the
// engine degrades internally rather than surfacing errors to the user.
type TurnResponse struct {
	SessionID    string
	Response     string
	Links        []links.Link
	Options      []string
	ModeSelected string
	NextAction   string
}

// Engine drives the conversation state machine.
type Engine interface {
	HandleTurn(ctx context.Context, req TurnRequest) TurnResponse
}

type engine struct {
	sessions        session.Store
	gateway         Gateway
	retriever       Retriever
	searcher        WebSearcher
	links           LinkProcessor
	ticketer        ticketing.Ticketer
	directory       Directory
	requireIdentity bool
}

// NewEngine creates the conversation engine. requireIdentity gates every new
// session behind employee-id verification.
func NewEngine(
	sessions session.Store,
	gateway Gateway,
	retriever Retriever,
	searcher WebSearcher,
	linkProcessor LinkProcessor,
	ticketer ticketing.Ticketer,
	directory Directory,
	requireIdentity bool,
) Engine {
	return &engine{
		sessions:        sessions,
		gateway:         gateway,
		retriever:       retriever,
		searcher:        searcher,
		links:           linkProcessor,
		ticketer:        ticketer,
		directory:       directory,
		requireIdentity: requireIdentity,
	}
}

// HandleTurn runs one turn through the rule chain. First matching rule wins.
func (e *engine) HandleTurn(ctx context.Context, req TurnRequest) TurnResponse {
	logger := contextutil.LoggerFromContext(ctx)

	intent := req.Intent

	// Farewell pauses an existing session; without one it behaves as a reset.
	if intent == IntentFarewell {
		if sess, err := e.sessions.Lookup(req.SessionID); err == nil {
			sess.Lock()
			sess.Paused = true
			sess.ExpectingNewQuery = false
			sess.Unlock()
			return TurnResponse{
				SessionID:  req.SessionID,
				Response:   farewellMessage,
				NextAction: NextActionPaused,
			}
		}
		intent = IntentReset
	}

	if intent == IntentReset {
		if req.SessionID != "" {
			e.sessions.Delete(req.SessionID)
		}
		logger.InfoContext(ctx, "session reset", "session_id", req.SessionID)
		return TurnResponse{Response: resetMessage, NextAction: NextActionExpectEmployeeID}
	}

	sess, err := e.sessions.Lookup(req.SessionID)
	if err != nil {
		sess = e.sessions.Create(e.requireIdentity)
		logger.InfoContext(ctx, "new session started", "session_id", sess.ID)
		if e.requireIdentity {
			return TurnResponse{
				SessionID:  sess.ID,
				Response:   welcomeMessage,
				NextAction: NextActionExpectEmployeeID,
			}
		}
		return TurnResponse{
			SessionID:  sess.ID,
			Response:   welcomeMessageOpen,
			Options:    modeOptions(),
			NextAction: NextActionExpectMode,
		}
	}

	// The session lock is held for the whole turn so concurrent turns on the
	// same session serialize.
	sess.Lock()
	defer sess.Unlock()

	if sess.Paused && intent == IntentNone {
		sess.Paused = false
		if resp, ok := e.resumeAfterPause(ctx, sess, req.Query); ok {
			return resp
		}
	}

	if sess.AwaitingID {
		return e.captureIdentity(ctx, sess, req.Query)
	}

	switch intent {
	case IntentSelectIT, IntentSelectHR, IntentContinueMode:
		return e.selectMode(ctx, sess, intent)
	}

	if !sess.Mode.Valid() {
		return TurnResponse{
			SessionID:  sess.ID,
			Response:   fmt.Sprintf("Hi %s, please select which assistant you need:", firstName(sess.EmployeeName)),
			Options:    modeOptions(),
			NextAction: NextActionExpectMode,
		}
	}

	switch intent {
	case IntentHelpful:
		return e.feedbackHelpful(ctx, sess)
	case IntentNotHelpful:
		return e.feedbackNotHelpful(ctx, sess)
	case IntentProvideEmail:
		return e.captureEmail(ctx, sess, req.Query)
	case IntentAskAnother, IntentRephrase:
		verb := "type"
		if intent == IntentRephrase {
			verb = "rephrase"
		}
		sess.PendingQuery = ""
		sess.ExpectingNewQuery = true
		sess.JustStayed = false
		text := fmt.Sprintf("Alright, please %s your %s question.", verb, sess.Mode)
		sess.LastResponse = text
		return TurnResponse{SessionID: sess.ID, Response: text}
	}

	return e.answer(ctx, sess, req.Query, intent)
}

// resumeAfterPause handles the first message after a farewell. A greeting gets
// a continue/switch prompt; anything else falls through to normal processing.
func (e *engine) resumeAfterPause(ctx context.Context, sess *session.Session, query string) (TurnResponse, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	mode := string(sess.Mode)
	if mode == "" {
		mode = "General"
	}
	cls, err := e.gateway.Classify(ctx, query, mode)
	if err != nil {
		logger.ErrorContext(ctx, "failed to analyze greeting after pause", "error", err)
		return TurnResponse{}, false
	}
	if cls.Source != llm.SourceGreeting {
		return TurnResponse{}, false
	}

	name := firstName(sess.EmployeeName)
	if sess.Mode.Valid() {
		return TurnResponse{
			SessionID: sess.ID,
			Response: fmt.Sprintf("Hi %s! You are currently with the %s Assistant. "+
				"How can I help you further, or would you like to switch departments?", name, sess.Mode),
			Options:    []string{fmt.Sprintf("Continue with %s", sess.Mode), switchOption(sess.Mode)},
			NextAction: NextActionExpectMode,
		}, true
	}
	return TurnResponse{
		SessionID:  sess.ID,
		Response:   fmt.Sprintf("Hi %s! Please select a department to continue:", name),
		Options:    modeOptions(),
		NextAction: NextActionExpectMode,
	}, true
}

// captureIdentity validates a submitted employee id against the directory.
// Bad input re-prompts without touching other session state.
func (e *engine) captureIdentity(ctx context.Context, sess *session.Session, query string) TurnResponse {
	logger := contextutil.LoggerFromContext(ctx)

	reprompt := func(text string) TurnResponse {
		return TurnResponse{SessionID: sess.ID, Response: text, NextAction: NextActionExpectEmployeeID}
	}

	submitted := strings.TrimSpace(query)
	if submitted == "" {
		return reprompt("Employee ID cannot be empty. Kindly enter your Employee ID to proceed.")
	}

	id, err := strconv.Atoi(submitted)
	if err != nil {
		return reprompt("Employee ID should be a number. Please enter a valid Employee ID.")
	}

	emp, err := e.directory.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.ErrorContext(ctx, "employee lookup failed", "employee_id", id, "error", err)
		}
		return reprompt("Invalid Employee ID. Please try again.")
	}

	sess.EmployeeID = emp.ID
	sess.EmployeeName = emp.Name
	sess.AwaitingID = false
	logger.InfoContext(ctx, "employee verified", "employee_id", emp.ID)

	return TurnResponse{
		SessionID:  sess.ID,
		Response:   fmt.Sprintf("Hi %s, how can I assist you with? Please select:", firstName(emp.Name)),
		Options:    modeOptions(),
		NextAction: NextActionExpectMode,
	}
}

// selectMode sets or continues the working department. Selecting a department
// detaches any open ticket; continuing keeps it.
func (e *engine) selectMode(ctx context.Context, sess *session.Session, intent Intent) TurnResponse {
	logger := contextutil.LoggerFromContext(ctx)

	var mode session.Mode
	switch intent {
	case IntentSelectIT:
		mode = session.ModeIT
	case IntentSelectHR:
		mode = session.ModeHR
	case IntentContinueMode:
		if !sess.Mode.Valid() {
			return TurnResponse{
				SessionID:  sess.ID,
				Response:   "It seems there was an issue. Please select a department.",
				Options:    modeOptions(),
				NextAction: NextActionExpectMode,
			}
		}
		mode = sess.Mode
	}

	if intent == IntentContinueMode {
		sess.PendingQuery = ""
		sess.ExpectingNewQuery = false
		sess.JustStayed = false
		sess.MismatchRedirect = nil
	} else {
		sess.SwitchMode(mode)
	}
	logger.InfoContext(ctx, "mode selected", "mode", mode, "intent", intent.String())

	return TurnResponse{
		SessionID:    sess.ID,
		Response:     fmt.Sprintf("You’re now connected with the %s Assistant. How can I help you today?", mode),
		ModeSelected: string(mode),
		Options:      []string{switchOption(mode), "No, Thank you."},
	}
}

// feedbackHelpful acknowledges positive feedback. An open IT ticket gets a
// closing comment and its close transition, then the handle is dropped.
func (e *engine) feedbackHelpful(ctx context.Context, sess *session.Session) TurnResponse {
	logger := contextutil.LoggerFromContext(ctx)

	line1 := "I'm glad I could help!"
	switch {
	case sess.Mode == session.ModeIT && sess.Ticket != nil:
		key := sess.Ticket.Key
		comment := fmt.Sprintf("User indicated helpful. Query context: %q. Closing.", sess.PendingQuery)
		if err := e.ticketer.Comment(ctx, key, comment, false); err != nil {
			logger.ErrorContext(ctx, "failed to comment on ticket", "key", key, "error", err)
		}
		if err := e.ticketer.Close(ctx, key); err != nil {
			logger.ErrorContext(ctx, "failed to close ticket", "key", key, "error", err)
			line1 = fmt.Sprintf("Glad I could help with the IT issue! Ticket %s is now marked for closing.", key)
		} else {
			line1 = fmt.Sprintf("Glad I could help with the IT issue! Ticket %s is now closed.", key)
		}
		sess.Ticket = nil
		sess.PendingEmailTicket = ""
	case sess.Mode == session.ModeHR:
		line1 = "I'm glad I could help with your HR question!"
	}

	text := line1 + "\n\nIs there anything else I can assist you with?"
	sess.PendingQuery = ""
	sess.LastResponse = text
	sess.ExpectingNewQuery = false
	sess.JustStayed = false

	return TurnResponse{
		SessionID: sess.ID,
		Response:  text,
		Options:   []string{"Yes, I need assistance with something else", "No, Thank you."},
	}
}

// feedbackNotHelpful escalates. HR gets the static reference links; an open IT
// ticket gets an LLM routing decision, assignment and priority, then either an
// email request or a confirmation.
func (e *engine) feedbackNotHelpful(ctx context.Context, sess *session.Session) TurnResponse {
	logger := contextutil.LoggerFromContext(ctx)

	sess.ExpectingNewQuery = false

	if sess.Mode == session.ModeHR {
		sess.JustStayed = false
		sess.LastResponse = hrNotHelpfulMessage
		return TurnResponse{
			SessionID: sess.ID,
			Response:  hrNotHelpfulMessage,
			Links:     hrReferenceLinks,
			Options:   []string{"Rephrase my HR question", "No, Thank you."},
		}
	}

	options := []string{fmt.Sprintf("Ask another %s question", sess.Mode)}
	if !sess.JustStayed {
		options = append(options, switchOption(sess.Mode))
	}
	options = append(options, "No, Thank you.")
	sess.JustStayed = false

	if sess.Ticket == nil {
		text := "I'll try to do better. How else can I help?"
		sess.LastResponse = text
		return TurnResponse{SessionID: sess.ID, Response: text, Options: options}
	}

	key := sess.Ticket.Key
	queryContext := sess.PendingQuery
	if queryContext == "" {
		queryContext = "the previous issue"
	}

	escalation := fmt.Sprintf("User NOT helped. Query context: %q. Bot's last response: %q. Initiating routing.",
		queryContext, truncateRunes(sess.LastResponse, 200))
	if err := e.ticketer.Comment(ctx, key, escalation, true); err != nil {
		logger.ErrorContext(ctx, "failed to comment on ticket", "key", key, "error", err)
	}

	decision := e.gateway.SuggestRouting(ctx, queryContext, sess.LastResponse,
		"User found the chatbot's IT response not helpful.")
	suggestion := fmt.Sprintf("Routing suggestion:\nLevel: %s\nPriority: %s\nCategory: %s\nReason: %s",
		decision.Level, decision.Priority, decision.Category, decision.Reasoning)
	if err := e.ticketer.Comment(ctx, key, suggestion, false); err != nil {
		logger.ErrorContext(ctx, "failed to record routing suggestion", "key", key, "error", err)
	}

	applied, err := e.ticketer.AssignLevel(ctx, key, decision.Level)
	if err != nil {
		logger.ErrorContext(ctx, "failed to assign ticket", "key", key, "error", err)
		applied = decision.Level
	}
	if err := e.ticketer.SetPriority(ctx, key, decision.Priority); err != nil {
		logger.ErrorContext(ctx, "failed to set ticket priority", "key", key, "error", err)
	}
	sess.Ticket.AssignedLevel = applied

	if sess.ReporterEmail == "" {
		sess.PendingEmailTicket = key
		text := fmt.Sprintf("Thanks for the IT feedback. Your ticket **%s** has been escalated to our %s support team "+
			"with *%s* urgency. Please share your email so we can follow up with you.", key, applied, decision.Priority)
		sess.LastResponse = text
		return TurnResponse{SessionID: sess.ID, Response: text, NextAction: NextActionExpectEmail}
	}

	text := fmt.Sprintf("I'm sorry the previous IT solution wasn't helpful. Your issue (Ticket: **%s**) has been routed "+
		"to our %s team with *%s* priority using your email %s. How else can I help?",
		key, applied, decision.Priority, sess.ReporterEmail)
	sess.Ticket = nil
	sess.PendingQuery = ""
	sess.LastResponse = text
	return TurnResponse{SessionID: sess.ID, Response: text, Options: options}
}

// captureEmail records a reporter email for the ticket awaiting one. Invalid
// addresses re-prompt without losing the pending state.
func (e *engine) captureEmail(ctx context.Context, sess *session.Session, query string) TurnResponse {
	logger := contextutil.LoggerFromContext(ctx)

	if sess.PendingEmailTicket == "" {
		logger.WarnContext(ctx, "email intent without pending ticket", "session_id", sess.ID)
		text := "I wasn't expecting an email right now. How can I help you?"
		sess.LastResponse = text
		return TurnResponse{
			SessionID: sess.ID,
			Response:  text,
			Options: []string{
				fmt.Sprintf("Ask another %s question", sess.Mode),
				switchOption(sess.Mode),
				"No, Thank you.",
			},
		}
	}

	email := strings.TrimSpace(query)
	if !validEmail(email) {
		return TurnResponse{
			SessionID:  sess.ID,
			Response:   "That doesn't look like a valid email address. Please enter your email:",
			NextAction: NextActionExpectEmail,
		}
	}

	key := sess.PendingEmailTicket
	sess.PendingEmailTicket = ""
	if err := e.ticketer.Comment(ctx, key, fmt.Sprintf("User contact email: %s", email), false); err != nil {
		logger.ErrorContext(ctx, "failed to record email on ticket", "key", key, "error", err)
	}
	sess.ReporterEmail = email

	level := "support"
	if sess.Ticket != nil && sess.Ticket.AssignedLevel != "" {
		level = sess.Ticket.AssignedLevel
	}
	sess.Ticket = nil
	sess.PendingQuery = ""
	sess.ExpectingNewQuery = false
	sess.JustStayed = false

	text := fmt.Sprintf("Thanks! Ticket **%s** is now being handled by our %s staff. "+
		"We’ll contact you at **%s** if needed. How else can I help?", key, level, email)
	sess.LastResponse = text
	return TurnResponse{
		SessionID: sess.ID,
		Response:  text,
		Options: []string{
			fmt.Sprintf("Ask another %s question", sess.Mode),
			switchOption(sess.Mode),
			"No, Thank you.",
		},
	}
}

// validEmail applies the minimal check: an @ with a dot somewhere after it.
func validEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
