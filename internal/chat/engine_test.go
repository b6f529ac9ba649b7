package chat_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"support-assistant/internal/chat"
	"support-assistant/internal/chat/mocks"
	"support-assistant/internal/links"
	"support-assistant/internal/llm"
	"support-assistant/internal/retrieval"
	"support-assistant/internal/session"
	"support-assistant/internal/storage"
	storagemocks "support-assistant/internal/storage/mocks"
	"support-assistant/internal/ticketing"
	ticketmocks "support-assistant/internal/ticketing/mocks"
)

type engineFixture struct {
	engine    chat.Engine
	sessions  session.Store
	gateway   *mocks.MockGateway
	retriever *mocks.MockRetriever
	searcher  *mocks.MockWebSearcher
	links     *mocks.MockLinkProcessor
	ticketer  *ticketmocks.MockTicketer
	directory *storagemocks.MockEmployeeStore
}

func newEngineFixture(t *testing.T, requireIdentity bool) *engineFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &engineFixture{
		sessions:  session.NewMemoryStore(),
		gateway:   mocks.NewMockGateway(ctrl),
		retriever: mocks.NewMockRetriever(ctrl),
		searcher:  mocks.NewMockWebSearcher(ctrl),
		links:     mocks.NewMockLinkProcessor(ctrl),
		ticketer:  ticketmocks.NewMockTicketer(ctrl),
		directory: storagemocks.NewMockEmployeeStore(ctrl),
	}
	f.engine = chat.NewEngine(f.sessions, f.gateway, f.retriever, f.searcher, f.links, f.ticketer, f.directory, requireIdentity)
	return f
}

// startSession walks a fresh session past the welcome turn and into a mode.
func (f *engineFixture) startSession(t *testing.T, mode chat.Intent) string {
	t.Helper()
	ctx := context.Background()

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{Query: "hello"})
	if resp.SessionID == "" {
		t.Fatal("HandleTurn() returned no session id for new session")
	}
	resp = f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: resp.SessionID, Intent: mode})
	if resp.ModeSelected == "" {
		t.Fatalf("mode selection returned no mode, response %q", resp.Response)
	}
	return resp.SessionID
}

func (f *engineFixture) session(t *testing.T, id string) *session.Session {
	t.Helper()
	sess, err := f.sessions.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", id, err)
	}
	return sess
}

func TestHandleTurnNewSessionRequiresEmployeeID(t *testing.T) {
	f := newEngineFixture(t, true)

	resp := f.engine.HandleTurn(context.Background(), chat.TurnRequest{Query: "hi"})

	if resp.SessionID == "" {
		t.Error("SessionID is empty")
	}
	if resp.NextAction != chat.NextActionExpectEmployeeID {
		t.Errorf("NextAction = %q, want %q", resp.NextAction, chat.NextActionExpectEmployeeID)
	}
	if !strings.Contains(resp.Response, "Employee ID") {
		t.Errorf("Response = %q, want employee id prompt", resp.Response)
	}
}

func TestHandleTurnIdentityCapture(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setup      func(f *engineFixture)
		wantAgain  bool
		wantInResp string
	}{
		{
			name:       "empty input",
			query:      "   ",
			wantAgain:  true,
			wantInResp: "cannot be empty",
		},
		{
			name:       "not a number",
			query:      "abc",
			wantAgain:  true,
			wantInResp: "should be a number",
		},
		{
			name:  "unknown employee",
			query: "99",
			setup: func(f *engineFixture) {
				f.directory.EXPECT().GetByID(gomock.Any(), 99).Return(storage.Employee{}, storage.ErrNotFound)
			},
			wantAgain:  true,
			wantInResp: "Invalid Employee ID",
		},
		{
			name:  "verified",
			query: "42",
			setup: func(f *engineFixture) {
				f.directory.EXPECT().GetByID(gomock.Any(), 42).Return(storage.Employee{ID: 42, Name: "Priya Sharma"}, nil)
			},
			wantInResp: "Hi Priya",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, true)
			if tt.setup != nil {
				tt.setup(f)
			}
			ctx := context.Background()

			first := f.engine.HandleTurn(ctx, chat.TurnRequest{Query: "hi"})
			resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: first.SessionID, Query: tt.query})

			if !strings.Contains(resp.Response, tt.wantInResp) {
				t.Errorf("Response = %q, want substring %q", resp.Response, tt.wantInResp)
			}
			wantAction := chat.NextActionExpectMode
			if tt.wantAgain {
				wantAction = chat.NextActionExpectEmployeeID
			}
			if resp.NextAction != wantAction {
				t.Errorf("NextAction = %q, want %q", resp.NextAction, wantAction)
			}
		})
	}
}

func TestHandleTurnModeSelection(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()

	first := f.engine.HandleTurn(ctx, chat.TurnRequest{Query: "hi"})
	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: first.SessionID, Intent: chat.IntentSelectIT})

	if resp.ModeSelected != "IT" {
		t.Errorf("ModeSelected = %q, want %q", resp.ModeSelected, "IT")
	}
	if want := "Switch to HR Assistant"; len(resp.Options) == 0 || resp.Options[0] != want {
		t.Errorf("Options = %v, want first option %q", resp.Options, want)
	}
}

func TestHandleTurnITAnswerPipeline(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	query := "reset my vpn password"
	f.gateway.EXPECT().Classify(gomock.Any(), query, "IT").
		Return(llm.Classification{Source: llm.SourceInternalDocs, SimplifiedQuery: "vpn password reset"}, nil)
	f.ticketer.EXPECT().Create(gomock.Any(), "Chatbot IT (Unknown - EmpID 0): reset my vpn password...", gomock.Any(), "").
		Return(ticketing.Ticket{Key: "IT-101"}, nil)
	f.ticketer.EXPECT().Comment(gomock.Any(), "IT-101", gomock.Any(), false).Return(nil).Times(2)
	f.ticketer.EXPECT().StartProgress(gomock.Any(), "IT-101").Return(nil)
	f.retriever.EXPECT().Retrieve(gomock.Any(), "IT", "vpn password reset").
		Return(retrieval.Result{Context: "vpn doc context", Found: true}, nil)
	f.gateway.EXPECT().CheckRelevance(gomock.Any(), query, "vpn password reset", "vpn doc context").Return(true, nil)
	f.gateway.EXPECT().GenerateAnswer(gomock.Any(), query, "IT", "IT Internal Docs", "vpn doc context").
		Return("Open [VPN Guide](https://docs.example.com/vpn) and follow the steps.", nil)
	f.links.EXPECT().Process(gomock.Any(), "Open [VPN Guide](https://docs.example.com/vpn) and follow the steps.").
		Return("Open (VPN Guide - see link below) and follow the steps.",
			[]links.Link{{URL: "https://docs.example.com/vpn", Text: "VPN Guide"}})

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: query})

	if want := "Open (VPN Guide - see link below) and follow the steps."; resp.Response != want {
		t.Errorf("Response = %q, want %q", resp.Response, want)
	}
	if len(resp.Links) != 1 || resp.Links[0].URL != "https://docs.example.com/vpn" {
		t.Errorf("Links = %v, want the VPN guide link", resp.Links)
	}
	if len(resp.Options) != 2 || resp.Options[0] != "👍 Helpful" {
		t.Errorf("Options = %v, want feedback options", resp.Options)
	}

	sess := f.session(t, id)
	if sess.Ticket == nil || sess.Ticket.Key != "IT-101" {
		t.Fatalf("session ticket = %+v, want key IT-101", sess.Ticket)
	}
	if sess.LastResponse == "" {
		t.Error("LastResponse not recorded")
	}
}

func TestHandleTurnDuplicateQueryReusesTicket(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	sess := f.session(t, id)
	sess.Ticket = &session.TicketRef{Key: "IT-7", AssignedLevel: "L1", Query: "printer offline"}

	f.gateway.EXPECT().Classify(gomock.Any(), "printer offline", "IT").
		Return(llm.Classification{Source: llm.SourceInternalDocs, SimplifiedQuery: "printer offline"}, nil)
	// Follow-up note plus the response note; no second Create.
	f.ticketer.EXPECT().Comment(gomock.Any(), "IT-7", gomock.Any(), false).Return(nil).Times(2)
	f.retriever.EXPECT().Retrieve(gomock.Any(), "IT", "printer offline").
		Return(retrieval.Result{Context: "printer docs", Found: true}, nil)
	f.gateway.EXPECT().CheckRelevance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	f.gateway.EXPECT().GenerateAnswer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("Power cycle the printer.", nil)
	f.links.EXPECT().Process(gomock.Any(), "Power cycle the printer.").Return("Power cycle the printer.", nil)

	f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: "printer offline"})

	if got := f.session(t, id).Ticket; got == nil || got.Key != "IT-7" {
		t.Errorf("ticket = %+v, want the original IT-7 ticket kept", got)
	}
}

func TestHandleTurnTopicMismatchThenStay(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	f.gateway.EXPECT().Classify(gomock.Any(), "how do I apply for leave", "IT").
		Return(llm.Classification{Source: llm.SourceMismatch, SimplifiedQuery: "leave application"}, nil)

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: "how do I apply for leave"})

	if !strings.Contains(resp.Response, "HR topics") {
		t.Errorf("Response = %q, want mismatch prompt", resp.Response)
	}
	wantOptions := []string{"Yes, switch to HR Assistant", "No, stay with IT Assistant"}
	if len(resp.Options) != 2 || resp.Options[0] != wantOptions[0] || resp.Options[1] != wantOptions[1] {
		t.Errorf("Options = %v, want %v", resp.Options, wantOptions)
	}

	// Staying replays the stored query without another classification. The
	// switch option must be absent from a following not-helpful prompt.
	f.ticketer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), "").Return(ticketing.Ticket{Key: "IT-9"}, nil)
	f.ticketer.EXPECT().Comment(gomock.Any(), "IT-9", gomock.Any(), false).Return(nil).Times(2)
	f.ticketer.EXPECT().StartProgress(gomock.Any(), "IT-9").Return(nil)
	f.retriever.EXPECT().Retrieve(gomock.Any(), "IT", "leave application").
		Return(retrieval.Result{Context: "leave policy", Found: true}, nil)
	f.gateway.EXPECT().CheckRelevance(gomock.Any(), "how do I apply for leave", "leave application", "leave policy").Return(true, nil)
	f.gateway.EXPECT().GenerateAnswer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("Use the portal.", nil)
	f.links.EXPECT().Process(gomock.Any(), "Use the portal.").Return("Use the portal.", nil)

	f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Intent: chat.IntentStay, Query: "No, stay with IT Assistant"})

	sess := f.session(t, id)
	if sess.MismatchRedirect != nil {
		t.Error("MismatchRedirect not consumed after stay")
	}
	if !sess.JustStayed {
		t.Error("JustStayed = false, want true after stay")
	}
}

func TestHandleTurnJustStayedHidesSwitchOption(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	sess := f.session(t, id)
	sess.JustStayed = true

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Intent: chat.IntentNotHelpful})

	for _, opt := range resp.Options {
		if strings.Contains(opt, "Switch") {
			t.Errorf("Options = %v, switch option must be hidden right after staying", resp.Options)
		}
	}
	if f.session(t, id).JustStayed {
		t.Error("JustStayed not cleared after the follow-up turn")
	}
}

func TestHandleTurnNotHelpfulEscalatesTicket(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	sess := f.session(t, id)
	sess.Ticket = &session.TicketRef{Key: "IT-55", AssignedLevel: "L1", Query: "laptop will not boot"}
	sess.PendingQuery = "laptop will not boot"
	sess.LastResponse = "Try holding the power button."

	f.ticketer.EXPECT().Comment(gomock.Any(), "IT-55", gomock.Any(), true).Return(nil)
	f.gateway.EXPECT().SuggestRouting(gomock.Any(), "laptop will not boot", "Try holding the power button.",
		"User found the chatbot's IT response not helpful.").
		Return(llm.RoutingDecision{Level: "L2", Priority: "High", Category: "Hardware", Reasoning: "needs hands-on"})
	f.ticketer.EXPECT().Comment(gomock.Any(), "IT-55", gomock.Any(), false).Return(nil)
	f.ticketer.EXPECT().AssignLevel(gomock.Any(), "IT-55", "L2").Return("L2", nil)
	f.ticketer.EXPECT().SetPriority(gomock.Any(), "IT-55", "High").Return(nil)

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Intent: chat.IntentNotHelpful})

	if resp.NextAction != chat.NextActionExpectEmail {
		t.Errorf("NextAction = %q, want %q", resp.NextAction, chat.NextActionExpectEmail)
	}
	if !strings.Contains(resp.Response, "IT-55") || !strings.Contains(resp.Response, "L2") {
		t.Errorf("Response = %q, want escalation summary naming ticket and level", resp.Response)
	}
	if got := f.session(t, id).PendingEmailTicket; got != "IT-55" {
		t.Errorf("PendingEmailTicket = %q, want %q", got, "IT-55")
	}
}

func TestHandleTurnEmailCapture(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		wantValid bool
	}{
		{name: "valid", email: "dev@example.com", wantValid: true},
		{name: "missing at", email: "dev.example.com"},
		{name: "no dot in domain", email: "dev@example"},
		{name: "empty", email: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, false)
			ctx := context.Background()
			id := f.startSession(t, chat.IntentSelectIT)

			sess := f.session(t, id)
			sess.Ticket = &session.TicketRef{Key: "IT-55", AssignedLevel: "L2", Query: "laptop will not boot"}
			sess.PendingEmailTicket = "IT-55"

			if tt.wantValid {
				f.ticketer.EXPECT().Comment(gomock.Any(), "IT-55", fmt.Sprintf("User contact email: %s", tt.email), false).Return(nil)
			}

			resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Intent: chat.IntentProvideEmail, Query: tt.email})

			sess = f.session(t, id)
			if tt.wantValid {
				if sess.ReporterEmail != tt.email {
					t.Errorf("ReporterEmail = %q, want %q", sess.ReporterEmail, tt.email)
				}
				if sess.PendingEmailTicket != "" {
					t.Errorf("PendingEmailTicket = %q, want cleared", sess.PendingEmailTicket)
				}
				if !strings.Contains(resp.Response, "IT-55") || !strings.Contains(resp.Response, "L2") {
					t.Errorf("Response = %q, want confirmation with ticket and level", resp.Response)
				}
			} else {
				if resp.NextAction != chat.NextActionExpectEmail {
					t.Errorf("NextAction = %q, want another email prompt", resp.NextAction)
				}
				if sess.PendingEmailTicket != "IT-55" {
					t.Errorf("PendingEmailTicket = %q, want preserved", sess.PendingEmailTicket)
				}
			}
		})
	}
}

func TestHandleTurnHelpfulClosesTicket(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	sess := f.session(t, id)
	sess.Ticket = &session.TicketRef{Key: "IT-12", AssignedLevel: "L1", Query: "vpn down"}
	sess.PendingQuery = "vpn down"

	f.ticketer.EXPECT().Comment(gomock.Any(), "IT-12", gomock.Any(), false).Return(nil)
	f.ticketer.EXPECT().Close(gomock.Any(), "IT-12").Return(nil)

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Intent: chat.IntentHelpful})

	if !strings.Contains(resp.Response, "IT-12 is now closed") {
		t.Errorf("Response = %q, want closed-ticket confirmation", resp.Response)
	}
	if f.session(t, id).Ticket != nil {
		t.Error("ticket handle not dropped after close")
	}
}

func TestHandleTurnHelpfulCloseErrorStillDetaches(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	sess := f.session(t, id)
	sess.Ticket = &session.TicketRef{Key: "IT-12", AssignedLevel: "L1", Query: "vpn down"}

	f.ticketer.EXPECT().Comment(gomock.Any(), "IT-12", gomock.Any(), false).Return(nil)
	f.ticketer.EXPECT().Close(gomock.Any(), "IT-12").Return(errors.New("transition not available"))

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Intent: chat.IntentHelpful})

	if !strings.Contains(resp.Response, "marked for closing") {
		t.Errorf("Response = %q, want soft-close wording on transition failure", resp.Response)
	}
	if f.session(t, id).Ticket != nil {
		t.Error("ticket handle not dropped after close failure")
	}
}

func TestHandleTurnITFallsBackToWebSearch(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	query := "outlook calendar sync error"
	f.gateway.EXPECT().Classify(gomock.Any(), query, "IT").
		Return(llm.Classification{Source: llm.SourceInternalDocs, SimplifiedQuery: query}, nil)
	f.ticketer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), "").Return(ticketing.Ticket{Key: "IT-20"}, nil)
	f.ticketer.EXPECT().Comment(gomock.Any(), "IT-20", gomock.Any(), false).Return(nil).Times(2)
	f.ticketer.EXPECT().StartProgress(gomock.Any(), "IT-20").Return(nil)
	f.retriever.EXPECT().Retrieve(gomock.Any(), "IT", query).
		Return(retrieval.Result{Context: "unrelated docs", Found: true}, nil)
	f.gateway.EXPECT().CheckRelevance(gomock.Any(), query, query, "unrelated docs").Return(false, nil)
	f.searcher.EXPECT().Search(gomock.Any(), query).Return("Title: Fix\nURL: https://a\nSnippet: s", nil)
	f.gateway.EXPECT().GenerateAnswer(gomock.Any(), query, "IT", "Web Search Results", "Title: Fix\nURL: https://a\nSnippet: s").
		Return("Re-add the account.", nil)
	f.links.EXPECT().Process(gomock.Any(), "Re-add the account.").Return("Re-add the account.", nil)

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: query})

	if resp.Response != "Re-add the account." {
		t.Errorf("Response = %q, want the web-search backed answer", resp.Response)
	}
}

func TestHandleTurnHRFallsBackToReferenceLinks(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectHR)

	query := "gratuity rules"
	f.gateway.EXPECT().Classify(gomock.Any(), query, "HR").
		Return(llm.Classification{Source: llm.SourceInternalDocs, SimplifiedQuery: query}, nil)
	f.retriever.EXPECT().Retrieve(gomock.Any(), "HR", query).Return(retrieval.Result{}, nil)

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: query})

	if len(resp.Links) == 0 || !strings.Contains(resp.Links[0].URL, "keka.com") {
		t.Errorf("Links = %v, want the HR document portal link", resp.Links)
	}
	for _, opt := range resp.Options {
		if strings.Contains(opt, "Switch") {
			t.Errorf("Options = %v, HR fallback must not offer a department switch", resp.Options)
		}
	}
}

func TestHandleTurnHRNeverSearchesWeb(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectHR)

	f.gateway.EXPECT().Classify(gomock.Any(), "payslip breakdown", "HR").
		Return(llm.Classification{Source: llm.SourceInternalDocs, SimplifiedQuery: "payslip breakdown"}, nil)
	f.retriever.EXPECT().Retrieve(gomock.Any(), "HR", "payslip breakdown").
		Return(retrieval.Result{Context: "stale", Found: true}, nil)
	f.gateway.EXPECT().CheckRelevance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	// No searcher expectation: a Search call fails the test.

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: "payslip breakdown"})

	if !strings.Contains(resp.Response, "couldn't find") && !strings.Contains(resp.Response, "couldn’t find") {
		t.Errorf("Response = %q, want the HR fallback message", resp.Response)
	}
}

func TestHandleTurnFarewellPausesAndGreetingResumes(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Intent: chat.IntentFarewell})
	if resp.NextAction != chat.NextActionPaused {
		t.Fatalf("NextAction = %q, want %q", resp.NextAction, chat.NextActionPaused)
	}
	if !f.session(t, id).Paused {
		t.Fatal("session not paused after farewell")
	}

	f.gateway.EXPECT().Classify(gomock.Any(), "hello again", "IT").
		Return(llm.Classification{Source: llm.SourceGreeting}, nil)

	resp = f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: "hello again"})

	if resp.NextAction != chat.NextActionExpectMode {
		t.Errorf("NextAction = %q, want mode prompt after resume", resp.NextAction)
	}
	if len(resp.Options) != 2 || resp.Options[0] != "Continue with IT" {
		t.Errorf("Options = %v, want continue/switch pair", resp.Options)
	}
	if f.session(t, id).Paused {
		t.Error("session still paused after greeting")
	}
}

func TestHandleTurnFarewellWithoutSessionResets(t *testing.T) {
	f := newEngineFixture(t, false)

	resp := f.engine.HandleTurn(context.Background(), chat.TurnRequest{SessionID: "gone", Intent: chat.IntentFarewell})

	if resp.NextAction != chat.NextActionExpectEmployeeID {
		t.Errorf("NextAction = %q, want reset behavior", resp.NextAction)
	}
}

func TestHandleTurnResetDeletesSession(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Intent: chat.IntentReset})

	if _, err := f.sessions.Lookup(id); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Lookup() error = %v, want %v", err, session.ErrNotFound)
	}
}

func TestHandleTurnAskAnotherBypassesClassification(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectIT)

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Intent: chat.IntentAskAnother})
	if !strings.Contains(resp.Response, "type your IT question") {
		t.Fatalf("Response = %q, want a new-question prompt", resp.Response)
	}
	if !f.session(t, id).ExpectingNewQuery {
		t.Fatal("ExpectingNewQuery = false, want true")
	}

	// No Classify expectation: classification must be skipped for this turn.
	f.ticketer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), "").Return(ticketing.Ticket{Key: "IT-31"}, nil)
	f.ticketer.EXPECT().Comment(gomock.Any(), "IT-31", gomock.Any(), false).Return(nil).Times(2)
	f.ticketer.EXPECT().StartProgress(gomock.Any(), "IT-31").Return(nil)
	f.retriever.EXPECT().Retrieve(gomock.Any(), "IT", "wifi keeps dropping").
		Return(retrieval.Result{Context: "wifi docs", Found: true}, nil)
	f.gateway.EXPECT().CheckRelevance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	f.gateway.EXPECT().GenerateAnswer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("Move closer to the router.", nil)
	f.links.EXPECT().Process(gomock.Any(), "Move closer to the router.").Return("Move closer to the router.", nil)

	f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: "wifi keeps dropping"})

	if f.session(t, id).ExpectingNewQuery {
		t.Error("ExpectingNewQuery not cleared after the new query")
	}
}

func TestHandleTurnGreetingClassification(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectHR)

	f.gateway.EXPECT().Classify(gomock.Any(), "good morning", "HR").
		Return(llm.Classification{Source: llm.SourceGreeting}, nil)

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: "good morning"})

	if !strings.Contains(resp.Response, "HR Assistant") {
		t.Errorf("Response = %q, want greeting naming the assistant", resp.Response)
	}
	if len(resp.Options) == 0 || resp.Options[0] != "Switch to IT Assistant" {
		t.Errorf("Options = %v, want switch option first", resp.Options)
	}
}

func TestHandleTurnClassificationErrorDegrades(t *testing.T) {
	f := newEngineFixture(t, false)
	ctx := context.Background()
	id := f.startSession(t, chat.IntentSelectHR)

	f.gateway.EXPECT().Classify(gomock.Any(), "anything", "HR").
		Return(llm.Classification{}, errors.New("model unavailable"))

	resp := f.engine.HandleTurn(ctx, chat.TurnRequest{SessionID: id, Query: "anything"})

	if len(resp.Links) == 0 {
		t.Error("Links is empty, want HR reference links on degraded path")
	}
	if !strings.Contains(resp.Response, "trouble") {
		t.Errorf("Response = %q, want degraded wording", resp.Response)
	}
}
