package session

import "sync"

// Mode is the support department a session is working in.
type Mode string

const (
	ModeNone Mode = ""
	ModeIT   Mode = "IT"
	ModeHR   Mode = "HR"
)

// Valid reports whether the mode names a real department.
func (m Mode) Valid() bool {
	return m == ModeIT || m == ModeHR
}

// TicketRef tracks the open support ticket attached to a session.
type TicketRef struct {
	Key           string
	AssignedLevel string
	Query         string // The query the ticket was raised for
}

// Redirect remembers a topic-mismatch offer so a later yes/no can act on it.
type Redirect struct {
	OriginalQuery   string
	SimplifiedQuery string
}

// Session is one employee conversation. A session is always accessed with its
// mutex held, which serializes concurrent turns on the same session.
type Session struct {
	mu sync.Mutex

	ID           string
	Mode         Mode
	EmployeeID   int
	EmployeeName string

	// AwaitingID is set until the employee has identified themselves.
	AwaitingID bool
	// PendingQuery holds a question asked before identity or mode was settled.
	PendingQuery string
	// ExpectingNewQuery is set after the user chose to ask another question.
	ExpectingNewQuery bool
	// JustStayed suppresses the duplicate mode prompt right after "stay".
	JustStayed bool
	// Paused is set after a goodbye; the next greeting or query resumes.
	Paused bool

	// LastResponse is a truncated snapshot of the previous answer, used for
	// ticket routing context.
	LastResponse string

	MismatchRedirect *Redirect
	Ticket           *TicketRef

	// PendingEmailTicket holds the ticket key waiting for a reporter email.
	PendingEmailTicket string
	ReporterEmail      string
}

// Lock acquires the session for one conversation turn.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// ResetForNewEmployee clears everything except the session identity, returning
// the session to the identity-capture state.
func (s *Session) ResetForNewEmployee() {
	s.Mode = ModeNone
	s.EmployeeID = 0
	s.EmployeeName = ""
	s.AwaitingID = true
	s.PendingQuery = ""
	s.ExpectingNewQuery = false
	s.JustStayed = false
	s.Paused = false
	s.LastResponse = ""
	s.MismatchRedirect = nil
	s.Ticket = nil
	s.PendingEmailTicket = ""
	s.ReporterEmail = ""
}

// SwitchMode changes the working department, detaching any open ticket and
// clearing per-mode conversation state. The remote ticket is not touched.
func (s *Session) SwitchMode(mode Mode) {
	s.Mode = mode
	s.PendingQuery = ""
	s.ExpectingNewQuery = false
	s.JustStayed = false
	s.LastResponse = ""
	s.MismatchRedirect = nil
	s.Ticket = nil
	s.PendingEmailTicket = ""
}
