package session

import (
	"errors"
	"sync"
	"testing"
)

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	store := NewMemoryStore()

	sess := store.Create(true)
	if sess.ID == "" {
		t.Fatal("Create() returned session without id")
	}
	if !sess.AwaitingID {
		t.Error("Create(true) AwaitingID = false, want true")
	}

	got, err := store.Lookup(sess.ID)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got != sess {
		t.Error("Lookup() returned a different session instance")
	}

	anonymous := store.Create(false)
	if anonymous.AwaitingID {
		t.Error("Create(false) AwaitingID = true, want false")
	}
}

func TestMemoryStore_LookupUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Lookup("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	sess := store.Create(true)

	store.Delete(sess.ID)

	if _, err := store.Lookup(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup() after delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	sess := store.Create(false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.Lookup(sess.ID)
			if err != nil {
				t.Errorf("Lookup() error = %v", err)
				return
			}
			got.Lock()
			got.LastResponse = "turn"
			got.Unlock()
			store.Create(false)
		}()
	}
	wg.Wait()
}

func TestSession_ResetForNewEmployee(t *testing.T) {
	sess := &Session{
		ID:                "fixed",
		Mode:              ModeIT,
		EmployeeID:        7,
		EmployeeName:      "Ana",
		PendingQuery:      "vpn?",
		LastResponse:      "answer",
		Ticket:            &TicketRef{Key: "SUP-1"},
		MismatchRedirect:  &Redirect{OriginalQuery: "q"},
		ReporterEmail:     "a@example.com",
		ExpectingNewQuery: true,
	}

	sess.ResetForNewEmployee()

	if sess.ID != "fixed" {
		t.Error("ResetForNewEmployee() changed session id")
	}
	if !sess.AwaitingID {
		t.Error("ResetForNewEmployee() AwaitingID = false, want true")
	}
	if sess.Mode != ModeNone || sess.EmployeeID != 0 || sess.EmployeeName != "" {
		t.Error("ResetForNewEmployee() did not clear identity")
	}
	if sess.Ticket != nil || sess.MismatchRedirect != nil {
		t.Error("ResetForNewEmployee() did not clear ticket state")
	}
	if sess.PendingQuery != "" || sess.LastResponse != "" || sess.ReporterEmail != "" {
		t.Error("ResetForNewEmployee() did not clear conversation state")
	}
}

func TestSession_SwitchMode(t *testing.T) {
	sess := &Session{
		Mode:         ModeIT,
		EmployeeID:   7,
		EmployeeName: "Ana",
		Ticket:       &TicketRef{Key: "SUP-1", AssignedLevel: "L1"},
		LastResponse: "answer",
	}

	sess.SwitchMode(ModeHR)

	if sess.Mode != ModeHR {
		t.Errorf("SwitchMode() mode = %q, want HR", sess.Mode)
	}
	if sess.EmployeeID != 7 || sess.EmployeeName != "Ana" {
		t.Error("SwitchMode() should keep employee identity")
	}
	if sess.Ticket != nil {
		t.Error("SwitchMode() should detach the open ticket")
	}
	if sess.LastResponse != "" {
		t.Error("SwitchMode() should clear the last response")
	}
}
