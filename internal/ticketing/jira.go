package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"support-assistant/internal/config"
	"support-assistant/internal/contextutil"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ticketer.go -package=mocks support-assistant/internal/ticketing Ticketer

// ErrNotConfigured signals that the Jira integration is missing required settings.
var ErrNotConfigured = errors.New("jira integration not configured")

const (
	createTimeout  = 20 * time.Second
	requestTimeout = 10 * time.Second
)

// Transition names accepted when no explicit transition ID is configured.
var (
	closeTransitionNames      = []string{"Done", "Resolve Issue", "Close Issue", "Resolve", "Closed", "RESOLVED"}
	inProgressTransitionNames = []string{"Start Work", "In Progress", "Work In Progress", "OPEN"}
)

// priorityIDs maps priority names from routing decisions to Jira priority IDs.
var priorityIDs = map[string]string{
	"Highest": "1",
	"High":    "1",
	"Medium":  "2",
	"Low":     "3",
	"Lowest":  "4",
}

// Ticket is a created service desk request.
type Ticket struct {
	Key     string
	IssueID string
}

// Ticketer is the service desk surface the conversation engine uses.
type Ticketer interface {
	Create(ctx context.Context, summary, description, reporterEmail string) (Ticket, error)
	Comment(ctx context.Context, key, body string, public bool) error
	StartProgress(ctx context.Context, key string) error
	Close(ctx context.Context, key string) error
	// AssignLevel assigns the configured L1 or L2 agent and returns the level
	// actually applied, which may differ when the requested level has no agent.
	AssignLevel(ctx context.Context, key, level string) (string, error)
	SetPriority(ctx context.Context, key, priority string) error
}

// JiraClient talks to Jira Service Management.
type JiraClient struct {
	cfg    config.JiraConfig
	client *http.Client
	create *http.Client
}

// NewJiraClient creates a client for the configured Jira site.
func NewJiraClient(cfg config.JiraConfig) *JiraClient {
	return &JiraClient{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
		create: &http.Client{Timeout: createTimeout},
	}
}

func (c *JiraClient) url(path string) string {
	// Domain is normally a bare host like "acme.atlassian.net"
	if strings.Contains(c.cfg.Domain, "://") {
		return c.cfg.Domain + path
	}
	return fmt.Sprintf("https://%s%s", c.cfg.Domain, path)
}

// do issues an authenticated JSON request and returns the response body.
// 2xx statuses are success, 204 yields an empty body.
func (c *JiraClient) do(ctx context.Context, client *http.Client, method, url string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.cfg.UserEmail, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jira returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

type createRequest struct {
	ServiceDeskID      string            `json:"serviceDeskId"`
	RequestTypeID      string            `json:"requestTypeId"`
	RequestFieldValues map[string]string `json:"requestFieldValues"`
	RaiseOnBehalfOf    string            `json:"raiseOnBehalfOf,omitempty"`
}

type createResponse struct {
	IssueKey string `json:"issueKey"`
	IssueID  string `json:"issueId"`
}

// Create opens a service desk request. reporterEmail is optional; when set the
// request is raised on the reporter's behalf so they get status emails.
func (c *JiraClient) Create(ctx context.Context, summary, description, reporterEmail string) (Ticket, error) {
	if !c.cfg.Configured() || c.cfg.ServiceDeskID == "" || c.cfg.RequestTypeID == "" {
		return Ticket{}, ErrNotConfigured
	}
	logger := contextutil.LoggerFromContext(ctx)

	payload := createRequest{
		ServiceDeskID: c.cfg.ServiceDeskID,
		RequestTypeID: c.cfg.RequestTypeID,
		RequestFieldValues: map[string]string{
			"summary":     summary,
			"description": description,
		},
		RaiseOnBehalfOf: reporterEmail,
	}

	raw, err := c.do(ctx, c.create, "POST", c.url("/rest/servicedeskapi/request"), payload)
	if err != nil {
		return Ticket{}, fmt.Errorf("failed to create ticket: %w", err)
	}

	var resp createResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Ticket{}, fmt.Errorf("failed to decode create response: %w", err)
	}
	if resp.IssueKey == "" {
		return Ticket{}, fmt.Errorf("create response missing issue key")
	}

	logger.InfoContext(ctx, "jira ticket created", "key", resp.IssueKey)
	return Ticket{Key: resp.IssueKey, IssueID: resp.IssueID}, nil
}

// Comment adds a comment to a service desk request. Public comments are
// visible to the reporter, private ones only to agents.
func (c *JiraClient) Comment(ctx context.Context, key, body string, public bool) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}
	payload := map[string]any{"body": body, "public": public}
	_, err := c.do(ctx, c.client, "POST", c.url("/rest/servicedeskapi/request/"+key+"/comment"), payload)
	if err != nil {
		return fmt.Errorf("failed to add comment to %s: %w", key, err)
	}
	return nil
}

type transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type transitionsResponse struct {
	Transitions []transition `json:"transitions"`
}

// findTransitionID looks up a workflow transition by any of the given names.
func (c *JiraClient) findTransitionID(ctx context.Context, key string, names []string) (string, error) {
	raw, err := c.do(ctx, c.client, "GET", c.url("/rest/api/3/issue/"+key+"/transitions"), nil)
	if err != nil {
		return "", fmt.Errorf("failed to list transitions for %s: %w", key, err)
	}

	var resp transitionsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to decode transitions: %w", err)
	}

	for _, t := range resp.Transitions {
		for _, name := range names {
			if strings.EqualFold(t.Name, name) {
				return t.ID, nil
			}
		}
	}
	return "", fmt.Errorf("no transition matching %v on %s", names, key)
}

func (c *JiraClient) transition(ctx context.Context, key, transitionID string) error {
	payload := map[string]any{"transition": map[string]string{"id": transitionID}}
	_, err := c.do(ctx, c.client, "POST", c.url("/rest/api/3/issue/"+key+"/transitions"), payload)
	if err != nil {
		return fmt.Errorf("failed to transition %s: %w", key, err)
	}
	return nil
}

// StartProgress moves a ticket into its in-progress state. A configured
// transition ID wins over the name lookup.
func (c *JiraClient) StartProgress(ctx context.Context, key string) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}
	id := c.cfg.TransitionInProgress
	if id == "" {
		var err error
		if id, err = c.findTransitionID(ctx, key, inProgressTransitionNames); err != nil {
			return err
		}
	}
	return c.transition(ctx, key, id)
}

// Close resolves a ticket. A configured transition ID wins over the name lookup.
func (c *JiraClient) Close(ctx context.Context, key string) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}
	id := c.cfg.TransitionClose
	if id == "" {
		var err error
		if id, err = c.findTransitionID(ctx, key, closeTransitionNames); err != nil {
			return err
		}
	}
	return c.transition(ctx, key, id)
}

// AssignLevel assigns the agent configured for the requested level. When the
// requested level has no configured agent it falls back to L1 and reports the
// applied level.
func (c *JiraClient) AssignLevel(ctx context.Context, key, level string) (string, error) {
	if !c.cfg.Configured() {
		return "", ErrNotConfigured
	}

	applied := strings.ToUpper(level)
	accountID := ""
	switch applied {
	case "L2":
		accountID = c.cfg.L2AssigneeID
	case "L1":
		accountID = c.cfg.L1AssigneeID
	}
	if accountID == "" && c.cfg.L1AssigneeID != "" {
		accountID = c.cfg.L1AssigneeID
		applied = "L1"
	}
	if accountID == "" {
		return "", fmt.Errorf("no assignee configured for level %s", level)
	}

	payload := map[string]string{"accountId": accountID}
	if _, err := c.do(ctx, c.client, "PUT", c.url("/rest/api/3/issue/"+key+"/assignee"), payload); err != nil {
		return "", fmt.Errorf("failed to assign %s: %w", key, err)
	}
	return applied, nil
}

// SetPriority sets the ticket priority by name. Unknown names map to Medium.
func (c *JiraClient) SetPriority(ctx context.Context, key, priority string) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}

	id, ok := priorityIDs[priority]
	if !ok {
		id = priorityIDs["Medium"]
	}

	payload := map[string]any{"fields": map[string]any{"priority": map[string]string{"id": id}}}
	if _, err := c.do(ctx, c.client, "PUT", c.url("/rest/api/3/issue/"+key), payload); err != nil {
		return fmt.Errorf("failed to set priority on %s: %w", key, err)
	}
	return nil
}
