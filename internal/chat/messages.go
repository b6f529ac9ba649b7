package chat

import (
	"fmt"
	"strings"

	"support-assistant/internal/links"
	"support-assistant/internal/session"
)

// Next-action hints returned to the client so it knows what input to collect.
const (
	NextActionExpectEmployeeID = "expect_employee_id"
	NextActionExpectMode       = "expect_mode_selection"
	NextActionExpectEmail      = "expect_email_for_ticket_update"
	NextActionPaused           = "paused_wait_for_greeting_or_query"
)

const (
	welcomeMessage = "Welcome! I am here to assist you with HR and IT related queries.\n\n" +
		"To proceed with your question, please provide your Employee ID."
	welcomeMessageOpen = "Welcome! I am here to assist you with HR and IT related queries.\n\n" +
		"Please select a department to get started:"
	farewellMessage = "Alright! Have a great day. Feel free to reach out if you need anything else."
	resetMessage    = "Session has been reset. Please provide your Employee ID to start a new conversation."

	hrFallbackMessage = "I couldn't find specific information for your HR query in my documents. " +
		"You might find these resources helpful:"
	hrErrorFallbackMessage = "I'm having a little trouble processing HR requests at the moment. " +
		"You can try these links or ask again later."
	hrNotHelpfulMessage = "Sorry that wasn’t helpful. Please check the following links or try rephrasing your question."
)

// hrReferenceLinks are the static HR self-service links offered whenever the
// HR path has nothing better.
var hrReferenceLinks = []links.Link{
	{
		URL:          "https://hoonartek.keka.com/#/org/documents/org/folder/414",
		Text:         "View Documents",
		TitlePreview: "HR Document Portal",
	},
}

func otherMode(mode session.Mode) session.Mode {
	if mode == session.ModeIT {
		return session.ModeHR
	}
	return session.ModeIT
}

func modeOptions() []string {
	return []string{"IT Related", "HR Related"}
}

func switchOption(mode session.Mode) string {
	return fmt.Sprintf("Switch to %s Assistant", otherMode(mode))
}

func feedbackOptions() []string {
	return []string{"👍 Helpful", "👎 Not Helpful"}
}

func firstName(full string) string {
	if fields := strings.Fields(full); len(fields) > 0 {
		return fields[0]
	}
	return "User"
}
