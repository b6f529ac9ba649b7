package chat

// Intent is a client-signalled action accompanying a turn. Unknown wire
// strings map to IntentNone, which takes the default classify path.
type Intent int

const (
	IntentNone Intent = iota
	IntentFarewell
	IntentReset
	IntentSelectIT
	IntentSelectHR
	IntentContinueMode
	IntentHelpful
	IntentNotHelpful
	IntentProvideEmail
	IntentStay
	IntentAskAnother
	IntentRephrase
)

var intentNames = map[string]Intent{
	"user_said_no_thank_you":          IntentFarewell,
	"reset_session_for_new_employee":  IntentReset,
	"select_mode_it":                  IntentSelectIT,
	"select_mode_hr":                  IntentSelectHR,
	"continue_with_current_mode":      IntentContinueMode,
	"user_feedback_helpful":           IntentHelpful,
	"user_feedback_not_helpful":       IntentNotHelpful,
	"provide_email_for_ticket_update": IntentProvideEmail,
	"stay_in_current_mode":            IntentStay,
	"ask_another_question_init":       IntentAskAnother,
	"rephrase_question_init":          IntentRephrase,
}

// ParseIntent maps a wire intent string to its typed value.
func ParseIntent(s string) Intent {
	if intent, ok := intentNames[s]; ok {
		return intent
	}
	return IntentNone
}

func (i Intent) String() string {
	for name, intent := range intentNames {
		if intent == i {
			return name
		}
	}
	return "none"
}
