package domain

// Event topic constants
const (
	TopicAsideClosed   = "moranda.aside.closed"
	TopicOperatorError = "moranda.operator.error"
)

// AsideClosed is published once a dialogue has persisted the closed aside
type AsideClosed struct {
	DialogueID string   `json:"dialogue_id"`
	Team       string   `json:"team"`
	Channel    string   `json:"channel"`
	ClosedBy   string   `json:"closed_by"`
	Summary    string   `json:"summary"`
	SharedWith []string `json:"shared_with,omitempty"`
	DirectMsg  bool     `json:"direct_message"`
}

// OperatorError reports a failure the user does not see but an operator should
type OperatorError struct {
	DialogueID string `json:"dialogue_id"`
	Team       string `json:"team"`
	Channel    string `json:"channel"`
	Stage      string `json:"stage"`
	Error      string `json:"error"`
}
