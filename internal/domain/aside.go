package domain

import "fmt"

// AsideKey identifies an aside by the team and the channel that backs it
type AsideKey struct {
	Team    string
	Channel string
}

// Validate returns ErrMissingKey when either part of the key is empty
func (k AsideKey) Validate() error {
	if k.Team == "" || k.Channel == "" {
		return ErrMissingKey
	}
	return nil
}

// Path returns the document path of the aside
func (k AsideKey) Path() string {
	return fmt.Sprintf("asides/%s/%s", k.Team, k.Channel)
}

// Aside represents a side discussion tracked as open or closed.
// A nil *Aside means the aside does not exist; Open=false means it was closed.
type Aside struct {
	Open    bool    `mapstructure:"open" json:"open"`
	Purpose string  `mapstructure:"purpose" json:"purpose"`
	Summary *string `mapstructure:"summary" json:"summary,omitempty"`
	// Owner is the user that created the aside; their token archives it
	Owner string `mapstructure:"owner" json:"owner,omitempty"`
}

// Fields returns the aside as a partial-update field map
func (a Aside) Fields() map[string]any {
	fields := map[string]any{
		"open":    a.Open,
		"purpose": a.Purpose,
	}
	if a.Summary != nil {
		fields["summary"] = *a.Summary
	}
	if a.Owner != "" {
		fields["owner"] = a.Owner
	}
	return fields
}

// ClosedFields returns the partial update that closes an aside with a summary
func ClosedFields(summary string) map[string]any {
	return map[string]any{
		"open":    false,
		"summary": summary,
	}
}
