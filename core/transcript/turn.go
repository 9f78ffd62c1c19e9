// Package transcript holds the conversational transcript data model: finalized
// role-tagged turns and the flat session log handed to post-session analysis.
package transcript

import (
	"strings"
	"time"
)

// Role identifies which side of the conversation produced a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Label is the role prefix used in the flat transcript log.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAgent:
		return "Agent"
	}
	return string(r)
}

// Turn is one finalized span of conversational text. Turns are immutable
// once created; order of creation equals flush order, not fragment arrival
// order.
type Turn struct {
	ID        string
	Role      Role
	Text      string
	Timestamp time.Time
}

// IsZero reports whether the turn carries no committed text.
func (t Turn) IsZero() bool {
	return strings.TrimSpace(t.Text) == ""
}
