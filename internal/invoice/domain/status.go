package domain

import (
	"fmt"
	"strings"
)

// Status is the invoice lifecycle state. It is stored as its ordinal, so the
// declaration order below is part of the persisted format.
type Status int

const (
	StatusDraft Status = iota
	StatusSent
	StatusPaid
	StatusOverdue
	StatusCancelled
)

var statusNames = [...]string{"Draft", "Sent", "Paid", "Overdue", "Cancelled"}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Valid reports whether s is one of the declared lifecycle states.
func (s Status) Valid() bool {
	return s >= StatusDraft && int(s) < len(statusNames)
}

// ParseStatus resolves a status name case-insensitively.
func ParseStatus(raw string) (Status, error) {
	name := strings.TrimSpace(raw)
	for i, candidate := range statusNames {
		if strings.EqualFold(candidate, name) {
			return Status(i), nil
		}
	}
	return StatusDraft, fmt.Errorf("unknown invoice status %q", raw)
}
