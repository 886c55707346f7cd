package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Guest represents a wedding guest
type Guest struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Mobile    string     `json:"mobile"`
	Status    RSVPStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// RSVPStatus represents how far a guest has got with their invitation.
// The zero value means the guest has not opened it yet and encodes as JSON null.
type RSVPStatus string

const (
	RSVPUnset    RSVPStatus = ""
	RSVPViewed   RSVPStatus = "viewed"
	RSVPAccepted RSVPStatus = "accepted"
	RSVPDeclined RSVPStatus = "declined"
)

// ParseRSVPStatus converts a stored or submitted label into a status.
func ParseRSVPStatus(value string) (RSVPStatus, error) {
	switch s := RSVPStatus(value); s {
	case RSVPUnset, RSVPViewed, RSVPAccepted, RSVPDeclined:
		return s, nil
	default:
		return RSVPUnset, fmt.Errorf("unknown rsvp status %q", value)
	}
}

// IsTerminal reports whether the guest has already answered.
func (s RSVPStatus) IsTerminal() bool {
	return s == RSVPAccepted || s == RSVPDeclined
}

func (s RSVPStatus) String() string {
	if s == RSVPUnset {
		return "not opened"
	}
	return string(s)
}

func (s RSVPStatus) MarshalJSON() ([]byte, error) {
	if s == RSVPUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *RSVPStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = RSVPUnset
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRSVPStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
