// Package routepath knows the public URL shapes of the invitation site.
package routepath

import "strings"

const (
	// AdminSegment is the guest management page.
	AdminSegment = "guest-management"
	// InvitationSegment prefixes the full invitation page.
	InvitationSegment = "invitation"
)

// GuestID extracts the guest token from a path shaped like /<id> or
// /invitation/<id>. Reserved segments are never returned as an id.
func GuestID(path string) (string, bool) {
	parts := segments(path)
	switch {
	case len(parts) == 1 && !isReserved(parts[0]):
		return parts[0], true
	case len(parts) == 2 && parts[0] == InvitationSegment && !isReserved(parts[1]):
		return parts[1], true
	default:
		return "", false
	}
}

// IsGuestView reports whether visiting path counts as the guest opening their
// invitation.
func IsGuestView(path string) bool {
	return strings.Contains(path, InvitationSegment) || !strings.Contains(path, AdminSegment)
}

// GuestLanding is the short path handed out to guests.
func GuestLanding(id string) string {
	return "/" + id
}

// Invitation is the path of the full invitation for a guest.
func Invitation(id string) string {
	return "/" + InvitationSegment + "/" + id
}

func isReserved(segment string) bool {
	return segment == AdminSegment || segment == InvitationSegment
}

func segments(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	raw := strings.Split(path, "/")
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
