// Package rsvp holds the guest response state machine.
//
// A guest moves from unset to viewed when they open the invitation and to
// accepted or declined when they answer. Entering viewed is guarded: it never
// overwrites an answer. Answers are not guarded and may replace each other.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wedding-invitation/internal/models"
)

var (
	// ErrInvalidDecision is returned when a response is neither accepted nor declined.
	ErrInvalidDecision = errors.New("decision must be accepted or declined")
	// ErrNoGuest is returned when responding without a resolved guest.
	ErrNoGuest = errors.New("no guest bound")
)

// Next returns the status a guest ends up in when requested is applied to
// current. The bool is false when the transition is suppressed.
func Next(current, requested models.RSVPStatus) (models.RSVPStatus, bool) {
	switch requested {
	case models.RSVPViewed:
		if current.IsTerminal() {
			return current, false
		}
		return models.RSVPViewed, true
	case models.RSVPAccepted, models.RSVPDeclined:
		return requested, true
	default:
		return current, false
	}
}

// ParseDecision accepts "accepted"/"declined" and the short forms "accept"/"decline".
func ParseDecision(value string) (models.RSVPStatus, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "accepted", "accept":
		return models.RSVPAccepted, nil
	case "declined", "decline":
		return models.RSVPDeclined, nil
	default:
		return models.RSVPUnset, fmt.Errorf("%w: %q", ErrInvalidDecision, value)
	}
}

// StatusWriter persists a guest's status.
type StatusWriter interface {
	UpdateGuestStatus(ctx context.Context, id string, status models.RSVPStatus, updatedAt time.Time) error
}

// Machine applies transitions and writes them to the store.
type Machine struct {
	store StatusWriter
	log   zerolog.Logger
	now   func() time.Time
}

// NewMachine creates a state machine writing through store.
func NewMachine(store StatusWriter, log zerolog.Logger) *Machine {
	return &Machine{
		store: store,
		log:   log.With().Str("component", "rsvp").Logger(),
		now:   time.Now,
	}
}

// WithClock replaces the time source used for updated_at.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// MarkViewed records that the guest opened their invitation. It does nothing
// when no guest is bound or the guest has already answered.
func (m *Machine) MarkViewed(ctx context.Context, id string, current models.RSVPStatus) (models.RSVPStatus, error) {
	if id == "" {
		return current, nil
	}
	next, ok := Next(current, models.RSVPViewed)
	if !ok {
		return current, nil
	}
	return m.write(ctx, id, current, next)
}

// Respond records the guest's answer. It is always applied, even over a
// previous answer.
func (m *Machine) Respond(ctx context.Context, id string, current, decision models.RSVPStatus) (models.RSVPStatus, error) {
	if decision != models.RSVPAccepted && decision != models.RSVPDeclined {
		return current, fmt.Errorf("%w: %q", ErrInvalidDecision, string(decision))
	}
	if id == "" {
		return current, ErrNoGuest
	}
	next, _ := Next(current, decision)
	return m.write(ctx, id, current, next)
}

func (m *Machine) write(ctx context.Context, id string, current, next models.RSVPStatus) (models.RSVPStatus, error) {
	if err := m.store.UpdateGuestStatus(ctx, id, next, m.now()); err != nil {
		m.log.Error().Err(err).Str("guest_id", id).Str("status", string(next)).Msg("Error updating guest status")
		return current, fmt.Errorf("failed to update guest status to %s: %w", next, err)
	}
	m.log.Info().Str("guest_id", id).Str("from", current.String()).Str("to", string(next)).Msg("Guest status updated")
	return next, nil
}
