// Package session resolves the guest behind a URL and keeps their state for
// one browsing session.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"wedding-invitation/internal/models"
	"wedding-invitation/internal/routepath"
	"wedding-invitation/internal/rsvp"
	"wedding-invitation/internal/storage"
)

// GuestReader loads a guest by id.
type GuestReader interface {
	GetGuest(ctx context.Context, id string) (models.Guest, error)
}

// Snapshot is the guest context as seen by the invitation page.
type Snapshot struct {
	GuestID string            `json:"guest_id,omitempty"`
	Name    string            `json:"name"`
	Status  models.RSVPStatus `json:"status"`
	Loading bool              `json:"loading"`
}

// HasAccepted reports whether the page should show the thank-you view.
func (s Snapshot) HasAccepted() bool {
	return s.Status == models.RSVPAccepted
}

// Session is one guest context. It is safe for concurrent use; when
// navigations overlap only the latest one commits its result.
type Session struct {
	guests  GuestReader
	machine *rsvp.Machine
	log     zerolog.Logger

	mu      sync.Mutex
	gen     uint64
	guestID string
	name    string
	status  models.RSVPStatus
	loading bool
}

// New creates a session. It reports Loading until the first Navigate settles.
func New(guests GuestReader, machine *rsvp.Machine, log zerolog.Logger) *Session {
	return &Session{
		guests:  guests,
		machine: machine,
		log:     log.With().Str("component", "session").Logger(),
		loading: true,
	}
}

// Snapshot returns the current guest context.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{GuestID: s.guestID, Name: s.name, Status: s.status, Loading: s.loading}
}

// Navigate resolves path into a guest context. Paths without a guest id, unknown
// ids and store failures all leave the session anonymous. A guest opening
// their invitation is marked as viewed unless they already answered.
func (s *Session) Navigate(ctx context.Context, path string) Snapshot {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.loading = true
	s.mu.Unlock()

	id, ok := routepath.GuestID(path)
	if !ok {
		s.commit(gen, models.Guest{})
		return s.settle(gen)
	}

	guest, err := s.guests.GetGuest(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.log.Warn().Str("guest_id", id).Msg("Guest not found")
		s.commit(gen, models.Guest{})
		return s.settle(gen)
	case err != nil:
		s.log.Error().Err(err).Str("guest_id", id).Msg("Error fetching guest")
		s.commit(gen, models.Guest{})
		return s.settle(gen)
	}

	if !s.commit(gen, guest) {
		return s.Snapshot()
	}

	if routepath.IsGuestView(path) && !guest.Status.IsTerminal() {
		s.markViewed(ctx, gen)
	}
	return s.settle(gen)
}

// MarkViewed applies the viewed transition to the bound guest.
func (s *Session) MarkViewed(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	return s.markViewed(ctx, gen)
}

func (s *Session) markViewed(ctx context.Context, gen uint64) error {
	s.mu.Lock()
	id, current := s.guestID, s.status
	s.mu.Unlock()

	next, err := s.machine.MarkViewed(ctx, id, current)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.guestID == id {
		s.status = next
	}
	return nil
}

// Respond records the bound guest's answer. On failure the snapshot keeps
// the previous status.
func (s *Session) Respond(ctx context.Context, decision models.RSVPStatus) (Snapshot, error) {
	s.mu.Lock()
	id, current := s.guestID, s.status
	s.mu.Unlock()

	next, err := s.machine.Respond(ctx, id, current, decision)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && s.guestID == id {
		s.status = next
	}
	return s.snapshotLocked(), err
}

// commit stores a lookup result if gen is still the latest navigation.
func (s *Session) commit(gen uint64, guest models.Guest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.log.Debug().Str("guest_id", guest.ID).Msg("Discarding stale guest lookup")
		return false
	}
	s.guestID = guest.ID
	s.name = guest.Name
	s.status = guest.Status
	return true
}

func (s *Session) settle(gen uint64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.loading = false
	}
	return s.snapshotLocked()
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
