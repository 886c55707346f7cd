// Package guestlist administers the guest list and builds the per-guest
// artifacts shared with guests: invite links, messages, WhatsApp links and QR codes.
package guestlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"wedding-invitation/internal/models"
	"wedding-invitation/internal/routepath"
	"wedding-invitation/internal/storage"
)

// ErrMissingFields is returned when a guest is submitted without name or mobile.
var ErrMissingFields = errors.New("please provide both name and mobile number")

// Config holds the deployment details the manager needs.
type Config struct {
	// Origin is the public base URL of the invitation site, e.g. https://wedding.example.
	Origin string
	// CountryCode is prefixed to mobile numbers written without one.
	CountryCode string
}

// Manager administers guests.
type Manager struct {
	store       storage.GuestStore
	log         zerolog.Logger
	origin      string
	countryCode string
	newID       func() (string, error)
}

// NewManager creates a guest list manager.
func NewManager(store storage.GuestStore, cfg Config, log zerolog.Logger) *Manager {
	return &Manager{
		store:       store,
		log:         log.With().Str("component", "guestlist").Logger(),
		origin:      strings.TrimRight(cfg.Origin, "/"),
		countryCode: cfg.CountryCode,
		newID:       NewShortID,
	}
}

// CreateGuest adds a guest with a fresh short id. If the insert fails the id
// is regenerated and the insert retried once. Once a row is written it is
// never inserted again, even if reading it back fails.
func (m *Manager) CreateGuest(ctx context.Context, name, mobile string) (models.Guest, error) {
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	if name == "" || mobile == "" {
		return models.Guest{}, ErrMissingFields
	}

	id, err := m.insert(ctx, name, mobile)
	if err != nil {
		m.log.Warn().Err(err).Str("guest_id", id).Msg("Error adding guest, retrying with a new id")

		id, err = m.insert(ctx, name, mobile)
		if err != nil {
			m.log.Error().Err(err).Msg("Error adding guest")
			return models.Guest{}, fmt.Errorf("failed to add guest: %w", err)
		}
	}

	guest, err := m.store.GetGuest(ctx, id)
	if err != nil {
		m.log.Error().Err(err).Str("guest_id", id).Msg("Error loading new guest")
		return models.Guest{}, fmt.Errorf("failed to load guest %s: %w", id, err)
	}
	return guest, nil
}

func (m *Manager) insert(ctx context.Context, name, mobile string) (string, error) {
	id, err := m.newID()
	if err != nil {
		return "", err
	}
	guest := models.Guest{ID: id, Name: name, Mobile: mobile, Status: models.RSVPUnset}
	if err := m.store.InsertGuest(ctx, guest); err != nil {
		return id, err
	}
	m.log.Info().Str("guest_id", id).Str("name", name).Msg("Guest added")
	return id, nil
}

// ListGuests returns all guests, newest first.
func (m *Manager) ListGuests(ctx context.Context) ([]models.Guest, error) {
	guests, err := m.store.ListGuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest list: %w", err)
	}
	return guests, nil
}

// ListGuestsByStatus returns the guests currently in status, newest first.
func (m *Manager) ListGuestsByStatus(ctx context.Context, status models.RSVPStatus) ([]models.Guest, error) {
	guests, err := m.ListGuests(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.Guest, 0, len(guests))
	for _, g := range guests {
		if g.Status == status {
			result = append(result, g)
		}
	}
	return result, nil
}

// GetGuest retrieves a single guest.
func (m *Manager) GetGuest(ctx context.Context, id string) (models.Guest, error) {
	return m.store.GetGuest(ctx, id)
}

// UpdateGuest edits name and mobile. The RSVP status is left untouched.
func (m *Manager) UpdateGuest(ctx context.Context, id, name, mobile string) (models.Guest, error) {
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	if name == "" || mobile == "" {
		return models.Guest{}, ErrMissingFields
	}

	if err := m.store.UpdateGuestFields(ctx, id, storage.GuestFields{Name: &name, Mobile: &mobile}); err != nil {
		m.log.Error().Err(err).Str("guest_id", id).Msg("Error updating guest")
		return models.Guest{}, fmt.Errorf("failed to update guest: %w", err)
	}
	return m.store.GetGuest(ctx, id)
}

// DeleteGuest permanently removes a guest.
func (m *Manager) DeleteGuest(ctx context.Context, id string) error {
	if err := m.store.DeleteGuest(ctx, id); err != nil {
		m.log.Error().Err(err).Str("guest_id", id).Msg("Error deleting guest")
		return fmt.Errorf("failed to remove guest: %w", err)
	}
	m.log.Info().Str("guest_id", id).Msg("Guest removed")
	return nil
}

// InviteLink is the personal link handed to a guest.
func (m *Manager) InviteLink(id string) string {
	return m.origin + routepath.GuestLanding(id)
}

// ShareMessage fills the {guest-name} and {unique-link} placeholders of template.
func (m *Manager) ShareMessage(template string, guest models.Guest) string {
	return strings.NewReplacer(
		PlaceholderGuestName, guest.Name,
		PlaceholderUniqueLink, m.InviteLink(guest.ID),
	).Replace(template)
}
