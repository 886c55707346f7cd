// Package storage defines the record store behind guests and invitation content.
package storage

import (
	"context"
	"errors"
	"time"

	"wedding-invitation/internal/models"
)

var (
	// ErrNotFound is returned when no guest has the requested id.
	ErrNotFound = errors.New("guest not found")
	// ErrConflict is returned when an inserted guest id is already taken.
	ErrConflict = errors.New("guest id already exists")
)

// GuestFields carries the admin-editable guest columns. Nil fields are left alone.
type GuestFields struct {
	Name   *string
	Mobile *string
}

// GuestStore is the guests table.
type GuestStore interface {
	GetGuest(ctx context.Context, id string) (models.Guest, error)
	InsertGuest(ctx context.Context, guest models.Guest) error
	UpdateGuestStatus(ctx context.Context, id string, status models.RSVPStatus, updatedAt time.Time) error
	UpdateGuestFields(ctx context.Context, id string, fields GuestFields) error
	DeleteGuest(ctx context.Context, id string) error
	// ListGuests returns every guest, newest first.
	ListGuests(ctx context.Context) ([]models.Guest, error)
}

// ContentStore holds the invitation content shown to every guest.
type ContentStore interface {
	LoadContent(ctx context.Context) (models.Content, error)
	ReplaceContent(ctx context.Context, content models.Content) error
	AddPhoto(ctx context.Context, photo models.Photo) error
}

// Store is a complete record store backend.
type Store interface {
	GuestStore
	ContentStore
	Close() error
}
