package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wedding-invitation/internal/models"
)

// LoadContent reads the invitation, family, events and gallery.
// A database that was never seeded returns empty content.
func (s *Store) LoadContent(ctx context.Context) (models.Content, error) {
	var c models.Content

	var weddingAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, bride_first_name, bride_last_name, groom_first_name, groom_last_name,
		       wedding_at, venue_name, venue_address, venue_map_link, couple_photo_url, email, phone_number
		FROM invitations LIMIT 1`).Scan(
		&c.Invitation.ID, &c.Invitation.BrideFirstName, &c.Invitation.BrideLastName,
		&c.Invitation.GroomFirstName, &c.Invitation.GroomLastName, &weddingAt,
		&c.Invitation.VenueName, &c.Invitation.VenueAddress, &c.Invitation.VenueMapLink,
		&c.Invitation.CouplePhotoURL, &c.Invitation.Email, &c.Invitation.PhoneNumber,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return models.Content{}, fmt.Errorf("failed to load invitation: %w", err)
	default:
		c.Invitation.WeddingAt = fromUnix(weddingAt)
	}

	family, err := s.loadFamily(ctx)
	if err != nil {
		return models.Content{}, err
	}
	c.Family = family

	events, err := s.loadEvents(ctx)
	if err != nil {
		return models.Content{}, err
	}
	c.Events = events

	photos, err := s.loadPhotos(ctx)
	if err != nil {
		return models.Content{}, err
	}
	c.Photos = photos

	return c, nil
}

func (s *Store) loadFamily(ctx context.Context) ([]models.FamilyMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, family_type, name, relation, description, image_url, is_parent
		FROM family_members ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load family: %w", err)
	}
	defer rows.Close()

	var family []models.FamilyMember
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.ID, &m.Side, &m.Name, &m.Relation, &m.Description, &m.ImageURL, &m.IsParent); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		family = append(family, m)
	}
	return family, rows.Err()
}

func (s *Store) loadEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, starts_at, venue_name, venue_address, venue_map_link
		FROM events ORDER BY starts_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			e        models.Event
			startsAt int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &startsAt, &e.VenueName, &e.VenueAddress, &e.VenueMapLink); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.StartsAt = fromUnix(startsAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) loadPhotos(ctx context.Context) ([]models.Photo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, photo_url, created_at FROM gallery_photos ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to load photos: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var (
			p         models.Photo
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &p.URL, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		p.CreatedAt = fromUnix(createdAt)
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// ReplaceContent swaps all invitation content in one transaction.
func (s *Store) ReplaceContent(ctx context.Context, c models.Content) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"invitations", "family_members", "events", "gallery_photos"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	inv := c.Invitation
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO invitations (id, bride_first_name, bride_last_name, groom_first_name, groom_last_name,
		    wedding_at, venue_name, venue_address, venue_map_link, couple_photo_url, email, phone_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.BrideFirstName, inv.BrideLastName, inv.GroomFirstName, inv.GroomLastName,
		toUnix(inv.WeddingAt), inv.VenueName, inv.VenueAddress, inv.VenueMapLink, inv.CouplePhotoURL,
		inv.Email, inv.PhoneNumber,
	); err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}

	for i, m := range c.Family {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO family_members (id, family_type, name, relation, description, image_url, is_parent, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, string(m.Side), m.Name, m.Relation, m.Description, m.ImageURL, m.IsParent, i,
		); err != nil {
			return fmt.Errorf("failed to insert family member %s: %w", m.Name, err)
		}
	}

	for _, e := range c.Events {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, name, starts_at, venue_name, venue_address, venue_map_link)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Name, toUnix(e.StartsAt), e.VenueName, e.VenueAddress, e.VenueMapLink,
		); err != nil {
			return fmt.Errorf("failed to insert event %s: %w", e.Name, err)
		}
	}

	for _, p := range c.Photos {
		if err := insertPhoto(ctx, tx, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AddPhoto appends one gallery photo.
func (s *Store) AddPhoto(ctx context.Context, p models.Photo) error {
	return insertPhoto(ctx, s.db, p)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertPhoto(ctx context.Context, db execer, p models.Photo) error {
	if _, err := db.ExecContext(ctx,
		"INSERT INTO gallery_photos (id, photo_url, created_at) VALUES (?, ?, ?)",
		p.ID, p.URL, toUnix(p.CreatedAt),
	); err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}
