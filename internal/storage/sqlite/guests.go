package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"wedding-invitation/internal/models"
	"wedding-invitation/internal/storage"
)

const guestColumns = "id, name, mobile, status, created_at, updated_at"

// GetGuest retrieves a guest by id.
func (s *Store) GetGuest(ctx context.Context, id string) (models.Guest, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+guestColumns+" FROM guests WHERE id = ?", id)
	g, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Guest{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Guest{}, fmt.Errorf("failed to get guest %s: %w", id, err)
	}
	return g, nil
}

// InsertGuest stores a new guest. A taken id yields storage.ErrConflict.
func (s *Store) InsertGuest(ctx context.Context, guest models.Guest) error {
	createdAt := guest.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO guests ("+guestColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		guest.ID, guest.Name, guest.Mobile, nullStatus(guest.Status), toUnix(createdAt), nullTime(guest.UpdatedAt),
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("insert guest %s: %w", guest.ID, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert guest: %w", err)
	}
	return nil
}

// UpdateGuestStatus sets the RSVP status and its timestamp.
func (s *Store) UpdateGuestStatus(ctx context.Context, id string, status models.RSVPStatus, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE guests SET status = ?, updated_at = ? WHERE id = ?",
		nullStatus(status), toUnix(updatedAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update guest status: %w", err)
	}
	return requireRow(res)
}

// UpdateGuestFields changes name and/or mobile; status is never touched.
func (s *Store) UpdateGuestFields(ctx context.Context, id string, fields storage.GuestFields) error {
	var sets []string
	var args []any
	if fields.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *fields.Name)
	}
	if fields.Mobile != nil {
		sets = append(sets, "mobile = ?")
		args = append(args, *fields.Mobile)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE guests SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update guest: %w", err)
	}
	return requireRow(res)
}

// DeleteGuest permanently removes a guest.
func (s *Store) DeleteGuest(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM guests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}
	return requireRow(res)
}

// ListGuests returns all guests, newest first.
func (s *Store) ListGuests(ctx context.Context) ([]models.Guest, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+guestColumns+" FROM guests ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	guests := make([]models.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGuest(row scanner) (models.Guest, error) {
	var (
		g         models.Guest
		status    sql.NullString
		createdAt int64
		updatedAt sql.NullInt64
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Mobile, &status, &createdAt, &updatedAt); err != nil {
		return models.Guest{}, err
	}
	parsed, err := models.ParseRSVPStatus(status.String)
	if err != nil {
		return models.Guest{}, err
	}
	g.Status = parsed
	g.CreatedAt = fromUnix(createdAt)
	if updatedAt.Valid {
		t := fromUnix(updatedAt.Int64)
		g.UpdatedAt = &t
	}
	return g, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func nullStatus(s models.RSVPStatus) sql.NullString {
	return sql.NullString{String: string(s), Valid: s != models.RSVPUnset}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toUnix(*t), Valid: true}
}
