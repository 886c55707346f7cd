// Package gormstore backs the record store with a hosted SQL database
// (Postgres, e.g. Supabase, or MySQL) through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wedding-invitation/internal/models"
	"wedding-invitation/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on gorm.
type Store struct {
	db *gorm.DB
}

// Open connects using a postgres:// or mysql:// URL and migrates the tables.
func Open(rawURL string, log zerolog.Logger) (*Store, error) {
	dialector, err := dialectorFor(rawURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.New(&log, logger.Config{SlowThreshold: time.Second, LogLevel: logger.Warn}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return open(db)
}

func open(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&guestRow{}, &invitationRow{}, &familyMemberRow{}, &eventRow{}, &photoRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(rawURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return postgres.Open(rawURL), nil
	case strings.HasPrefix(rawURL, "mysql://"):
		dsn, err := mysqlDSNFromURL(rawURL)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database url scheme in %q", redact(rawURL))
	}
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}
	// Report matched rows so saving unchanged values is not mistaken for a
	// missing guest.
	if q.Get("clientFoundRows") == "" {
		q.Set("clientFoundRows", "true")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}

// GetGuest retrieves a guest by id.
func (s *Store) GetGuest(ctx context.Context, id string) (models.Guest, error) {
	var row guestRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Guest{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Guest{}, fmt.Errorf("failed to get guest %s: %w", id, err)
	}
	return row.toModel()
}

// InsertGuest stores a new guest. A taken id yields storage.ErrConflict.
func (s *Store) InsertGuest(ctx context.Context, guest models.Guest) error {
	row := newGuestRow(guest)
	err := s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("insert guest %s: %w", guest.ID, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert guest: %w", err)
	}
	return nil
}

// UpdateGuestStatus sets the RSVP status and its timestamp.
func (s *Store) UpdateGuestStatus(ctx context.Context, id string, status models.RSVPStatus, updatedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&guestRow{}).Where("id = ?", id).Updates(map[string]any{
		"status":     statusColumn(status),
		"updated_at": updatedAt.UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update guest status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.guestExists(ctx, id)
	}
	return nil
}

// UpdateGuestFields changes name and/or mobile; status is never touched.
func (s *Store) UpdateGuestFields(ctx context.Context, id string, fields storage.GuestFields) error {
	updates := map[string]any{}
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.Mobile != nil {
		updates["mobile"] = *fields.Mobile
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&guestRow{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update guest: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.guestExists(ctx, id)
	}
	return nil
}

// guestExists returns storage.ErrNotFound unless id is stored. Some drivers
// count only changed rows, so an update with identical values affects none.
func (s *Store) guestExists(ctx context.Context, id string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&guestRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check guest %s: %w", id, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteGuest permanently removes a guest.
func (s *Store) DeleteGuest(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&guestRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete guest: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListGuests returns all guests, newest first.
func (s *Store) ListGuests(ctx context.Context) ([]models.Guest, error) {
	var rows []guestRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}

	guests := make([]models.Guest, 0, len(rows))
	for _, row := range rows {
		g, err := row.toModel()
		if err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, nil
}

// LoadContent reads the invitation, family, events and gallery.
func (s *Store) LoadContent(ctx context.Context) (models.Content, error) {
	db := s.db.WithContext(ctx)
	var c models.Content

	var inv invitationRow
	err := db.Limit(1).Find(&inv).Error
	if err != nil {
		return models.Content{}, fmt.Errorf("failed to load invitation: %w", err)
	}
	c.Invitation = inv.toModel()

	var family []familyMemberRow
	if err := db.Order("position").Find(&family).Error; err != nil {
		return models.Content{}, fmt.Errorf("failed to load family: %w", err)
	}
	for _, m := range family {
		c.Family = append(c.Family, m.toModel())
	}

	var events []eventRow
	if err := db.Order("starts_at").Find(&events).Error; err != nil {
		return models.Content{}, fmt.Errorf("failed to load events: %w", err)
	}
	for _, e := range events {
		c.Events = append(c.Events, e.toModel())
	}

	var photos []photoRow
	if err := db.Order("created_at DESC").Find(&photos).Error; err != nil {
		return models.Content{}, fmt.Errorf("failed to load photos: %w", err)
	}
	for _, p := range photos {
		c.Photos = append(c.Photos, p.toModel())
	}

	return c, nil
}

// ReplaceContent swaps all invitation content in one transaction.
func (s *Store) ReplaceContent(ctx context.Context, c models.Content) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&invitationRow{}, &familyMemberRow{}, &eventRow{}, &photoRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear content: %w", err)
			}
		}

		inv := newInvitationRow(c.Invitation)
		if err := tx.Create(&inv).Error; err != nil {
			return fmt.Errorf("failed to insert invitation: %w", err)
		}
		for i, m := range c.Family {
			row := newFamilyMemberRow(m, i)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert family member %s: %w", m.Name, err)
			}
		}
		for _, e := range c.Events {
			row := newEventRow(e)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert event %s: %w", e.Name, err)
			}
		}
		for _, p := range c.Photos {
			row := newPhotoRow(p)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert photo: %w", err)
			}
		}
		return nil
	})
}

// AddPhoto appends one gallery photo.
func (s *Store) AddPhoto(ctx context.Context, p models.Photo) error {
	row := newPhotoRow(p)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}
