// Package content serves the invitation page: couple, families, events,
// gallery and the wedding countdown.
package content

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"wedding-invitation/internal/models"
	"wedding-invitation/internal/storage"
)

// Page is the invitation as rendered for a guest.
type Page struct {
	Invitation  models.Invitation     `json:"invitation"`
	BrideFamily []models.FamilyMember `json:"bride_family"`
	GroomFamily []models.FamilyMember `json:"groom_family"`
	Events      []models.Event        `json:"events"`
	Photos      []models.Photo        `json:"photos"`
	Countdown   Countdown             `json:"countdown"`
}

// Countdown is the time left until the wedding.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Over reports whether the countdown has reached zero.
func (c Countdown) Over() bool {
	return c == Countdown{}
}

// CountdownTo returns the time remaining from now until target. Once the
// target has passed every field is zero.
func CountdownTo(now, target time.Time) Countdown {
	d := target.Sub(now)
	if d <= 0 {
		return Countdown{}
	}
	return Countdown{
		Days:    int(d / (24 * time.Hour)),
		Hours:   int(d % (24 * time.Hour) / time.Hour),
		Minutes: int(d % time.Hour / time.Minute),
		Seconds: int(d % time.Minute / time.Second),
	}
}

// Service reads and seeds invitation content.
type Service struct {
	store storage.ContentStore
	log   zerolog.Logger
	now   func() time.Time
}

// NewService creates a content service.
func NewService(store storage.ContentStore, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "content").Logger(),
		now:   time.Now,
	}
}

// Load assembles the invitation page.
func (s *Service) Load(ctx context.Context) (Page, error) {
	c, err := s.store.LoadContent(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Error loading invitation content")
		return Page{}, err
	}

	page := Page{
		Invitation: c.Invitation,
		Events:     c.Events,
		Photos:     c.Photos,
		Countdown:  CountdownTo(s.now(), c.Invitation.WeddingAt),
	}
	for _, m := range c.Family {
		switch m.Side {
		case models.FamilyBride:
			page.BrideFamily = append(page.BrideFamily, m)
		case models.FamilyGroom:
			page.GroomFamily = append(page.GroomFamily, m)
		}
	}
	parentsFirst(page.BrideFamily)
	parentsFirst(page.GroomFamily)

	sort.SliceStable(page.Events, func(i, j int) bool {
		return page.Events[i].StartsAt.Before(page.Events[j].StartsAt)
	})
	sort.SliceStable(page.Photos, func(i, j int) bool {
		return page.Photos[i].CreatedAt.After(page.Photos[j].CreatedAt)
	})
	return page, nil
}

func parentsFirst(members []models.FamilyMember) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].IsParent && !members[j].IsParent
	})
}

// Seed replaces the stored content. Entries without an id get one.
func (s *Service) Seed(ctx context.Context, c models.Content) error {
	if c.Invitation.ID == "" {
		c.Invitation.ID = uuid.NewString()
	}
	for i := range c.Family {
		if c.Family[i].ID == "" {
			c.Family[i].ID = uuid.NewString()
		}
		if c.Family[i].Side != models.FamilyBride && c.Family[i].Side != models.FamilyGroom {
			return fmt.Errorf("family member %q: unknown family_type %q", c.Family[i].Name, c.Family[i].Side)
		}
	}
	for i := range c.Events {
		if c.Events[i].ID == "" {
			c.Events[i].ID = uuid.NewString()
		}
	}
	now := s.now()
	for i := range c.Photos {
		if c.Photos[i].ID == "" {
			c.Photos[i].ID = uuid.NewString()
		}
		if c.Photos[i].CreatedAt.IsZero() {
			c.Photos[i].CreatedAt = now
		}
	}

	if err := s.store.ReplaceContent(ctx, c); err != nil {
		s.log.Error().Err(err).Msg("Error seeding invitation content")
		return fmt.Errorf("failed to seed content: %w", err)
	}
	s.log.Info().
		Int("family", len(c.Family)).
		Int("events", len(c.Events)).
		Int("photos", len(c.Photos)).
		Msg("Invitation content seeded")
	return nil
}

// AddPhoto records a gallery photo hosted at url.
func (s *Service) AddPhoto(ctx context.Context, url string) (models.Photo, error) {
	photo := models.Photo{ID: uuid.NewString(), URL: url, CreatedAt: s.now()}
	if err := s.store.AddPhoto(ctx, photo); err != nil {
		s.log.Error().Err(err).Str("url", url).Msg("Error adding photo")
		return models.Photo{}, fmt.Errorf("failed to add photo: %w", err)
	}
	return photo, nil
}

// LoadSeedFile parses a YAML content file.
func LoadSeedFile(path string) (models.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Content{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var c models.Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return models.Content{}, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return c, nil
}
