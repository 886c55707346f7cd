package gormstore

import (
	"time"

	"wedding-invitation/internal/models"
)

type guestRow struct {
	ID        string `gorm:"primaryKey;size:16"`
	Name      string `gorm:"not null"`
	Mobile    string `gorm:"not null"`
	Status    *string
	CreatedAt time.Time  `gorm:"index;autoCreateTime:false"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
}

func (guestRow) TableName() string { return "guests" }

func newGuestRow(g models.Guest) guestRow {
	createdAt := g.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return guestRow{
		ID:        g.ID,
		Name:      g.Name,
		Mobile:    g.Mobile,
		Status:    statusColumn(g.Status),
		CreatedAt: createdAt.UTC(),
		UpdatedAt: g.UpdatedAt,
	}
}

func (r guestRow) toModel() (models.Guest, error) {
	var raw string
	if r.Status != nil {
		raw = *r.Status
	}
	status, err := models.ParseRSVPStatus(raw)
	if err != nil {
		return models.Guest{}, err
	}
	return models.Guest{
		ID:        r.ID,
		Name:      r.Name,
		Mobile:    r.Mobile,
		Status:    status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func statusColumn(s models.RSVPStatus) *string {
	if s == models.RSVPUnset {
		return nil
	}
	v := string(s)
	return &v
}

type invitationRow struct {
	ID             string `gorm:"primaryKey"`
	BrideFirstName string
	BrideLastName  string
	GroomFirstName string
	GroomLastName  string
	WeddingAt      time.Time
	VenueName      string
	VenueAddress   string
	VenueMapLink   string
	CouplePhotoURL string
	Email          string
	PhoneNumber    string
}

func (invitationRow) TableName() string { return "invitations" }

func newInvitationRow(i models.Invitation) invitationRow {
	return invitationRow(i)
}

func (r invitationRow) toModel() models.Invitation {
	return models.Invitation(r)
}

type familyMemberRow struct {
	ID          string `gorm:"primaryKey"`
	FamilyType  string `gorm:"not null"`
	Name        string `gorm:"not null"`
	Relation    string
	Description string
	ImageURL    string
	IsParent    bool
	Position    int
}

func (familyMemberRow) TableName() string { return "family_members" }

func newFamilyMemberRow(m models.FamilyMember, position int) familyMemberRow {
	return familyMemberRow{
		ID:          m.ID,
		FamilyType:  string(m.Side),
		Name:        m.Name,
		Relation:    m.Relation,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		IsParent:    m.IsParent,
		Position:    position,
	}
}

func (r familyMemberRow) toModel() models.FamilyMember {
	return models.FamilyMember{
		ID:          r.ID,
		Side:        models.FamilySide(r.FamilyType),
		Name:        r.Name,
		Relation:    r.Relation,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		IsParent:    r.IsParent,
	}
}

type eventRow struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	StartsAt     time.Time
	VenueName    string
	VenueAddress string
	VenueMapLink string
}

func (eventRow) TableName() string { return "events" }

func newEventRow(e models.Event) eventRow {
	return eventRow(e)
}

func (r eventRow) toModel() models.Event {
	return models.Event(r)
}

type photoRow struct {
	ID        string `gorm:"primaryKey"`
	PhotoURL  string `gorm:"not null"`
	CreatedAt time.Time
}

func (photoRow) TableName() string { return "gallery_photos" }

func newPhotoRow(p models.Photo) photoRow {
	return photoRow{ID: p.ID, PhotoURL: p.URL, CreatedAt: p.CreatedAt}
}

func (r photoRow) toModel() models.Photo {
	return models.Photo{ID: r.ID, URL: r.PhotoURL, CreatedAt: r.CreatedAt}
}
