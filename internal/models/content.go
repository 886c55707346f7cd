package models

import "time"

// FamilySide tells which family a member belongs to.
type FamilySide string

const (
	FamilyBride FamilySide = "bride"
	FamilyGroom FamilySide = "groom"
)

// Invitation holds the couple and venue details shown on every invitation.
type Invitation struct {
	ID             string    `json:"id" yaml:"id"`
	BrideFirstName string    `json:"bride_first_name" yaml:"bride_first_name"`
	BrideLastName  string    `json:"bride_last_name" yaml:"bride_last_name"`
	GroomFirstName string    `json:"groom_first_name" yaml:"groom_first_name"`
	GroomLastName  string    `json:"groom_last_name" yaml:"groom_last_name"`
	WeddingAt      time.Time `json:"wedding_at" yaml:"wedding_at"`
	VenueName      string    `json:"venue_name" yaml:"venue_name"`
	VenueAddress   string    `json:"venue_address" yaml:"venue_address"`
	VenueMapLink   string    `json:"venue_map_link,omitempty" yaml:"venue_map_link"`
	CouplePhotoURL string    `json:"couple_photo_url,omitempty" yaml:"couple_photo_url"`
	Email          string    `json:"email,omitempty" yaml:"email"`
	PhoneNumber    string    `json:"phone_number,omitempty" yaml:"phone_number"`
}

// FamilyMember is one person listed in the family section.
type FamilyMember struct {
	ID          string     `json:"id" yaml:"id"`
	Side        FamilySide `json:"family_type" yaml:"family_type"`
	Name        string     `json:"name" yaml:"name"`
	Relation    string     `json:"relation" yaml:"relation"`
	Description string     `json:"description,omitempty" yaml:"description"`
	ImageURL    string     `json:"image_url,omitempty" yaml:"image_url"`
	IsParent    bool       `json:"is_parent" yaml:"is_parent"`
}

// Event is one ceremony in the wedding timeline.
type Event struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	StartsAt     time.Time `json:"starts_at" yaml:"starts_at"`
	VenueName    string    `json:"venue_name" yaml:"venue_name"`
	VenueAddress string    `json:"venue_address" yaml:"venue_address"`
	VenueMapLink string    `json:"venue_map_link,omitempty" yaml:"venue_map_link"`
}

// Photo is a gallery image.
type Photo struct {
	ID        string    `json:"id" yaml:"id"`
	URL       string    `json:"photo_url" yaml:"photo_url"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Content is everything the invitation page renders besides the guest.
type Content struct {
	Invitation Invitation     `json:"invitation" yaml:"invitation"`
	Family     []FamilyMember `json:"family" yaml:"family"`
	Events     []Event        `json:"events" yaml:"events"`
	Photos     []Photo        `json:"photos" yaml:"photos"`
}
