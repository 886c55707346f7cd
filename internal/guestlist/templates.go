package guestlist

import "strings"

const (
	PlaceholderGuestName  = "{guest-name}"
	PlaceholderUniqueLink = "{unique-link}"
)

// Couple is what the preset messages say about the wedding.
type Couple struct {
	GroomFirstName string
	BrideFirstName string
	WeddingDate    string
	Venue          string
}

// Template is a named preset share message.
type Template struct {
	Name     string `json:"name"`
	Template string `json:"template"`
}

const defaultTemplate = "Dear {guest-name},\n\nYou are cordially invited to the wedding ceremony of {groom} & {bride} on {date}.\n\nClick here to view your personalized invitation: {unique-link}\n\nWe look forward to celebrating our special day with you!"

var presets = []Template{
	{
		Name:     "Formal Invitation",
		Template: "Dear {guest-name},\n\nWe are delighted to invite you to the wedding ceremony of {groom} & {bride} on {date}.\n\nPlease find your personalized invitation here: {unique-link}\n\nYour presence would make our special day complete.\n\nWarm regards,\n{groom} & {bride}",
	},
	{
		Name:     "Casual & Friendly",
		Template: "Hey {guest-name}! 🎉\n\nWe're tying the knot! You're invited to our wedding celebration on {date}.\n\nCheck out your personal invitation: {unique-link}\n\nCan't wait to celebrate with you!\n\n{groom} & {bride}",
	},
	{
		Name:     "Short & Sweet",
		Template: "Hi {guest-name},\n\nYou're invited! {groom} & {bride} are getting married on {date}.\n\nYour invitation: {unique-link}",
	},
	{
		Name:     "Elegant Request",
		Template: "Dear {guest-name},\n\nThe honor of your presence is requested at the marriage of {groom} & {bride} on {date}.\n\nKindly view your invitation: {unique-link}\n\nWe would be delighted by your attendance.",
	},
	{
		Name:     "Family Focused",
		Template: "Dear {guest-name},\n\nWith great joy, our families invite you to share in our happiness as we unite in marriage on {date}.\n\nYour personal invitation awaits: {unique-link}\n\nWith love,\n{groom} & {bride} and Families",
	},
}

func (c Couple) fill(template string) string {
	return strings.NewReplacer("{groom}", c.GroomFirstName, "{bride}", c.BrideFirstName, "{date}", c.WeddingDate).Replace(template)
}

// DefaultTemplate is the share message used until the admin saves their own.
func (c Couple) DefaultTemplate() string {
	return c.fill(defaultTemplate)
}

// Presets returns the built-in share messages for this couple.
func (c Couple) Presets() []Template {
	out := make([]Template, len(presets))
	for i, p := range presets {
		out[i] = Template{Name: p.Name, Template: c.fill(p.Template)}
	}
	return out
}
