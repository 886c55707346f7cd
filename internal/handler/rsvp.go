// Package handler turns WhatsApp conversations into RSVP updates and sends
// invitations to guests.
package handler

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"wedding-invitation/internal/guestlist"
	"wedding-invitation/internal/i18n"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/rsvp"
	"wedding-invitation/internal/whatsapp"
)

// Sender delivers a text message to a mobile number.
type Sender interface {
	SendMessage(ctx context.Context, mobile, message string) error
}

// TemplateSource provides the current share message template.
type TemplateSource interface {
	MessageTemplate() string
}

type Config struct {
	Couple      guestlist.Couple
	CountryCode string
	Language    language.Tag
}

type RSVPHandler struct {
	sender    Sender
	guests    *guestlist.Manager
	machine   *rsvp.Machine
	templates TemplateSource
	config    Config
	log       zerolog.Logger
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(sender Sender, guests *guestlist.Manager, machine *rsvp.Machine, templates TemplateSource, cfg Config, log zerolog.Logger) *RSVPHandler {
	return &RSVPHandler{
		sender:    sender,
		guests:    guests,
		machine:   machine,
		templates: templates,
		config:    cfg,
		log:       log.With().Str("component", "rsvp-handler").Logger(),
	}
}

// HandleMessage processes an incoming WhatsApp message. Messages from numbers
// that are not on the guest list, or that carry no clear answer, are ignored.
func (h *RSVPHandler) HandleMessage(ctx context.Context, msg whatsapp.IncomingMessage) error {
	decision, ok := classify(msg.Text)
	if !ok {
		return nil
	}

	guest, ok, err := h.findGuest(ctx, msg.From)
	if err != nil {
		return err
	}
	if !ok {
		h.log.Debug().Str("sender", msg.From).Msg("Ignoring message from unknown number")
		return nil
	}

	if _, err := h.machine.Respond(ctx, guest.ID, guest.Status, decision); err != nil {
		return fmt.Errorf("failed to update RSVP: %w", err)
	}

	p := i18n.Printer(h.config.Language)
	c := h.config.Couple
	var reply string
	if decision == models.RSVPAccepted {
		reply = p.Sprintf(i18n.KeyReplyAccepted, c.BrideFirstName, c.GroomFirstName, c.WeddingDate)
	} else {
		reply = p.Sprintf(i18n.KeyReplyDeclined, c.BrideFirstName, c.GroomFirstName)
	}

	if err := h.sender.SendMessage(ctx, guest.Mobile, reply); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	return nil
}

// findGuest returns the newest guest whose mobile normalizes to from.
func (h *RSVPHandler) findGuest(ctx context.Context, from string) (models.Guest, bool, error) {
	guests, err := h.guests.ListGuests(ctx)
	if err != nil {
		return models.Guest{}, false, err
	}
	for _, g := range guests {
		if guestlist.NormalizeMobile(g.Mobile, h.config.CountryCode) == from {
			return g, true, nil
		}
	}
	return models.Guest{}, false, nil
}

// InvitationMessage is the text sent to guest: the share template filled in
// for them, the venue when configured, then reply instructions.
func (h *RSVPHandler) InvitationMessage(guest models.Guest) string {
	p := i18n.Printer(h.config.Language)
	msg := h.guests.ShareMessage(h.templates.MessageTemplate(), guest)
	if venue := h.config.Couple.Venue; venue != "" {
		msg += "\n\n" + p.Sprintf(i18n.KeyInvitationVenue, venue)
	}
	return msg + "\n\n" + p.Sprintf(i18n.KeyInvitationFooter)
}

// SendInvitation sends a wedding invitation to a guest
func (h *RSVPHandler) SendInvitation(ctx context.Context, guest models.Guest) error {
	if err := h.sender.SendMessage(ctx, guest.Mobile, h.InvitationMessage(guest)); err != nil {
		h.log.Error().Err(err).Str("guest_id", guest.ID).Msg("Error sending invitation")
		return fmt.Errorf("failed to send invitation: %w", err)
	}
	h.log.Info().Str("guest_id", guest.ID).Str("name", guest.Name).Msg("Invitation sent")
	return nil
}

// SendSummary reports a bulk send.
type SendSummary struct {
	Sent    int               `json:"sent"`
	Skipped int               `json:"skipped"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// SendAll sends the invitation to every guest who has not answered yet. A
// failed send is recorded and the remaining guests are still tried.
func (h *RSVPHandler) SendAll(ctx context.Context) (SendSummary, error) {
	guests, err := h.guests.ListGuests(ctx)
	if err != nil {
		return SendSummary{}, err
	}

	var summary SendSummary
	for _, g := range guests {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if g.Status.IsTerminal() {
			summary.Skipped++
			continue
		}
		if err := h.SendInvitation(ctx, g); err != nil {
			if summary.Failed == nil {
				summary.Failed = make(map[string]string)
			}
			summary.Failed[g.ID] = err.Error()
			continue
		}
		summary.Sent++
	}
	return summary, nil
}

var (
	declinePhrases = []string{"not coming", "can't come", "cant come", "won't come", "wont come", "can't make it", "cannot make it", "not attending", "❌", "नहीं"}
	acceptPhrases  = []string{"will come", "will be there", "✅", "हाँ", "हां"}
	acceptWords    = []string{"yes", "yep", "yeah", "accept", "accepting", "attending", "coming", "haan"}
	declineWords   = []string{"no", "nope", "decline", "declining", "nahi", "nahin"}
)

// classify reads an accept or decline answer from free text. Negative
// phrases are checked first so "not coming" is not read as "coming".
func classify(text string) (models.RSVPStatus, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	switch {
	case containsAny(text, declinePhrases...):
		return models.RSVPDeclined, true
	case containsAny(text, acceptPhrases...):
		return models.RSVPAccepted, true
	case hasWord(words, acceptWords...):
		return models.RSVPAccepted, true
	case hasWord(words, declineWords...):
		return models.RSVPDeclined, true
	}
	return models.RSVPUnset, false
}

// containsAny checks if the text contains any of the given keywords
func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func hasWord(words []string, keywords ...string) bool {
	for _, w := range words {
		for _, k := range keywords {
			if w == k {
				return true
			}
		}
	}
	return false
}
