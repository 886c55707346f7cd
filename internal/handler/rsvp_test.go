package handler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"wedding-invitation/internal/guestlist"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/rsvp"
	"wedding-invitation/internal/storage/sqlite"
	"wedding-invitation/internal/whatsapp"
)

type sentMessage struct {
	mobile, text string
}

type fakeSender struct {
	sent   []sentMessage
	failTo map[string]bool
}

func (f *fakeSender) SendMessage(_ context.Context, mobile, message string) error {
	if f.failTo[mobile] {
		return errors.New("not on whatsapp")
	}
	f.sent = append(f.sent, sentMessage{mobile, message})
	return nil
}

type staticTemplate string

func (s staticTemplate) MessageTemplate() string { return string(s) }

type fixture struct {
	handler *RSVPHandler
	sender  *fakeSender
	store   *sqlite.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "guests.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := zerolog.Nop()
	guests := guestlist.NewManager(store, guestlist.Config{Origin: "https://wedding.example", CountryCode: "91"}, log)
	machine := rsvp.NewMachine(store, log)
	sender := &fakeSender{failTo: map[string]bool{}}
	h := NewRSVPHandler(sender, guests, machine, staticTemplate("Dear {guest-name}, {unique-link}"), Config{
		Couple:      guestlist.Couple{GroomFirstName: "Sidharth", BrideFirstName: "Kiara", WeddingDate: "21 Nov 2025"},
		CountryCode: "91",
		Language:    language.English,
	}, log)
	return fixture{handler: h, sender: sender, store: store}
}

func (f fixture) addGuest(t *testing.T, id, name, mobile string, status models.RSVPStatus, created time.Time) {
	t.Helper()
	require.NoError(t, f.store.InsertGuest(context.Background(), models.Guest{
		ID: id, Name: name, Mobile: mobile, Status: status, CreatedAt: created,
	}))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want models.RSVPStatus
		ok   bool
	}{
		{"Yes!", models.RSVPAccepted, true},
		{"yeah we will be there", models.RSVPAccepted, true},
		{"✅", models.RSVPAccepted, true},
		{"Sorry, not coming", models.RSVPDeclined, true},
		{"NO", models.RSVPDeclined, true},
		{"can't make it :(", models.RSVPDeclined, true},
		{"हाँ", models.RSVPAccepted, true},
		{"नहीं", models.RSVPDeclined, true},
		{"I know the venue", models.RSVPUnset, false},
		{"what time does it start?", models.RSVPUnset, false},
		{"", models.RSVPUnset, false},
	}
	for _, tt := range tests {
		got, ok := classify(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestHandleMessageAccepts(t *testing.T) {
	f := newFixture(t)
	f.addGuest(t, "aB3xZ", "Asha", "98765 43210", models.RSVPViewed, time.Now())

	err := f.handler.HandleMessage(context.Background(), whatsapp.IncomingMessage{From: "919876543210", Text: "Yes, coming!"})
	require.NoError(t, err)

	g, err := f.store.GetGuest(context.Background(), "aB3xZ")
	require.NoError(t, err)
	assert.Equal(t, models.RSVPAccepted, g.Status)
	require.NotNil(t, g.UpdatedAt)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "98765 43210", f.sender.sent[0].mobile)
	assert.Contains(t, f.sender.sent[0].text, "Kiara & Sidharth on 21 Nov 2025")
}

func TestHandleMessageChangesAnswer(t *testing.T) {
	f := newFixture(t)
	f.addGuest(t, "aB3xZ", "Asha", "+44 1234567890", models.RSVPAccepted, time.Now())

	err := f.handler.HandleMessage(context.Background(), whatsapp.IncomingMessage{From: "441234567890", Text: "Sorry we can't come after all"})
	require.NoError(t, err)

	g, err := f.store.GetGuest(context.Background(), "aB3xZ")
	require.NoError(t, err)
	assert.Equal(t, models.RSVPDeclined, g.Status)
}

func TestHandleMessageIgnores(t *testing.T) {
	f := newFixture(t)
	f.addGuest(t, "aB3xZ", "Asha", "9876543210", models.RSVPUnset, time.Now())
	ctx := context.Background()

	require.NoError(t, f.handler.HandleMessage(ctx, whatsapp.IncomingMessage{From: "15550001111", Text: "yes"}))
	require.NoError(t, f.handler.HandleMessage(ctx, whatsapp.IncomingMessage{From: "919876543210", Text: "where is the venue?"}))

	g, err := f.store.GetGuest(ctx, "aB3xZ")
	require.NoError(t, err)
	assert.Equal(t, models.RSVPUnset, g.Status)
	assert.Empty(t, f.sender.sent)
}

func TestHandleMessageConfirmationFailure(t *testing.T) {
	f := newFixture(t)
	f.addGuest(t, "aB3xZ", "Asha", "9876543210", models.RSVPUnset, time.Now())
	f.sender.failTo["9876543210"] = true

	err := f.handler.HandleMessage(context.Background(), whatsapp.IncomingMessage{From: "919876543210", Text: "yes"})
	assert.Error(t, err)

	g, err := f.store.GetGuest(context.Background(), "aB3xZ")
	require.NoError(t, err)
	assert.Equal(t, models.RSVPAccepted, g.Status, "the answer is recorded even when the reply fails")
}

func TestSendInvitation(t *testing.T) {
	f := newFixture(t)

	err := f.handler.SendInvitation(context.Background(), models.Guest{ID: "aB3xZ", Name: "Asha", Mobile: "9876543210"})
	require.NoError(t, err)

	require.Len(t, f.sender.sent, 1)
	text := f.sender.sent[0].text
	assert.Contains(t, text, "Dear Asha, https://wedding.example/aB3xZ")
	assert.Contains(t, text, "*YES* to accept")
	assert.NotContains(t, text, "Location")
}

func TestInvitationMessageIncludesVenue(t *testing.T) {
	f := newFixture(t)
	f.handler.config.Couple.Venue = "Suryagarh, Jaisalmer"

	text := f.handler.InvitationMessage(models.Guest{ID: "aB3xZ", Name: "Asha"})
	assert.Equal(t, "Dear Asha, https://wedding.example/aB3xZ\n\n📍 Location: Suryagarh, Jaisalmer\n\nReply with:\n✅ *YES* to accept\n❌ *NO* to decline", text)
}

func TestSendAll(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.addGuest(t, "g0001", "Unset", "1111111111", models.RSVPUnset, base)
	f.addGuest(t, "g0002", "Viewed", "2222222222", models.RSVPViewed, base.Add(time.Minute))
	f.addGuest(t, "g0003", "Accepted", "3333333333", models.RSVPAccepted, base.Add(2*time.Minute))
	f.addGuest(t, "g0004", "Declined", "4444444444", models.RSVPDeclined, base.Add(3*time.Minute))
	f.addGuest(t, "g0005", "Broken", "5555555555", models.RSVPUnset, base.Add(4*time.Minute))
	f.sender.failTo["5555555555"] = true

	summary, err := f.handler.SendAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 2, summary.Skipped)
	require.Len(t, summary.Failed, 1)
	assert.Contains(t, summary.Failed, "g0005")
}
