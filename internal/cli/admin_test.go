package cli

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-invitation/internal/guestlist"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/storage/sqlite"
)

type staticTemplate string

func (s staticTemplate) MessageTemplate() string { return string(s) }

type recordingInviter struct{ sent []string }

func (r *recordingInviter) SendInvitation(_ context.Context, g models.Guest) error {
	r.sent = append(r.sent, g.ID)
	return nil
}

func newMenu(t *testing.T, input string) (*adminMenu, *bytes.Buffer, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "guests.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	return &adminMenu{
		ctx:    context.Background(),
		in:     bufio.NewScanner(strings.NewReader(input)),
		out:    &out,
		guests: guestlist.NewManager(store, guestlist.Config{Origin: "https://wedding.example", CountryCode: "91"}, zerolog.Nop()),
		prefs:  staticTemplate("Hi {guest-name} {unique-link}"),
	}, &out, store
}

func TestAdminMenuAddAndList(t *testing.T) {
	m, out, store := newMenu(t, "1\nAsha\n98765 43210\n2\n3\n1\n6\n")
	m.run()

	guests, err := store.ListGuests(context.Background())
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, "Asha", guests[0].Name)

	text := out.String()
	assert.Contains(t, text, "✅ Guest added! Link: https://wedding.example/"+guests[0].ID)
	assert.Contains(t, text, "📋 All Guests (1 total)")
	assert.Contains(t, text, "Guests with status 'not opened' (1 total)")
	assert.Contains(t, text, "Exiting...")
}

func TestAdminMenuValidation(t *testing.T) {
	m, out, _ := newMenu(t, "1\n\n123\n9\n")
	m.run()

	assert.Contains(t, out.String(), guestlist.ErrMissingFields.Error())
	assert.Contains(t, out.String(), "Invalid command")
}

func TestAdminMenuShareAndSend(t *testing.T) {
	m, out, store := newMenu(t, "4\naB3xZ\n5\naB3xZ\n5\nnobody\n")
	require.NoError(t, store.InsertGuest(context.Background(), models.Guest{ID: "aB3xZ", Name: "Asha", Mobile: "9876543210"}))
	inv := &recordingInviter{}
	m.inviter = inv

	m.run()

	text := out.String()
	assert.Contains(t, text, "Hi Asha https://wedding.example/aB3xZ")
	assert.Contains(t, text, "https://wa.me/919876543210?text=")
	assert.Equal(t, []string{"aB3xZ"}, inv.sent)
	assert.Contains(t, text, "guest not found")
}

func TestAdminMenuSendWithoutWhatsApp(t *testing.T) {
	m, out, _ := newMenu(t, "5\n6\n")
	m.run()
	assert.Contains(t, out.String(), "WhatsApp is not connected")
}
