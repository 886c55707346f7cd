package guestlist

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-invitation/internal/models"
	"wedding-invitation/internal/routepath"
	"wedding-invitation/internal/storage"
	"wedding-invitation/internal/storage/sqlite"
)

func newTestManager(t *testing.T) (*Manager, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "guests.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewManager(store, Config{Origin: "https://wedding.example/", CountryCode: "91"}, zerolog.Nop()), store
}

// flakyStore fails the first inserts and reads and records the ids it was
// given to insert.
type flakyStore struct {
	storage.GuestStore
	failures     int
	readFailures int
	ids          []string
}

func (f *flakyStore) GetGuest(ctx context.Context, id string) (models.Guest, error) {
	if f.readFailures > 0 {
		f.readFailures--
		return models.Guest{}, errors.New("connection reset")
	}
	return f.GuestStore.GetGuest(ctx, id)
}

func (f *flakyStore) InsertGuest(ctx context.Context, g models.Guest) error {
	f.ids = append(f.ids, g.ID)
	if f.failures > 0 {
		f.failures--
		return storage.ErrConflict
	}
	return f.GuestStore.InsertGuest(ctx, g)
}

func sequenceIDs(ids ...string) func() (string, error) {
	return func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}
}

func TestCreateGuest(t *testing.T) {
	m, store := newTestManager(t)

	g, err := m.CreateGuest(context.Background(), "  Asha ", "9876543210")
	require.NoError(t, err)
	assert.Len(t, g.ID, ShortIDLength)
	assert.Equal(t, "Asha", g.Name)
	assert.Equal(t, models.RSVPUnset, g.Status)

	stored, err := store.GetGuest(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", stored.Mobile)
}

func TestCreateGuestValidation(t *testing.T) {
	f := &flakyStore{}
	m := NewManager(f, Config{}, zerolog.Nop())

	for _, tc := range [][2]string{{"", "123"}, {"Asha", "  "}, {" ", ""}} {
		_, err := m.CreateGuest(context.Background(), tc[0], tc[1])
		assert.ErrorIs(t, err, ErrMissingFields)
	}
	assert.Empty(t, f.ids, "validation must happen before any store call")
}

func TestCreateGuestRetriesOnceWithNewID(t *testing.T) {
	_, store := newTestManager(t)
	f := &flakyStore{GuestStore: store, failures: 1}
	m := NewManager(f, Config{}, zerolog.Nop())
	m.newID = sequenceIDs("taken", "fresh")

	g, err := m.CreateGuest(context.Background(), "Asha", "1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", g.ID)
	assert.Equal(t, []string{"taken", "fresh"}, f.ids)
}

func TestCreateGuestFailsAfterSecondConflict(t *testing.T) {
	_, store := newTestManager(t)
	f := &flakyStore{GuestStore: store, failures: 2}
	m := NewManager(f, Config{}, zerolog.Nop())
	m.newID = sequenceIDs("one11", "two22", "three")

	_, err := m.CreateGuest(context.Background(), "Asha", "1")
	assert.ErrorIs(t, err, storage.ErrConflict)
	assert.Equal(t, []string{"one11", "two22"}, f.ids)
}

func TestCreateGuestReadFailureDoesNotInsertTwice(t *testing.T) {
	_, store := newTestManager(t)
	f := &flakyStore{GuestStore: store, readFailures: 1}
	m := NewManager(f, Config{}, zerolog.Nop())
	m.newID = sequenceIDs("first", "secnd")

	_, err := m.CreateGuest(context.Background(), "Asha", "1")
	require.Error(t, err)
	assert.Equal(t, []string{"first"}, f.ids)

	guests, err := store.ListGuests(context.Background())
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, "first", guests[0].ID)
}

func TestCreateGuestCollisionWithExistingRow(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, store.InsertGuest(ctx, models.Guest{ID: "taken", Name: "Old", Mobile: "1"}))
	m.newID = sequenceIDs("taken", "fresh")

	g, err := m.CreateGuest(ctx, "New", "2")
	require.NoError(t, err)
	assert.Equal(t, "fresh", g.ID)

	old, err := store.GetGuest(ctx, "taken")
	require.NoError(t, err)
	assert.Equal(t, "Old", old.Name)
}

func TestListUpdateDelete(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertGuest(ctx, models.Guest{ID: "old01", Name: "Old", Mobile: "1", CreatedAt: base}))
	require.NoError(t, store.InsertGuest(ctx, models.Guest{ID: "new01", Name: "New", Mobile: "2", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, store.UpdateGuestStatus(ctx, "old01", models.RSVPAccepted, base))

	guests, err := m.ListGuests(ctx)
	require.NoError(t, err)
	require.Len(t, guests, 2)
	assert.Equal(t, "new01", guests[0].ID)

	accepted, err := m.ListGuestsByStatus(ctx, models.RSVPAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, "old01", accepted[0].ID)

	updated, err := m.UpdateGuest(ctx, "old01", "Old Friend", "+44 1234567890")
	require.NoError(t, err)
	assert.Equal(t, "Old Friend", updated.Name)
	assert.Equal(t, models.RSVPAccepted, updated.Status)

	_, err = m.UpdateGuest(ctx, "ghost", "A", "1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, m.DeleteGuest(ctx, "new01"))
	guests, err = m.ListGuests(ctx)
	require.NoError(t, err)
	assert.Len(t, guests, 1)
}

func TestInviteLinkRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)

	for i := 0; i < 20; i++ {
		id, err := NewShortID()
		require.NoError(t, err)

		link := m.InviteLink(id)
		assert.Equal(t, "https://wedding.example/"+id, link)

		u, err := url.Parse(link)
		require.NoError(t, err)
		got, ok := routepath.GuestID(u.Path)
		require.True(t, ok)
		assert.Equal(t, id, got)
	}
}

func TestShareMessage(t *testing.T) {
	m, _ := newTestManager(t)
	guest := models.Guest{ID: "aB3xZ", Name: "Asha"}

	msg := m.ShareMessage("Hi {guest-name}! {unique-link} / {guest-name}", guest)
	assert.Equal(t, "Hi Asha! https://wedding.example/aB3xZ / Asha", msg)

	assert.Equal(t, "no placeholders", m.ShareMessage("no placeholders", guest))
}

func TestMessagingDeepLink(t *testing.T) {
	m, _ := newTestManager(t)

	link := m.MessagingDeepLink(models.Guest{Mobile: "98765 43210"}, "Hi Asha & co")
	assert.Equal(t, "https://wa.me/919876543210?text=Hi%20Asha%20%26%20co", link)

	link = m.MessagingDeepLink(models.Guest{Mobile: "+44 1234567890"}, "x")
	assert.Equal(t, "https://wa.me/441234567890?text=x", link)
}

func TestNormalizeMobile(t *testing.T) {
	tests := []struct{ in, code, want string }{
		{"98765 43210", "91", "919876543210"},
		{"(987) 654-3210", "91", "919876543210"},
		{"+44 1234567890", "91", "441234567890"},
		{"0044 1234567890", "91", "441234567890"},
		{"050-123-4567", "+972", "9720501234567"},
		{"", "91", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMobile(tt.in, tt.code), tt.in)
	}
}

func TestNewShortID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := NewShortID()
		require.NoError(t, err)
		require.Len(t, id, ShortIDLength)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(shortIDAlphabet, r), "unexpected %q", r)
		}
		seen[id] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestPresetsAreFilled(t *testing.T) {
	c := Couple{GroomFirstName: "Sidharth", BrideFirstName: "Kiara", WeddingDate: "May 15, 2025"}

	assert.Contains(t, c.DefaultTemplate(), "Sidharth & Kiara on May 15, 2025")
	presets := c.Presets()
	require.Len(t, presets, 5)
	for _, p := range presets {
		assert.NotContains(t, p.Template, "{groom}")
		assert.Contains(t, p.Template, PlaceholderGuestName)
		assert.Contains(t, p.Template, PlaceholderUniqueLink)
	}
}

func TestExportCSV(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertGuest(ctx, models.Guest{ID: "old01", Name: "Old", Mobile: "1", CreatedAt: base}))
	require.NoError(t, store.InsertGuest(ctx, models.Guest{ID: "new01", Name: "New, Jr", Mobile: "2", CreatedAt: base.Add(time.Hour)}))

	var buf bytes.Buffer
	require.NoError(t, m.ExportCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, []string{"new01", "New, Jr", "2", "", "https://wedding.example/new01"}, records[1][:5])
	assert.Equal(t, "old01", records[2][0])
}

func TestExportCSVStoreError(t *testing.T) {
	m := NewManager(failingList{}, Config{}, zerolog.Nop())
	err := m.ExportCSV(context.Background(), &bytes.Buffer{})
	assert.Error(t, err)
}

type failingList struct{ storage.GuestStore }

func (failingList) ListGuests(context.Context) ([]models.Guest, error) {
	return nil, errors.New("down")
}

func TestInviteQR(t *testing.T) {
	m, _ := newTestManager(t)

	png, err := m.InviteQR("aB3xZ", 256)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
