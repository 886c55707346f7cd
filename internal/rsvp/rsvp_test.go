package rsvp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-invitation/internal/models"
)

type statusWrite struct {
	id     string
	status models.RSVPStatus
	at     time.Time
}

type fakeWriter struct {
	writes []statusWrite
	err    error
}

func (f *fakeWriter) UpdateGuestStatus(_ context.Context, id string, status models.RSVPStatus, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, statusWrite{id, status, at})
	return nil
}

func newTestMachine(w *fakeWriter) *Machine {
	fixed := time.Date(2025, 6, 4, 19, 2, 0, 0, time.UTC)
	return NewMachine(w, zerolog.Nop()).WithClock(func() time.Time { return fixed })
}

func TestNext(t *testing.T) {
	tests := []struct {
		current, requested, want models.RSVPStatus
		ok                       bool
	}{
		{models.RSVPUnset, models.RSVPViewed, models.RSVPViewed, true},
		{models.RSVPViewed, models.RSVPViewed, models.RSVPViewed, true},
		{models.RSVPAccepted, models.RSVPViewed, models.RSVPAccepted, false},
		{models.RSVPDeclined, models.RSVPViewed, models.RSVPDeclined, false},
		{models.RSVPUnset, models.RSVPAccepted, models.RSVPAccepted, true},
		{models.RSVPViewed, models.RSVPDeclined, models.RSVPDeclined, true},
		{models.RSVPAccepted, models.RSVPDeclined, models.RSVPDeclined, true},
		{models.RSVPDeclined, models.RSVPAccepted, models.RSVPAccepted, true},
		{models.RSVPViewed, models.RSVPUnset, models.RSVPViewed, false},
	}
	for _, tt := range tests {
		got, ok := Next(tt.current, tt.requested)
		assert.Equal(t, tt.want, got, "%q -> %q", tt.current, tt.requested)
		assert.Equal(t, tt.ok, ok, "%q -> %q", tt.current, tt.requested)
	}
}

func TestMarkViewedWritesOnce(t *testing.T) {
	w := &fakeWriter{}
	m := newTestMachine(w)

	got, err := m.MarkViewed(context.Background(), "aB3xZ", models.RSVPUnset)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPViewed, got)
	require.Len(t, w.writes, 1)
	assert.Equal(t, statusWrite{"aB3xZ", models.RSVPViewed, time.Date(2025, 6, 4, 19, 2, 0, 0, time.UTC)}, w.writes[0])
}

func TestMarkViewedIsNoOpForTerminalStates(t *testing.T) {
	w := &fakeWriter{}
	m := newTestMachine(w)

	for _, status := range []models.RSVPStatus{models.RSVPAccepted, models.RSVPDeclined} {
		for i := 0; i < 3; i++ {
			got, err := m.MarkViewed(context.Background(), "aB3xZ", status)
			require.NoError(t, err)
			assert.Equal(t, status, got)
		}
	}
	assert.Empty(t, w.writes)
}

func TestMarkViewedWithoutGuest(t *testing.T) {
	w := &fakeWriter{}
	got, err := newTestMachine(w).MarkViewed(context.Background(), "", models.RSVPUnset)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPUnset, got)
	assert.Empty(t, w.writes)
}

func TestRespondThenMarkViewedKeepsAnswer(t *testing.T) {
	w := &fakeWriter{}
	m := newTestMachine(w)
	ctx := context.Background()

	status, err := m.Respond(ctx, "aB3xZ", models.RSVPViewed, models.RSVPAccepted)
	require.NoError(t, err)
	status, err = m.MarkViewed(ctx, "aB3xZ", status)
	require.NoError(t, err)

	assert.Equal(t, models.RSVPAccepted, status)
	require.Len(t, w.writes, 1)
}

func TestRespondCanChangeAnswer(t *testing.T) {
	w := &fakeWriter{}
	m := newTestMachine(w)

	status, err := m.Respond(context.Background(), "aB3xZ", models.RSVPAccepted, models.RSVPDeclined)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPDeclined, status)
}

func TestRespondRejectsBadInput(t *testing.T) {
	w := &fakeWriter{}
	m := newTestMachine(w)
	ctx := context.Background()

	_, err := m.Respond(ctx, "aB3xZ", models.RSVPUnset, models.RSVPViewed)
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = m.Respond(ctx, "", models.RSVPUnset, models.RSVPAccepted)
	assert.ErrorIs(t, err, ErrNoGuest)
	assert.Empty(t, w.writes)
}

func TestWriteFailureKeepsCurrentStatus(t *testing.T) {
	storeErr := errors.New("store unreachable")
	m := newTestMachine(&fakeWriter{err: storeErr})

	got, err := m.Respond(context.Background(), "aB3xZ", models.RSVPViewed, models.RSVPDeclined)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, models.RSVPViewed, got)

	got, err = m.MarkViewed(context.Background(), "aB3xZ", models.RSVPUnset)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, models.RSVPUnset, got)
}

func TestParseDecision(t *testing.T) {
	got, err := ParseDecision(" Accepted ")
	require.NoError(t, err)
	assert.Equal(t, models.RSVPAccepted, got)

	got, err = ParseDecision("decline")
	require.NoError(t, err)
	assert.Equal(t, models.RSVPDeclined, got)

	_, err = ParseDecision("viewed")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}
