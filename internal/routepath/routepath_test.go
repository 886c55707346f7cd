package routepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuestID(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/aB3xZ", "aB3xZ", true},
		{"/aB3xZ/", "aB3xZ", true},
		{"/invitation/aB3xZ", "aB3xZ", true},
		{"invitation/aB3xZ", "aB3xZ", true},
		{"/aB3xZ?lang=hi", "aB3xZ", true},
		{"/", "", false},
		{"", "", false},
		{"/guest-management", "", false},
		{"/invitation", "", false},
		{"/invitation/guest-management", "", false},
		{"/invitation/invitation", "", false},
		{"/other/aB3xZ", "", false},
		{"/invitation/aB3xZ/extra", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := GuestID(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinksRoundTrip(t *testing.T) {
	for _, id := range []string{"a", "Zz09x", "00000"} {
		got, ok := GuestID(GuestLanding(id))
		assert.True(t, ok)
		assert.Equal(t, id, got)

		got, ok = GuestID(Invitation(id))
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}
}

func TestIsGuestView(t *testing.T) {
	assert.True(t, IsGuestView("/aB3xZ"))
	assert.True(t, IsGuestView("/invitation/aB3xZ"))
	assert.False(t, IsGuestView("/guest-management"))
}
