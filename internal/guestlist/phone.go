package guestlist

import (
	"net/url"
	"strings"
	"unicode"

	"wedding-invitation/internal/models"
)

const whatsAppBaseURL = "https://wa.me/"

// NormalizeMobile turns a free-text mobile number into the digits-only
// international form used by WhatsApp. Numbers written with a leading + or 00
// keep their own country code; anything else gets countryCode prepended.
// National trunk prefixes are not stripped: "050-123-4567" with code 972
// becomes 9720501234567, which WhatsApp rejects. Store such numbers in
// international form.
func NormalizeMobile(mobile, countryCode string) string {
	raw := strings.TrimSpace(mobile)
	digits := digitsOnly(raw)
	if digits == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(raw, "+"):
		return digits
	case strings.HasPrefix(raw, "00"):
		return strings.TrimPrefix(digits, "00")
	default:
		return digitsOnly(countryCode) + digits
	}
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// MessagingDeepLink builds a wa.me link that opens a chat with the guest with
// message pre-filled.
func (m *Manager) MessagingDeepLink(guest models.Guest, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return whatsAppBaseURL + NormalizeMobile(guest.Mobile, m.countryCode) + "?text=" + text
}
