// Package i18n provides locale resolution and message printing for guest
// facing text.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// Message keys.
const (
	KeyGreeting         = "guest.greeting"
	KeyGuestFallback    = "guest.fallback"
	KeyAccepted         = "rsvp.accepted"
	KeyDeclined         = "rsvp.declined"
	KeyThanks           = "rsvp.thanks"
	KeyReplyAccepted    = "whatsapp.reply.accepted"
	KeyReplyDeclined    = "whatsapp.reply.declined"
	KeyInvitationFooter = "whatsapp.invitation.footer"
	KeyInvitationVenue  = "whatsapp.invitation.venue"
)

var supported = []language.Tag{language.English, language.Hindi}

var matcher = language.NewMatcher(supported)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag))
}

// Match maps any tag onto the closest supported one.
func Match(tags ...language.Tag) language.Tag {
	if len(tags) == 0 {
		return Default()
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// Parse resolves a language string such as "hi" or "en-GB".
func Parse(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return Default(), false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default(), false
	}
	return supported[idx], true
}

// ResolveTag determines the best language tag for the request: the lang
// query parameter wins over Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}

	if v := r.URL.Query().Get(LangParam); v != "" {
		if tag, ok := Parse(v); ok {
			return tag
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return Match(tags...)
		}
	}

	return Default()
}

// Greeting addresses the guest by name, or generically when name is empty.
func Greeting(p *message.Printer, name string) string {
	if name == "" {
		name = p.Sprintf(KeyGuestFallback)
	}
	return p.Sprintf(KeyGreeting, name)
}
