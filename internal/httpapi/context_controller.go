package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wedding-invitation/internal/i18n"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/rsvp"
	"wedding-invitation/internal/session"
)

type contextController struct {
	log zerolog.Logger
}

type guestContextResponse struct {
	session.Snapshot
	HasAccepted bool   `json:"has_accepted"`
	Greeting    string `json:"greeting"`
	Message     string `json:"message,omitempty"`
}

type respondRequest struct {
	Path     string `json:"path" binding:"required"`
	Decision string `json:"decision" binding:"required"`
}

func (cc *contextController) session(c *gin.Context) *session.Session {
	s, ok := session.FromContext(c.Request.Context())
	if !ok {
		cc.log.Error().Msg("Request has no guest session")
		jsonError(c, http.StatusInternalServerError, "guest session unavailable")
		return nil
	}
	return s
}

// Resolve handles GET /api/context?path=/<id>.
func (cc *contextController) Resolve(c *gin.Context) {
	s := cc.session(c)
	if s == nil {
		return
	}

	snap := s.Navigate(c.Request.Context(), c.Query("path"))
	p := i18n.Printer(i18n.ResolveTag(c.Request))
	jsonSuccess(c, http.StatusOK, guestContextResponse{
		Snapshot:    snap,
		HasAccepted: snap.HasAccepted(),
		Greeting:    i18n.Greeting(p, snap.Name),
	})
}

// Respond handles POST /api/context/respond.
func (cc *contextController) Respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "path and decision are required")
		return
	}
	decision, err := rsvp.ParseDecision(req.Decision)
	if err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	s := cc.session(c)
	if s == nil {
		return
	}
	ctx := c.Request.Context()
	s.Navigate(ctx, req.Path)

	snap, err := s.Respond(ctx, decision)
	switch {
	case errors.Is(err, rsvp.ErrNoGuest):
		jsonError(c, http.StatusNotFound, "guest not found")
		return
	case err != nil:
		jsonError(c, http.StatusInternalServerError, "failed to save your response, please try again")
		return
	}

	p := i18n.Printer(i18n.ResolveTag(c.Request))
	key := i18n.KeyDeclined
	if decision == models.RSVPAccepted {
		key = i18n.KeyAccepted
	}
	jsonSuccess(c, http.StatusOK, guestContextResponse{
		Snapshot:    snap,
		HasAccepted: snap.HasAccepted(),
		Greeting:    i18n.Greeting(p, snap.Name),
		Message:     p.Sprintf(key),
	})
}
