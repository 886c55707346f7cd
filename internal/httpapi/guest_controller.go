package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wedding-invitation/internal/guestlist"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/preferences"
	"wedding-invitation/internal/storage"
)

const defaultQRSize = 256

type guestController struct {
	guests  *guestlist.Manager
	prefs   *preferences.Store
	inviter Inviter
	log     zerolog.Logger
}

type guestRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type guestView struct {
	models.Guest
	Link string `json:"link"`
}

type shareView struct {
	Link         string `json:"link"`
	Message      string `json:"message"`
	WhatsAppLink string `json:"whatsapp_link"`
}

func (gc *guestController) view(g models.Guest) guestView {
	return guestView{Guest: g, Link: gc.guests.InviteLink(g.ID)}
}

// parseStatusFilter maps the ?status= query onto a status. "unset" and
// "pending" select guests who have not opened their invitation.
func parseStatusFilter(value string) (models.RSVPStatus, error) {
	switch strings.ToLower(value) {
	case "unset", "pending", "not_opened":
		return models.RSVPUnset, nil
	}
	return models.ParseRSVPStatus(strings.ToLower(value))
}

// List handles GET /api/guests.
func (gc *guestController) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		guests []models.Guest
		err    error
	)
	if raw, ok := c.GetQuery("status"); ok && raw != "" {
		status, perr := parseStatusFilter(raw)
		if perr != nil {
			jsonError(c, http.StatusBadRequest, perr.Error())
			return
		}
		guests, err = gc.guests.ListGuestsByStatus(ctx, status)
	} else {
		guests, err = gc.guests.ListGuests(ctx)
	}
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load guests")
		return
	}

	views := make([]guestView, 0, len(guests))
	for _, g := range guests {
		views = append(views, gc.view(g))
	}
	jsonSuccess(c, http.StatusOK, views)
}

// Create handles POST /api/guests. When the guest cannot be stored the
// submitted values are returned so the form can keep them.
func (gc *guestController) Create(c *gin.Context) {
	var req guestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	guest, err := gc.guests.CreateGuest(c.Request.Context(), req.Name, req.Mobile)
	switch {
	case errors.Is(err, guestlist.ErrMissingFields):
		jsonErrorWithData(c, http.StatusBadRequest, err.Error(), req)
		return
	case err != nil:
		jsonErrorWithData(c, http.StatusInternalServerError, "Failed to add guest", req)
		return
	}
	jsonSuccess(c, http.StatusCreated, gc.view(guest))
}

// Update handles PUT /api/guests/:id.
func (gc *guestController) Update(c *gin.Context) {
	var req guestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	guest, err := gc.guests.UpdateGuest(c.Request.Context(), c.Param("id"), req.Name, req.Mobile)
	switch {
	case errors.Is(err, guestlist.ErrMissingFields):
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, storage.ErrNotFound):
		jsonError(c, http.StatusNotFound, "guest not found")
		return
	case err != nil:
		jsonError(c, http.StatusInternalServerError, "Failed to update guest")
		return
	}
	jsonSuccess(c, http.StatusOK, gc.view(guest))
}

// Delete handles DELETE /api/guests/:id.
func (gc *guestController) Delete(c *gin.Context) {
	err := gc.guests.DeleteGuest(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		jsonError(c, http.StatusNotFound, "guest not found")
		return
	case err != nil:
		jsonError(c, http.StatusInternalServerError, "Failed to remove guest")
		return
	}
	jsonSuccess(c, http.StatusOK, gin.H{"id": c.Param("id")})
}

// Share handles GET /api/guests/:id/share.
func (gc *guestController) Share(c *gin.Context) {
	guest, ok := gc.lookup(c)
	if !ok {
		return
	}

	message := gc.guests.ShareMessage(gc.prefs.MessageTemplate(), guest)
	jsonSuccess(c, http.StatusOK, shareView{
		Link:         gc.guests.InviteLink(guest.ID),
		Message:      message,
		WhatsAppLink: gc.guests.MessagingDeepLink(guest, message),
	})
}

// QR handles GET /api/guests/:id/qr.
func (gc *guestController) QR(c *gin.Context) {
	guest, ok := gc.lookup(c)
	if !ok {
		return
	}

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > 2048 {
			jsonError(c, http.StatusBadRequest, "size must be between 64 and 2048")
			return
		}
		size = n
	}

	png, err := gc.guests.InviteQR(guest.ID, size)
	if err != nil {
		gc.log.Error().Err(err).Str("guest_id", guest.ID).Msg("Error generating qr code")
		jsonError(c, http.StatusInternalServerError, "failed to generate qr code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Send handles POST /api/guests/:id/send.
func (gc *guestController) Send(c *gin.Context) {
	if gc.inviter == nil {
		jsonError(c, http.StatusServiceUnavailable, "WhatsApp is not enabled")
		return
	}
	guest, ok := gc.lookup(c)
	if !ok {
		return
	}

	if err := gc.inviter.SendInvitation(c.Request.Context(), guest); err != nil {
		jsonError(c, http.StatusBadGateway, err.Error())
		return
	}
	jsonSuccess(c, http.StatusOK, gc.view(guest))
}

// SendAll handles POST /api/guests/send.
func (gc *guestController) SendAll(c *gin.Context) {
	if gc.inviter == nil {
		jsonError(c, http.StatusServiceUnavailable, "WhatsApp is not enabled")
		return
	}

	summary, err := gc.inviter.SendAll(c.Request.Context())
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to send invitations")
		return
	}
	jsonSuccess(c, http.StatusOK, summary)
}

// Export handles GET /api/guests/export.
func (gc *guestController) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := gc.guests.ExportCSV(c.Request.Context(), &buf); err != nil {
		gc.log.Error().Err(err).Msg("Error exporting guests")
		jsonError(c, http.StatusInternalServerError, "failed to export guests")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "guests.csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (gc *guestController) lookup(c *gin.Context) (models.Guest, bool) {
	guest, err := gc.guests.GetGuest(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		jsonError(c, http.StatusNotFound, "guest not found")
		return models.Guest{}, false
	case err != nil:
		jsonError(c, http.StatusInternalServerError, "failed to load guest")
		return models.Guest{}, false
	}
	return guest, true
}
