package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wedding-invitation/internal/guestlist"
	"wedding-invitation/internal/preferences"
)

type settingsController struct {
	prefs  *preferences.Store
	couple guestlist.Couple
}

type templateView struct {
	Template   string `json:"template"`
	Customized bool   `json:"customized"`
}

func (sc *settingsController) current() templateView {
	return templateView{Template: sc.prefs.MessageTemplate(), Customized: sc.prefs.Customized()}
}

// GetTemplate handles GET /api/settings/message-template.
func (sc *settingsController) GetTemplate(c *gin.Context) {
	jsonSuccess(c, http.StatusOK, sc.current())
}

// PutTemplate handles PUT /api/settings/message-template.
func (sc *settingsController) PutTemplate(c *gin.Context) {
	var req struct {
		Template string `json:"template"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Template) == "" {
		jsonError(c, http.StatusBadRequest, "template is required")
		return
	}
	if err := sc.prefs.SetMessageTemplate(req.Template); err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save template")
		return
	}
	jsonSuccess(c, http.StatusOK, sc.current())
}

// ResetTemplate handles DELETE /api/settings/message-template.
func (sc *settingsController) ResetTemplate(c *gin.Context) {
	if err := sc.prefs.ResetMessageTemplate(); err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to reset template")
		return
	}
	jsonSuccess(c, http.StatusOK, sc.current())
}

// Presets handles GET /api/settings/message-templates.
func (sc *settingsController) Presets(c *gin.Context) {
	jsonSuccess(c, http.StatusOK, sc.couple.Presets())
}
