// Package httpapi is the JSON API behind the invitation site and the guest
// management page.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wedding-invitation/internal/content"
	"wedding-invitation/internal/guestlist"
	"wedding-invitation/internal/handler"
	"wedding-invitation/internal/models"
	"wedding-invitation/internal/preferences"
	"wedding-invitation/internal/rsvp"
	"wedding-invitation/internal/session"
)

// Inviter sends invitations over WhatsApp.
type Inviter interface {
	SendInvitation(ctx context.Context, guest models.Guest) error
	SendAll(ctx context.Context) (handler.SendSummary, error)
}

// PhotoUploader stores an uploaded gallery photo and returns its URL.
type PhotoUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader, contentType string) (string, error)
}

// Deps wires the API to the application services. Inviter and Uploader are
// optional; their routes answer 503 when nil.
type Deps struct {
	Guests      *guestlist.Manager
	GuestReader session.GuestReader
	Machine     *rsvp.Machine
	Content     *content.Service
	Preferences *preferences.Store
	Couple      guestlist.Couple
	Inviter     Inviter
	Uploader    PhotoUploader
	RateLimiter *IPRateLimiter
	CORSOrigins []string
	Log         zerolog.Logger
}

// NewRouter builds the gin engine.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log.With().Str("component", "http").Logger()

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gc := &guestController{guests: d.Guests, prefs: d.Preferences, inviter: d.Inviter, log: log}
	cc := &contextController{log: log}
	sc := &settingsController{prefs: d.Preferences, couple: d.Couple}
	ic := &invitationController{content: d.Content, uploader: d.Uploader, log: log}

	api := r.Group("/api")
	{
		guestCtx := api.Group("/context", withSession(d.GuestReader, d.Machine, d.Log))
		{
			guestCtx.GET("", cc.Resolve)
			guestCtx.POST("/respond", RateLimitByIP(d.RateLimiter), cc.Respond)
		}

		api.GET("/invitation", ic.Get)
		api.POST("/photos", ic.UploadPhoto)

		guests := api.Group("/guests")
		{
			guests.GET("", gc.List)
			guests.POST("", gc.Create)

			// Must be registered before /:id.
			guests.GET("/export", gc.Export)
			guests.POST("/send", gc.SendAll)

			guests.PUT("/:id", gc.Update)
			guests.DELETE("/:id", gc.Delete)
			guests.GET("/:id/share", gc.Share)
			guests.GET("/:id/qr", gc.QR)
			guests.POST("/:id/send", gc.Send)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/message-template", sc.GetTemplate)
			settings.PUT("/message-template", sc.PutTemplate)
			settings.DELETE("/message-template", sc.ResetTemplate)
			settings.GET("/message-templates", sc.Presets)
		}
	}

	return r
}
