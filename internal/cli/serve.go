package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"wedding-invitation/internal/httpapi"
	"wedding-invitation/internal/media"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the invitation API",
		Long: `Serve the invitation and guest management API.

With WHATSAPP_ENABLED=true the server also links a WhatsApp device (printing
a QR code on first run), sends invitations on request and records answers
guests send back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	gin.SetMode(gin.ReleaseMode)
	deps := httpapi.Deps{
		Guests:      a.guests,
		GuestReader: a.store,
		Machine:     a.machine,
		Content:     a.content,
		Preferences: a.prefs,
		Couple:      a.couple,
		RateLimiter: httpapi.NewIPRateLimiter(ctx, a.cfg.RSVPRateLimit, a.cfg.RSVPRateBurst, 10*time.Minute),
		CORSOrigins: a.cfg.CORSOrigins,
		Log:         a.log,
	}

	if a.cfg.WhatsAppEnabled {
		wa, h, err := a.connectWhatsApp(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer wa.Disconnect()
		deps.Inviter = h
	}

	uploader, err := media.New(media.Config{
		URL:    a.cfg.SupabaseURL,
		Key:    a.cfg.SupabaseKey,
		Bucket: a.cfg.SupabaseBucket,
	}, a.log)
	switch {
	case errors.Is(err, media.ErrDisabled):
		a.log.Info().Msg("Supabase storage not configured, photo uploads disabled")
	case err != nil:
		return err
	default:
		deps.Uploader = uploader
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           httpapi.NewRouter(deps),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
