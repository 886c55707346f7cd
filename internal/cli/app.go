package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"wedding-invitation/internal/config"
	"wedding-invitation/internal/content"
	"wedding-invitation/internal/guestlist"
	"wedding-invitation/internal/handler"
	"wedding-invitation/internal/i18n"
	"wedding-invitation/internal/logging"
	"wedding-invitation/internal/preferences"
	"wedding-invitation/internal/rsvp"
	"wedding-invitation/internal/storage"
	"wedding-invitation/internal/storage/gormstore"
	"wedding-invitation/internal/storage/sqlite"
	"wedding-invitation/internal/whatsapp"
)

// app is the set of services every command works with.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   storage.Store
	guests  *guestlist.Manager
	machine *rsvp.Machine
	content *content.Service
	prefs   *preferences.Store
	couple  guestlist.Couple
	lang    language.Tag
}

func newApp(opts *RootOptions, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadConfig(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	log, err := logging.New(logOut, cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	couple := guestlist.Couple{
		GroomFirstName: cfg.GroomName,
		BrideFirstName: cfg.BrideName,
		WeddingDate:    cfg.WeddingDate,
		Venue:          cfg.WeddingLocation,
	}
	prefs, err := preferences.NewStore(cfg.PreferencesPath(), couple.DefaultTemplate())
	if err != nil {
		store.Close()
		return nil, err
	}

	lang, ok := i18n.Parse(cfg.Language)
	if !ok {
		log.Warn().Str("language", cfg.Language).Msg("Unsupported language, using default")
	}

	return &app{
		cfg:   cfg,
		log:   log,
		store: store,
		guests: guestlist.NewManager(store, guestlist.Config{
			Origin:      cfg.PublicOrigin,
			CountryCode: cfg.CountryCode,
		}, log),
		machine: rsvp.NewMachine(store, log),
		content: content.NewService(store, log),
		prefs:   prefs,
		couple:  couple,
		lang:    lang,
	}, nil
}

// openStore uses DATABASE_URL when set and the SQLite file in the data
// directory otherwise.
func openStore(cfg *config.Config, log zerolog.Logger) (storage.Store, error) {
	if cfg.DatabaseURL != "" {
		store, err := gormstore.Open(cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := sqlite.Open(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// connectWhatsApp links the WhatsApp device and routes incoming answers to
// the RSVP handler.
func (a *app) connectWhatsApp(ctx context.Context, qrOut io.Writer) (*whatsapp.Service, *handler.RSVPHandler, error) {
	wa, err := whatsapp.NewService(ctx, whatsapp.Config{
		DataDir:     a.cfg.WhatsAppDataDir(),
		CountryCode: a.cfg.CountryCode,
		QROut:       qrOut,
	}, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize WhatsApp: %w", err)
	}

	h := a.rsvpHandler(wa)
	wa.SetMessageHandler(h.HandleMessage)

	a.log.Info().Msg("Connecting to WhatsApp")
	if err := wa.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return wa, h, nil
}

func (a *app) rsvpHandler(sender handler.Sender) *handler.RSVPHandler {
	return handler.NewRSVPHandler(sender, a.guests, a.machine, a.prefs, handler.Config{
		Couple:      a.couple,
		CountryCode: a.cfg.CountryCode,
		Language:    a.lang,
	}, a.log)
}
