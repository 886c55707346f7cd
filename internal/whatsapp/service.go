// Package whatsapp connects to WhatsApp as a linked device and sends and
// receives plain text messages.
package whatsapp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"wedding-invitation/internal/guestlist"
)

// IncomingMessage is a text received from another WhatsApp user.
type IncomingMessage struct {
	// From is the sender's number, digits only.
	From string
	Text string
}

// MessageHandler is a callback for incoming text messages.
type MessageHandler func(ctx context.Context, msg IncomingMessage) error

// Config configures the WhatsApp connection.
type Config struct {
	// DataDir holds the device session database.
	DataDir string
	// CountryCode is prefixed to numbers written without one.
	CountryCode string
	// QROut receives the login QR code. Defaults to stdout.
	QROut io.Writer
}

type Service struct {
	client         *whatsmeow.Client
	cfg            Config
	log            zerolog.Logger
	messageHandler MessageHandler
}

// NewService opens the device store and creates an unconnected client.
func NewService(ctx context.Context, cfg Config, log zerolog.Logger) (*Service, error) {
	if cfg.QROut == nil {
		cfg.QROut = os.Stdout
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(cfg.DataDir, "whatsmeow.db"))
	container, err := sqlstore.New(ctx, "sqlite3", dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, nil)

	service := &Service{
		client: client,
		cfg:    cfg,
		log:    log.With().Str("component", "WhatsApp").Logger(),
	}

	client.AddEventHandler(func(evt interface{}) {
		service.eventHandler(evt)
	})

	return service, nil
}

// Connect connects to WhatsApp. A device that was never paired prints a QR
// code and blocks until the login flow finishes.
func (s *Service) Connect(ctx context.Context) error {
	if s.client.Store.ID != nil {
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	qrChan, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get qr channel: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	for evt := range qrChan {
		if evt.Event == "code" {
			s.printQR(evt.Code)
			continue
		}
		s.log.Info().Str("event", evt.Event).Msg("Login event")
	}
	return nil
}

func (s *Service) printQR(code string) {
	q, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		fmt.Fprintf(s.cfg.QROut, "QR Code: %s\n", code)
		fmt.Fprintln(s.cfg.QROut, "Please scan this QR code with WhatsApp to connect.")
		return
	}
	fmt.Fprintln(s.cfg.QROut, "\n"+q.ToSmallString(false))
	fmt.Fprintln(s.cfg.QROut, "📱 Please scan the QR code above with WhatsApp:")
	fmt.Fprintln(s.cfg.QROut, "   1. Open WhatsApp on your phone")
	fmt.Fprintln(s.cfg.QROut, "   2. Go to Settings > Linked Devices")
	fmt.Fprintln(s.cfg.QROut, "   3. Tap 'Link a Device'")
	fmt.Fprintln(s.cfg.QROut, "   4. Scan the QR code shown above")
}

// Disconnect disconnects from WhatsApp.
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// SendMessage sends a text message to mobile, which may be written in any
// format the guest list accepts.
func (s *Service) SendMessage(ctx context.Context, mobile, message string) error {
	phoneNumber := guestlist.NormalizeMobile(mobile, s.cfg.CountryCode)
	if phoneNumber == "" {
		return fmt.Errorf("invalid mobile number %q", mobile)
	}

	jid, err := s.resolveJID(ctx, phoneNumber)
	if err != nil {
		return err
	}

	s.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Attempting to send message")

	sent, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(message),
	})
	if err != nil {
		if strings.Contains(err.Error(), "unknown server") || strings.Contains(err.Error(), "can't send message") {
			return fmt.Errorf("failed to send message to %s (JID: %s): %w. Note: the recipient must be in your WhatsApp contacts", phoneNumber, jid.String(), err)
		}
		return fmt.Errorf("failed to send message: %w", err)
	}

	s.log.Info().Str("id", sent.ID).Time("timestamp", sent.Timestamp).Str("phone", phoneNumber).Msg("Message sent")
	return nil
}

// resolveJID verifies the number is on WhatsApp and returns the JID
// WhatsApp reports for it.
func (s *Service) resolveJID(ctx context.Context, phoneNumber string) (types.JID, error) {
	resp, err := s.client.IsOnWhatsApp(ctx, []string{"+" + phoneNumber})
	if err != nil {
		return types.JID{}, fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return types.JID{}, fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	s.log.Debug().Str("phone", phoneNumber).Str("jid", resp[0].JID.String()).Msg("Number verified on WhatsApp")
	return resp[0].JID, nil
}

// eventHandler handles incoming WhatsApp events
func (s *Service) eventHandler(evt interface{}) {
	if evt == nil {
		return
	}
	switch evt := evt.(type) {
	case *events.Message:
		s.handleMessage(evt)
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Info().Msg("Logged out from WhatsApp")
	}
}

func (s *Service) handleMessage(msg *events.Message) {
	if msg.Info.IsFromMe || msg.Message == nil {
		return
	}

	in := IncomingMessage{From: msg.Info.Sender.User, Text: messageText(msg.Message)}
	if in.Text == "" {
		return
	}

	if s.messageHandler == nil {
		s.log.Info().Str("sender", in.From).Str("message", in.Text).Msg("Received message")
		return
	}
	if err := s.messageHandler(context.Background(), in); err != nil {
		s.log.Error().Err(err).Str("sender", in.From).Msg("Error handling message")
	}
}

func messageText(m *waE2E.Message) string {
	if text := m.GetConversation(); text != "" {
		return text
	}
	return m.GetExtendedTextMessage().GetText()
}

// SetMessageHandler sets a custom handler for incoming messages
func (s *Service) SetMessageHandler(handler MessageHandler) {
	s.messageHandler = handler
}
