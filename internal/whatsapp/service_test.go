package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

func incoming(sender string, fromMe bool, m *waE2E.Message) *events.Message {
	msg := &events.Message{Message: m}
	msg.Info.Sender = types.NewJID(sender, types.DefaultUserServer)
	msg.Info.IsFromMe = fromMe
	return msg
}

func TestHandleMessageDispatches(t *testing.T) {
	s := &Service{log: zerolog.Nop()}
	var got []IncomingMessage
	s.SetMessageHandler(func(_ context.Context, msg IncomingMessage) error {
		got = append(got, msg)
		return nil
	})

	s.eventHandler(incoming("919876543210", false, &waE2E.Message{Conversation: proto.String("Yes!")}))
	s.eventHandler(incoming("441234567890", false, &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: proto.String("no, sorry")},
	}))

	require.Len(t, got, 2)
	assert.Equal(t, IncomingMessage{From: "919876543210", Text: "Yes!"}, got[0])
	assert.Equal(t, IncomingMessage{From: "441234567890", Text: "no, sorry"}, got[1])
}

func TestHandleMessageSkips(t *testing.T) {
	s := &Service{log: zerolog.Nop()}
	calls := 0
	s.SetMessageHandler(func(context.Context, IncomingMessage) error {
		calls++
		return errors.New("should not be called")
	})

	s.eventHandler(incoming("919876543210", true, &waE2E.Message{Conversation: proto.String("yes")}))
	s.eventHandler(incoming("919876543210", false, nil))
	s.eventHandler(incoming("919876543210", false, &waE2E.Message{}))
	s.eventHandler(nil)
	s.eventHandler(&events.Connected{})

	assert.Zero(t, calls)
}

func TestHandleMessageWithoutHandler(t *testing.T) {
	s := &Service{log: zerolog.Nop()}
	assert.NotPanics(t, func() {
		s.eventHandler(incoming("919876543210", false, &waE2E.Message{Conversation: proto.String("hello")}))
	})
}
