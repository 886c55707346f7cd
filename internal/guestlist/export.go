package guestlist

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/skip2/go-qrcode"
)

// InviteQR renders the guest's invite link as a PNG QR code.
func (m *Manager) InviteQR(id string, size int) ([]byte, error) {
	png, err := qrcode.Encode(m.InviteLink(id), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}
	return png, nil
}

// ExportCSV writes the guest list, newest first, with each guest's link.
func (m *Manager) ExportCSV(ctx context.Context, w io.Writer) error {
	guests, err := m.ListGuests(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "mobile", "status", "link", "created_at", "updated_at"}); err != nil {
		return err
	}
	for _, g := range guests {
		updated := ""
		if g.UpdatedAt != nil {
			updated = g.UpdatedAt.Format(time.RFC3339)
		}
		record := []string{
			g.ID,
			g.Name,
			g.Mobile,
			string(g.Status),
			m.InviteLink(g.ID),
			g.CreatedAt.Format(time.RFC3339),
			updated,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
