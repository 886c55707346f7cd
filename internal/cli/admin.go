package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"wedding-invitation/internal/guestlist"
	"wedding-invitation/internal/models"
)

// inviter sends a single invitation.
type inviter interface {
	SendInvitation(ctx context.Context, guest models.Guest) error
}

// AdminOptions holds flags for the admin command.
type AdminOptions struct {
	*RootOptions
	WhatsApp bool
}

// NewAdminCommand creates the interactive guest management command.
func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdminOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the guest list interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.RootOptions, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			m := &adminMenu{
				ctx:    cmd.Context(),
				in:     bufio.NewScanner(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
				guests: a.guests,
				prefs:  a.prefs,
			}
			if opts.WhatsApp {
				wa, h, err := a.connectWhatsApp(cmd.Context(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				defer wa.Disconnect()
				m.inviter = h
			}
			m.run()
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.WhatsApp, "whatsapp", false, "connect to WhatsApp so invitations can be sent from the menu")
	return cmd
}

type templateSource interface {
	MessageTemplate() string
}

type adminMenu struct {
	ctx     context.Context
	in      *bufio.Scanner
	out     io.Writer
	guests  *guestlist.Manager
	prefs   templateSource
	inviter inviter
}

func (m *adminMenu) run() {
	fmt.Fprintln(m.out, "🎉 Wedding Guest Management")
	fmt.Fprintln(m.out, "============================")

	for {
		fmt.Fprintln(m.out, "\nCommands:")
		fmt.Fprintln(m.out, "  1. Add guest")
		fmt.Fprintln(m.out, "  2. View all guests")
		fmt.Fprintln(m.out, "  3. View guests by status")
		fmt.Fprintln(m.out, "  4. Share link for a guest")
		fmt.Fprintln(m.out, "  5. Send invitation")
		fmt.Fprintln(m.out, "  6. Exit")
		fmt.Fprint(m.out, "\nEnter command (1-6): ")

		if !m.in.Scan() {
			return
		}

		switch strings.TrimSpace(m.in.Text()) {
		case "1":
			m.addGuest()
		case "2":
			m.viewAllGuests()
		case "3":
			m.viewGuestsByStatus()
		case "4":
			m.shareLink()
		case "5":
			m.sendInvitation()
		case "6":
			fmt.Fprintln(m.out, "Exiting...")
			return
		default:
			fmt.Fprintln(m.out, "Invalid command. Please try again.")
		}
	}
}

func (m *adminMenu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *adminMenu) addGuest() {
	name, ok := m.prompt("Enter guest name: ")
	if !ok {
		return
	}
	mobile, ok := m.prompt("Enter mobile number: ")
	if !ok {
		return
	}

	guest, err := m.guests.CreateGuest(m.ctx, name, mobile)
	if err != nil {
		fmt.Fprintf(m.out, "❌ Error adding guest: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "✅ Guest added! Link: %s\n", m.guests.InviteLink(guest.ID))
}

func (m *adminMenu) viewAllGuests() {
	guests, err := m.guests.ListGuests(m.ctx)
	if err != nil {
		fmt.Fprintf(m.out, "❌ %v\n", err)
		return
	}
	if len(guests) == 0 {
		fmt.Fprintln(m.out, "\nNo guests found.")
		return
	}

	fmt.Fprintf(m.out, "\n📋 All Guests (%d total):\n", len(guests))
	m.printGuests(guests)
}

func (m *adminMenu) viewGuestsByStatus() {
	fmt.Fprintln(m.out, "\nSelect status:")
	fmt.Fprintln(m.out, "  1. Not opened")
	fmt.Fprintln(m.out, "  2. Viewed")
	fmt.Fprintln(m.out, "  3. Accepted")
	fmt.Fprintln(m.out, "  4. Declined")
	choice, ok := m.prompt("Enter choice (1-4): ")
	if !ok {
		return
	}

	var status models.RSVPStatus
	switch choice {
	case "1":
		status = models.RSVPUnset
	case "2":
		status = models.RSVPViewed
	case "3":
		status = models.RSVPAccepted
	case "4":
		status = models.RSVPDeclined
	default:
		fmt.Fprintln(m.out, "Invalid choice.")
		return
	}

	guests, err := m.guests.ListGuestsByStatus(m.ctx, status)
	if err != nil {
		fmt.Fprintf(m.out, "❌ %v\n", err)
		return
	}
	if len(guests) == 0 {
		fmt.Fprintf(m.out, "\nNo guests with status '%s'.\n", status)
		return
	}

	fmt.Fprintf(m.out, "\n📋 Guests with status '%s' (%d total):\n", status, len(guests))
	m.printGuests(guests)
}

func (m *adminMenu) printGuests(guests []models.Guest) {
	fmt.Fprintln(m.out, strings.Repeat("-", 60))
	for _, g := range guests {
		fmt.Fprintf(m.out, "Name: %s\n", g.Name)
		fmt.Fprintf(m.out, "Mobile: %s\n", g.Mobile)
		fmt.Fprintf(m.out, "Status: %s\n", g.Status)
		fmt.Fprintf(m.out, "Link: %s\n", m.guests.InviteLink(g.ID))
		if g.UpdatedAt != nil {
			fmt.Fprintf(m.out, "Updated: %s\n", g.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintln(m.out, strings.Repeat("-", 60))
	}
}

func (m *adminMenu) pickGuest() (models.Guest, bool) {
	id, ok := m.prompt("Enter guest id: ")
	if !ok {
		return models.Guest{}, false
	}
	guest, err := m.guests.GetGuest(m.ctx, id)
	if err != nil {
		fmt.Fprintf(m.out, "❌ %v\n", err)
		return models.Guest{}, false
	}
	return guest, true
}

func (m *adminMenu) shareLink() {
	guest, ok := m.pickGuest()
	if !ok {
		return
	}
	message := m.guests.ShareMessage(m.prefs.MessageTemplate(), guest)
	fmt.Fprintf(m.out, "\n%s\n\nWhatsApp: %s\n", message, m.guests.MessagingDeepLink(guest, message))
}

func (m *adminMenu) sendInvitation() {
	if m.inviter == nil {
		fmt.Fprintln(m.out, "WhatsApp is not connected. Restart with --whatsapp to send invitations.")
		return
	}
	guest, ok := m.pickGuest()
	if !ok {
		return
	}

	fmt.Fprintf(m.out, "\nSending invitation to %s (%s)...\n", guest.Name, guest.Mobile)
	if err := m.inviter.SendInvitation(m.ctx, guest); err != nil {
		fmt.Fprintf(m.out, "❌ Error sending invitation: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "✅ Invitation sent successfully!")
}
