package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wedding-invitation/internal/content"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <content.yaml>",
		Short: "Replace the invitation content from a YAML file",
		Long: `Replace the couple, family, events and gallery shown on the invitation
with the contents of a YAML file. Guests are not touched.

Example:
  wedding seed ./content.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := content.LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			if err := a.content.Seed(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d family members, %d events and %d photos.\n", len(c.Family), len(c.Events), len(c.Photos))
			return nil
		},
	}
}
