package cli

import (
	"github.com/spf13/cobra"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tablebook",
		Short:         "Restaurant table booking and availability",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewServerCmd())
	cmd.AddCommand(newTablesCmd())
	cmd.AddCommand(newAvailabilityCmd())
	cmd.AddCommand(newCandidatesCmd())
	cmd.AddCommand(newBookCmd())
	cmd.AddCommand(newBookingsCmd())
	cmd.AddCommand(newCancelCmd())
	cmd.AddCommand(newKeysCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
