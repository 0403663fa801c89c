package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"prospectsheet/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "prospectsheet", version.String())
			return nil
		},
	}
}
