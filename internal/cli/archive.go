package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Mark a contract as archived",
		Long:  "Archived contracts are hidden from views that do not include archived contracts.",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := attachStore(cmd)
			if err != nil {
				return err
			}
			defer store.Detach()

			if err := store.Archive(args[0]); err != nil {
				return fmt.Errorf("archive %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", args[0])
			return nil
		},
	}
}
