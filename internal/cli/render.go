package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repotrading/navigator/internal/render"
)

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <view>",
		Short: "Render a view against the contract store",
		Long: `Render evaluates one view's source query against the stored contracts and
prints one row per matching contract.

Example:
  navigator render trades
  navigator render assets --json`,
		Args: userArgs(cobra.ExactArgs(1)),
		RunE: runRender,
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	key := args[0]

	registry, variant, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	def, err := viewSet(registry).Get(key)
	if err != nil {
		return err
	}

	store, err := attachStore(cmd)
	if err != nil {
		return err
	}
	defer store.Detach()

	records, err := store.Fetch(def, variant.Decode)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", key, err)
	}
	logger(cmd).Debug("view rendered", "view", key, "rows", len(records))

	table := render.Build(key, def, records)
	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), table)
	}
	return table.WriteText(cmd.OutOrStdout())
}
