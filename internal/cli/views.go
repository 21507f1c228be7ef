package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/repotrading/navigator/internal/render"
	"github.com/repotrading/navigator/pkg/types"
)

func newViewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List the configured views",
		Long: `Views prints the view set served for the configured user, party and role.
With --json the full definitions are printed, without projections.`,
		Args: userArgs(cobra.NoArgs),
		RunE: runViews,
	}
}

func runViews(cmd *cobra.Command, _ []string) error {
	registry, _, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	set := viewSet(registry)

	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), set)
	}
	return viewSummary(set).WriteText(cmd.OutOrStdout())
}

// viewSummary lays out one line per view in key order.
func viewSummary(set types.ViewSet) render.Table {
	t := render.Table{
		Columns: []render.Column{
			{Key: "key", Title: "KEY"},
			{Key: "title", Title: "TITLE"},
			{Key: "columns", Title: "COLUMNS", Alignment: types.AlignRight},
			{Key: "archived", Title: "ARCHIVED"},
		},
	}
	for _, key := range set.Keys() {
		def := set[key]
		t.Rows = append(t.Rows, render.Row{
			ID: key,
			Cells: []types.Cell{
				textCell(key),
				textCell(def.Title),
				textCell(strconv.Itoa(len(def.Columns))),
				textCell(strconv.FormatBool(def.IncludeArchived)),
			},
		})
	}
	return t
}

func textCell(s string) types.Cell {
	return types.Cell{Type: types.CellTypeText, Value: types.StringValue(s)}
}
