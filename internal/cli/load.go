package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotrading/navigator/pkg/views"
)

type loadResult struct {
	Loaded  int      `json:"loaded"`
	Skipped int      `json:"skipped"`
	IDs     []string `json:"ids"`
}

var loadLender string

func newLoadCmd() *cobra.Command {
	loadLender = ""
	cmd := &cobra.Command{
		Use:   "load <file.jsonl|file.csv>",
		Short: "Load contracts from a JSONL file or trades from a CSV file",
		Long: `Load reads one contract per line and writes them to the store. Lines that are
not JSON objects are skipped; contracts without an id are assigned one.

A .csv file is read as trade bookings with a header row naming the columns
lender, borrower, tradeId, cusip, tradeDate, settlementDate,
collateralQuantity, price, repoRate, term, startAmount, endAmount and
currency. Each row becomes a Main.Trade contract encoded for the configured
schema version. Rows that fail to parse are skipped.`,
		Args: userArgs(cobra.ExactArgs(1)),
		RunE: runLoad,
	}
	cmd.Flags().StringVar(&loadLender, "lender", "", "load only trades booked by this lender (CSV only)")
	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	store, err := attachStore(cmd)
	if err != nil {
		return err
	}
	defer store.Detach()

	path := args[0]
	var ids []string
	var skipped int
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		variant, verr := views.VariantFor(current.ConfigMajor)
		if verr != nil {
			return verr
		}
		ids, skipped, err = store.ImportTrades(path, variant, loadLender)
	} else {
		ids, skipped, err = store.Import(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return userError(err)
		}
		return err
	}

	res := loadResult{Loaded: len(ids), Skipped: skipped, IDs: ids}
	if res.IDs == nil {
		res.IDs = []string{}
	}
	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d contracts (%d skipped)\n", res.Loaded, res.Skipped)
	return nil
}
