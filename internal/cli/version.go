package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repotrading/navigator/pkg/views"
)

const modulePath = "github.com/repotrading/navigator"

// Version is the binary version, set at build time with -ldflags -X.
var Version = "0.1.0-dev"

type versionInfo struct {
	Version string `json:"version"`
	Module  string `json:"module"`
	Config  string `json:"config"`
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the navigator and view configuration versions",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			variant, err := views.VariantFor(current.ConfigMajor)
			if err != nil {
				return err
			}
			info := versionInfo{
				Version: Version,
				Module:  modulePath,
				Config:  variant.Version.String(),
			}
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "navigator v%s\nmodule: %s\nconfig: %s\n", info.Version, info.Module, info.Config)
			return nil
		},
	}
}
