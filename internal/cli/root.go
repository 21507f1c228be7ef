// Package cli implements the navigator command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotrading/navigator/internal/ctxlog"
	"github.com/repotrading/navigator/internal/trades"
	"github.com/repotrading/navigator/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

var (
	flags rootFlags
	// current is the configuration loaded before every subcommand runs.
	current settings
)

// NewRootCmd creates the top-level "navigator" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags = rootFlags{}
	current = settings{}

	root := &cobra.Command{
		Use:   "navigator",
		Short: "Browse ledger contracts through configured table views",
		Long: "Navigator serves the view configuration of the contract browser and\n" +
			"renders its views against a local contract store.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadSettings,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .navigator-db)")
	pf.BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	pf.String(cfgKeyUser, "", "user id passed to the view registry")
	pf.String(cfgKeyParty, "", "party passed to the view registry")
	pf.String(cfgKeyRole, "", "role passed to the view registry")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userError(err)
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newViewsCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newLoadCmd())
	root.AddCommand(newArchiveCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns its exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// cliError carries an explicit exit code.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

// userError marks err as caused by the invocation rather than the system.
func userError(err error) error {
	return &cliError{code: exitUserError, err: err}
}

// userArgs wraps a cobra argument validator so its failures exit as user
// errors.
func userArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return userError(err)
		}
		return nil
	}
}

var userErrors = []error{
	types.ErrSchemaVersionMismatch,
	types.ErrViewNotFound,
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	trades.ErrMissingColumn,
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return exitUserError
	}
	return exitSysError
}

// logger returns the command's logger.
func logger(cmd *cobra.Command) *slog.Logger {
	return ctxlog.FromContext(cmd.Context())
}
