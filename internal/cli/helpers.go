package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/repotrading/navigator/internal/paths"
	"github.com/repotrading/navigator/internal/sqlite"
	"github.com/repotrading/navigator/pkg/types"
	"github.com/repotrading/navigator/pkg/views"
)

// attachStore resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer Detach.
func attachStore(cmd *cobra.Command) (*sqlite.Backend, error) {
	dataDir, err := paths.DataDir(flags.dataDir, current.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	logger(cmd).Debug("data dir resolved", "dir", dataDir.Dir, "source", dataDir.Source)

	cfg := types.Config{
		Backend: current.Backend,
		DataDir: dataDir.Dir,
	}

	store := sqlite.NewBackend(sqlite.WithLogger(logger(cmd)))
	if err := store.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return store, nil
}

// loadRegistry selects the configured variant and checks it against the
// engine's accepted schema version before any view is built.
func loadRegistry(cmd *cobra.Command) (*views.Registry, views.Variant, error) {
	variant, err := views.VariantFor(current.ConfigMajor)
	if err != nil {
		return nil, views.Variant{}, err
	}
	registry := views.New(variant)

	engine := types.SchemaVersion{Schema: types.SchemaName, Major: current.EngineMajor}
	if err := registry.Version().CheckCompatible(engine); err != nil {
		return nil, views.Variant{}, err
	}
	logger(cmd).Debug("view configuration loaded", "version", registry.Version().String())
	return registry, variant, nil
}

// viewSet builds the views for the configured identity.
func viewSet(registry *views.Registry) types.ViewSet {
	return registry.GetViews(current.User, current.Party, current.Role)
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
