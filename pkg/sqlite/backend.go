// Package sqlite provides the public API for the SQLite contract store.
// This package exposes the factory function for creating SQLite stores
// while keeping implementation details internal.
package sqlite

import (
	"github.com/repotrading/navigator/internal/sqlite"
	"github.com/repotrading/navigator/pkg/types"
)

// NewStore creates a new SQLite contract store.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewStore()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".navigator-db",
//	})
//	defer store.Detach()
//	rows, err := store.Fetch(view, variant.Decode)
func NewStore() types.ContractStore {
	return sqlite.NewBackend()
}
