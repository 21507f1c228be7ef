// Package sqlite implements the ContractStore on SQLite. contracts.jsonl in
// the data directory is the source of truth; SQLite is the query engine,
// rebuilt from the JSONL file on Attach and kept in step on every write.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/repotrading/navigator/internal/paths"
	"github.com/repotrading/navigator/internal/query"
	"github.com/repotrading/navigator/pkg/types"
)

// Backend implements types.ContractStore.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	files    paths.Store
	db       *sql.DB
	logger   *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger for attach, load and write events.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, rebuilds the SQLite database and
// loads contracts.jsonl into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	files := paths.Store{Dir: dataDir}

	// The database is derived state; start from an empty file.
	if err := os.Remove(files.Database()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale database: %w", err)
	}

	db, err := sql.Open("sqlite", files.Database())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := ensureJSONL(files.Contracts()); err != nil {
		db.Close()
		return err
	}
	loaded, skipped, err := loadJSONL(db, files.Contracts())
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	config.DataDir = dataDir
	b.db = db
	b.config = config
	b.files = files
	b.attached = true

	b.logger.Debug("store attached", "data_dir", dataDir, "loaded", loaded, "skipped", skipped)
	return nil
}

// Detach closes the SQLite connection. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.logger.Debug("store detached", "data_dir", b.config.DataDir)
	return nil
}

// newUUID generates a UUID v7 string, falling back to v4.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Put creates or replaces a contract and rewrites contracts.jsonl.
func (b *Backend) Put(r types.Record) (string, error) {
	ids, err := b.PutAll([]types.Record{r})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// PutAll writes a batch of contracts in one transaction and persists the
// JSONL file once. Records without an id get a UUID v7. Returns the ids in
// input order.
func (b *Backend) PutAll(records []types.Record) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	prepared := make([]types.Record, len(records))
	ids := make([]string, len(records))
	for i, r := range records {
		if len(r.Bytes()) == 0 {
			return nil, types.ErrInvalidRecord
		}
		if r.ID() == "" {
			withID, err := r.WithID(newUUID())
			if err != nil {
				return nil, err
			}
			r = withID
		}
		prepared[i] = r
		ids[i] = r.ID()
	}

	if err := b.upsertLocked(prepared); err != nil {
		return nil, err
	}
	if err := b.persistLocked(); err != nil {
		return nil, err
	}
	b.logger.Debug("contracts written", "count", len(prepared))
	return ids, nil
}

// Get retrieves a contract by id.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (b *Backend) Get(id string) (types.Record, error) {
	if id == "" {
		return types.Record{}, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Record{}, types.ErrStoreDetached
	}
	return b.getLocked(id)
}

func (b *Backend) getLocked(id string) (types.Record, error) {
	var doc string
	err := b.db.QueryRow(selectContract, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, types.ErrNotFound
	}
	if err != nil {
		return types.Record{}, fmt.Errorf("query contract: %w", err)
	}
	return types.NewRecord([]byte(doc))
}

// Archive marks a contract archived. Archiving twice is not an error.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (b *Backend) Archive(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	r, err := b.getLocked(id)
	if err != nil {
		return err
	}
	if r.Archived() {
		return nil
	}
	archived, err := r.WithArchived(true)
	if err != nil {
		return err
	}
	if err := b.upsertLocked([]types.Record{archived}); err != nil {
		return err
	}
	return b.persistLocked()
}

// Fetch returns the contracts selected by def.Source in sort order.
// Archived contracts are only read when def.IncludeArchived is set.
func (b *Backend) Fetch(def types.ViewDefinition, decode types.ArgumentDecoder) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	stmt := selectActiveContracts
	if def.IncludeArchived {
		stmt = selectAllContracts
	}
	records, err := b.queryLocked(stmt)
	if err != nil {
		return nil, err
	}

	result := query.Evaluate(records, def, decode)
	b.logger.Debug("contracts fetched", "title", def.Title, "scanned", len(records), "matched", len(result))
	return result, nil
}

func (b *Backend) queryLocked(stmt string) ([]types.Record, error) {
	rows, err := b.db.Query(stmt)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}
		r, err := types.NewRecord([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("parsing contract: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (b *Backend) upsertLocked(records []types.Record) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning write transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertContract)
	if err != nil {
		return fmt.Errorf("preparing contract upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if err := execUpsert(stmt, r); err != nil {
			return fmt.Errorf("writing contract %s: %w", r.ID(), err)
		}
	}
	return tx.Commit()
}

// persistLocked rewrites contracts.jsonl from the database in insertion
// order. The caller must hold b.mu.
func (b *Backend) persistLocked() error {
	records, err := b.queryLocked(selectAllContracts)
	if err != nil {
		return err
	}
	lines := make([]json.RawMessage, len(records))
	for i, r := range records {
		lines[i] = r.Bytes()
	}
	if err := writeJSONL(b.files.Contracts(), lines); err != nil {
		return fmt.Errorf("persist %s: %w", paths.ContractsFileName, err)
	}
	return nil
}

var _ types.ContractStore = (*Backend)(nil)
