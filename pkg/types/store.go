package types

// ContractStore is the data-fetch collaborator: it holds contracts and
// returns those matching a view's source query.
type ContractStore interface {
	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	// Put creates or replaces a contract. A record without an id gets a
	// new UUID v7. Returns the id used.
	Put(r Record) (string, error)

	// Get retrieves one contract. Returns ErrNotFound if absent.
	Get(id string) (Record, error)

	// Archive marks a contract archived. Returns ErrNotFound if absent.
	Archive(id string) error

	// Fetch returns the contracts selected by def.Source, honouring
	// def.IncludeArchived, in sort order. decode is applied to arguments
	// before filter, search and sort paths are resolved.
	Fetch(def ViewDefinition, decode ArgumentDecoder) ([]Record, error)
}
