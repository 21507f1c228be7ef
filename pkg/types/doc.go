// Package types defines the view configuration schema, the record and value
// model that column projections evaluate against, the ContractStore
// interface, and the standard error values shared by the navigator packages.
//
// A ViewSet maps view keys to ViewDefinitions. Each definition carries a
// SourceQuery (filter, search, sort) that a ContractStore evaluates, and an
// ordered list of ColumnDefinitions whose projections turn one Record into
// one Cell.
package types
