package sqlite

// Schema DDL. contracts.jsonl is the source of truth; the database is
// rebuilt from it on every Attach.
const (
	createContracts = `CREATE TABLE contracts (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    contract_id TEXT NOT NULL UNIQUE,
    template_id TEXT NOT NULL,
    archived INTEGER NOT NULL DEFAULT 0,
    document TEXT NOT NULL
);`

	createContractsTemplateIndex = `CREATE INDEX idx_contracts_template ON contracts (template_id);`

	createContractsArchivedIndex = `CREATE INDEX idx_contracts_archived ON contracts (archived);`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createContracts,
	createContractsTemplateIndex,
	createContractsArchivedIndex,
}

// Queries.
const (
	upsertContract = `INSERT INTO contracts (contract_id, template_id, archived, document)
VALUES (?, ?, ?, ?)
ON CONFLICT (contract_id) DO UPDATE SET
    template_id = excluded.template_id,
    archived = excluded.archived,
    document = excluded.document`

	selectContract = `SELECT document FROM contracts WHERE contract_id = ?`

	selectAllContracts = `SELECT document FROM contracts ORDER BY seq`

	selectActiveContracts = `SELECT document FROM contracts WHERE archived = 0 ORDER BY seq`
)
