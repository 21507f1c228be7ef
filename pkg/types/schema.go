package types

import "fmt"

// SchemaName identifies navigator view configurations.
const SchemaName = "navigator-config"

// SchemaVersion is the version metadata embedded once per configuration.
type SchemaVersion struct {
	Schema string `json:"schema" yaml:"schema"`
	Major  int    `json:"major" yaml:"major"`
	Minor  int    `json:"minor" yaml:"minor"`
}

// String renders the version as "schema major.minor".
func (v SchemaVersion) String() string {
	return fmt.Sprintf("%s %d.%d", v.Schema, v.Major, v.Minor)
}

// CheckCompatible reports whether a configuration carrying v can be evaluated
// by an engine that understands engine. The schema name and the major version
// must match; minor versions are additive and never rejected. A mismatch
// returns an error wrapping ErrSchemaVersionMismatch and the configuration
// must not be applied.
func (v SchemaVersion) CheckCompatible(engine SchemaVersion) error {
	if v.Schema != engine.Schema {
		return fmt.Errorf("%w: schema %q, engine expects %q", ErrSchemaVersionMismatch, v.Schema, engine.Schema)
	}
	if v.Major != engine.Major {
		return fmt.Errorf("%w: major %d, engine expects %d", ErrSchemaVersionMismatch, v.Major, engine.Major)
	}
	return nil
}
