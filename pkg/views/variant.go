package views

import (
	"fmt"

	"github.com/repotrading/navigator/internal/damlvalue"
	"github.com/repotrading/navigator/pkg/types"
)

// Schema versions of the two configuration variants.
var (
	V1 = types.SchemaVersion{Schema: types.SchemaName, Major: 1, Minor: 0}
	V2 = types.SchemaVersion{Schema: types.SchemaName, Major: 2, Minor: 0}
)

// Variant parameterises the view builder for one schema version.
type Variant struct {
	Version types.SchemaVersion

	// Decode turns a raw contract argument into plain JSON.
	Decode types.ArgumentDecoder

	// TemplateSeparator joins a template's module path and entity name.
	TemplateSeparator string

	// EncodedArguments is set when contract arguments arrive Daml-LF
	// encoded and Decode must run before paths resolve.
	EncodedArguments bool
}

// V1Variant consumes plain JSON arguments and dotted template ids
// (Main.CCP.CCP).
func V1Variant() Variant {
	return Variant{Version: V1, Decode: types.IdentityDecoder, TemplateSeparator: "."}
}

// V2Variant decodes Daml-LF arguments and uses colon-qualified template
// ids (Main.CCP:CCP).
func V2Variant() Variant {
	return Variant{Version: V2, Decode: damlvalue.Decode, TemplateSeparator: ":", EncodedArguments: true}
}

// VariantFor returns the variant for a schema major version.
func VariantFor(major int) (Variant, error) {
	switch major {
	case V1.Major:
		return V1Variant(), nil
	case V2.Major:
		return V2Variant(), nil
	default:
		return Variant{}, fmt.Errorf("%w: no configuration for major %d", types.ErrSchemaVersionMismatch, major)
	}
}

// Template returns the qualified id of an entity declared in module, for
// example Template("Main.Trade", "Trade") is "Main.Trade:Trade" in V2.
func (v Variant) Template(module, entity string) string {
	return module + v.TemplateSeparator + entity
}
