// Package schema declares the canonical shapes the pipeline loads: the
// ordered field contracts for the Electronics and Inventory tables, and the
// column maps that tie transformed field names to destination columns.
//
// A Contract is the source of truth for three stages at once: the transform
// chain reads Required/Default/Type from it, the validator asserts runtime
// types against it, and the DDL builders derive CREATE TABLE statements from
// it. Keeping one ordered definition prevents the classic failure mode where
// the SELECT projection and INSERT column order drift apart and row values
// shift into the wrong columns.
package schema

// Field types understood by the pipeline. They map onto exactly one Go
// runtime type after coercion.
const (
	TypeText  = "text"  // string
	TypeFloat = "float" // float64
	TypeInt   = "int"   // int32
)

// Field describes one canonical column.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // "text" | "float" | "int"
	Required bool   `json:"required,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`

	// Default is filled into missing optional values after required-field
	// filtering. nil means "no default" (the field stays absent/nil).
	Default any `json:"default,omitempty"`
}

// Contract is an ordered set of canonical fields.
type Contract struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`

	// Rename maps raw source field names to canonical names, applied by the
	// transform chain before coercion (e.g. highResImage -> imageUrl).
	Rename map[string]string `json:"rename,omitempty"`

	// Key lists the fields forming the business identity used for
	// de-duplication.
	Key []string `json:"key,omitempty"`

	// RequireRaw lists the RAW (pre-rename) field names whose absence
	// disqualifies a row entirely rather than triggering a default.
	RequireRaw []string `json:"require_raw,omitempty"`
}

// FieldNames returns the canonical field names in declaration order.
func (c Contract) FieldNames() []string {
	out := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		out[i] = f.Name
	}
	return out
}

// FieldByName returns the field definition for name.
func (c Contract) FieldByName(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Types returns the field name -> type mapping used by the coerce step.
func (c Contract) Types() map[string]string {
	out := make(map[string]string, len(c.Fields))
	for _, f := range c.Fields {
		out[f.Name] = f.Type
	}
	return out
}

// Mapping is one (source field, destination column) pair.
type Mapping struct {
	Source string
	Dest   string
}

// ColumnMap is the ordered projection from canonical record fields to
// destination table columns. The same order drives both the row projection
// in the loader and the INSERT column list, so the two can never disagree.
type ColumnMap []Mapping

// Sources returns the record field names in projection order.
func (m ColumnMap) Sources() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Source
	}
	return out
}

// Dests returns the destination column names in projection order.
func (m ColumnMap) Dests() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Dest
	}
	return out
}
