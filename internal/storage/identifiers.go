package storage

import "strings"

// quoters maps a storage kind to its single-identifier quoting rule,
// mirroring how each backend quotes identifiers when provisioning and
// replacing tables.
var quoters = map[string]func(string) string{
	"postgres": func(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` },
	"sqlite":   func(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` },
	"mysql":    func(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" },
	"mssql":    func(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` },
}

// QuoteName renders a possibly schema-qualified identifier for the given
// storage kind. Statements composed outside a backend must quote the same
// way provisioning did: Postgres folds unquoted identifiers to lower case,
// so an unquoted reference to a quoted-created table does not resolve.
// Unknown kinds pass the name through unchanged.
func QuoteName(kind, name string) string {
	quote, ok := quoters[kind]
	if !ok {
		return name
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}
