// Package ddl holds a small dialect-neutral model for table definitions and
// a baseline CREATE TABLE renderer. Quoting and dialect-specific clauses are
// the caller's responsibility; backend packages wrap this with their own
// identifier quoting and type mappings.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef is one column of a table definition. SQLType is already in the
// target dialect; Name is emitted through the caller-supplied quoter.
// Default is a raw SQL expression and is the caller's responsibility to keep
// dialect-correct.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
	Default  string
}

// TableDef is an ordered set of columns under a possibly schema-qualified
// table name.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// Quoter escapes a single identifier for a dialect.
type Quoter func(ident string) string

// BuildCreateTableSQL renders a CREATE TABLE statement for t. ifNotExists
// adds the IF NOT EXISTS clause for dialects that support it.
func BuildCreateTableSQL(t TableDef, quote Quoter, ifNotExists bool) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", t.Name)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" || c.SQLType == "" {
			return "", fmt.Errorf("ddl: incomplete column in table %s", t.Name)
		}
		def := quote(c.Name) + " " + c.SQLType
		if !c.Nullable {
			def += " NOT NULL"
		}
		if d := strings.TrimSpace(c.Default); d != "" {
			def += " DEFAULT " + d
		}
		cols = append(cols, def)
	}

	clause := "CREATE TABLE "
	if ifNotExists {
		clause = "CREATE TABLE IF NOT EXISTS "
	}
	return clause + quoteQualified(t.Name, quote) + " (\n  " + strings.Join(cols, ",\n  ") + "\n)", nil
}

// quoteQualified quotes each dotted segment of a possibly schema-qualified
// name, e.g. "dbo.Electronics" becomes "[dbo].[Electronics]" under an MSSQL
// quoter.
func quoteQualified(name string, quote Quoter) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

// QuoteQualified is the exported form used by backends for DML rendering.
func QuoteQualified(name string, quote Quoter) string { return quoteQualified(name, quote) }
