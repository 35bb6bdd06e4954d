// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: importing it (even as a blank import)
// runs the init functions of each concrete backend, which register their
// repository factories and DDL bootstrappers with the storage package. After
// the import the following kinds are available at runtime:
//
//   - "postgres"
//   - "mssql"
//   - "mysql"
//   - "sqlite"
//
// A binary that should support only a subset of backends can import the
// individual backend packages instead of this one.
package all

import (
	_ "github.com/hd9319/ecommerce-app/internal/storage/mssql"
	_ "github.com/hd9319/ecommerce-app/internal/storage/mysql"
	_ "github.com/hd9319/ecommerce-app/internal/storage/postgres"
	_ "github.com/hd9319/ecommerce-app/internal/storage/sqlite"
)
