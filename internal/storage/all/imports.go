// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: a blank import of this package runs the
// init functions of each concrete backend, registering their factories and
// DDL renderers with the storage package. Importing it makes these kinds
// available at runtime:
//
//   - "sqlite"   (casepipe/internal/storage/sqlite)
//   - "postgres" (casepipe/internal/storage/postgres)
//   - "mssql"    (casepipe/internal/storage/mssql)
package all

import (
	_ "casepipe/internal/storage/mssql"
	_ "casepipe/internal/storage/postgres"
	_ "casepipe/internal/storage/sqlite"
)
