package database

import _ "embed"

// Schema creates the tables the queries in this package expect. It is
// idempotent and used by integration tests and local setup.
//
//go:embed schema.sql
var Schema string
