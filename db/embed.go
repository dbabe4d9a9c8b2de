// Package db provides embedded database schema and migration files.
package db

import _ "embed"

// Schema contains the DDL for the products and cart_items tables.
//
//go:embed migrations/001_schema.sql
var Schema string
