// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package: the task and tag
// stores, the list query builder and the embedded goose migrations.
//
// Connections are opened through the pgx database/sql driver ("pgx").
package postgres
