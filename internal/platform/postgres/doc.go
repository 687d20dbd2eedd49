// Package postgres implements the store interfaces against PostgreSQL
// using the pgx driver through database/sql.
package postgres
