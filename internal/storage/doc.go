// Package storage provisions the users schema on SQLite (file or in-memory)
// and PostgreSQL targets, opens handles to initialized stores, and inserts
// user records.
package storage
