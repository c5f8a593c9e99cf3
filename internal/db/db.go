// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Hostmaster's provisioning
// journal. It abstracts the underlying database (SQLite, PostgreSQL, MySQL)
// behind a consistent interface, allowing the rest of the application to
// interact with the database in a uniform way.
package db // import "github.com/toeirei/hostmaster/internal/db"

import (
	"github.com/toeirei/hostmaster/internal/model"
)

// store is the package-level Store the helper functions below delegate to.
var store Store

// InitDB initializes the database connection based on the provided type and
// DSN, sets the package-level store and creates missing tables.
func InitDB(dbType, dsn string) error {
	s, err := NewStoreFromDSN(dbType, dsn)
	if err != nil {
		return err
	}
	store = s
	return nil
}

// IsInitialized reports whether the package-level store has been set.
func IsInitialized() bool {
	return store != nil
}

// SetStore swaps the package-level store. Tests use this to inject an
// in-memory store.
func SetStore(s Store) {
	store = s
}

// LogAction writes one journal row for a completed (or failed) task step.
func LogAction(action, details string) error {
	if store == nil {
		return ErrNotInitialized
	}
	return store.LogAction(action, details)
}

// GetAllJournalEntries returns the journal, most recent first.
func GetAllJournalEntries() ([]model.JournalEntry, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetAllJournalEntries()
}

// ImportJournalEntries merges entries from a backup file into the journal,
// returning the number of rows actually added.
func ImportJournalEntries(entries []model.JournalEntry) (int, error) {
	if store == nil {
		return 0, ErrNotInitialized
	}
	return store.ImportJournalEntries(entries)
}

// GetKnownHostKey returns the trusted public key for a hostname, or "" when
// the host is unknown.
func GetKnownHostKey(hostname string) (string, error) {
	if store == nil {
		return "", ErrNotInitialized
	}
	return store.GetKnownHostKey(hostname)
}

// AddKnownHostKey records a host's public key as trusted.
func AddKnownHostKey(hostname, key string) error {
	if store == nil {
		return ErrNotInitialized
	}
	return store.AddKnownHostKey(hostname, key)
}
