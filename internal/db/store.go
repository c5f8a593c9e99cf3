// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/toeirei/hostmaster/internal/model"

// Store defines the interface for all database operations in Hostmaster.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Journal methods
	LogAction(action string, details string) error
	GetAllJournalEntries() ([]model.JournalEntry, error)
	ImportJournalEntries(entries []model.JournalEntry) (int, error)

	// Host Key methods
	GetKnownHostKey(hostname string) (string, error)
	AddKnownHostKey(hostname, key string) error

	// Close releases the underlying connection.
	Close() error
}
