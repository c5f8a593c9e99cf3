// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/toeirei/hostmaster/internal/model"
	"github.com/uptrace/bun"
)

// JournalModel maps the `journal` table for Bun queries.
type JournalModel struct {
	bun.BaseModel `bun:"table:journal"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// KnownHostModel maps the `known_hosts` table.
type KnownHostModel struct {
	bun.BaseModel `bun:"table:known_hosts"`
	Hostname      string `bun:"hostname,pk"`
	Key           string `bun:"key"`
}

// BunStore is the bun-backed implementation of the Store interface. The
// same code serves SQLite, PostgreSQL and MySQL through the dialect chosen
// at construction time.
type BunStore struct {
	db  *sql.DB
	bun *bun.DB
}

// ensureSchema creates the journal tables when they do not exist yet.
func (s *BunStore) ensureSchema(ctx context.Context) error {
	if _, err := s.bun.NewCreateTable().Model((*JournalModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create journal table: %w", err)
	}
	if _, err := s.bun.NewCreateTable().Model((*KnownHostModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create known_hosts table: %w", err)
	}
	return nil
}

// LogAction appends one journal row with the current UTC timestamp.
func (s *BunStore) LogAction(action, details string) error {
	ctx := context.Background()
	_, err := s.bun.NewInsert().Model(&JournalModel{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Action:    action,
		Details:   details,
	}).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// GetAllJournalEntries returns the journal, most recent first.
func (s *BunStore) GetAllJournalEntries() ([]model.JournalEntry, error) {
	ctx := context.Background()
	var rows []JournalModel
	if err := s.bun.NewSelect().Model(&rows).Order("id DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	entries := make([]model.JournalEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, journalModelToModel(r))
	}
	return entries, nil
}

// ImportJournalEntries inserts entries that are not already present. A row
// is considered a duplicate when timestamp, action and details all match.
func (s *BunStore) ImportJournalEntries(entries []model.JournalEntry) (int, error) {
	ctx := context.Background()
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	added := 0
	for _, e := range entries {
		switch err := insertJournalEntry(ctx, tx, e); {
		case errors.Is(err, ErrDuplicate):
			continue
		case err != nil:
			return added, err
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return added, err
	}
	return added, nil
}

// insertJournalEntry adds one imported row, returning ErrDuplicate when a
// row with the same timestamp, action and details already exists.
func insertJournalEntry(ctx context.Context, idb bun.IDB, e model.JournalEntry) error {
	exists, err := idb.NewSelect().Model((*JournalModel)(nil)).
		Where("timestamp = ?", e.Timestamp).
		Where("action = ?", e.Action).
		Where("details = ?", e.Details).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check journal entry: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s %s", ErrDuplicate, e.Timestamp, e.Action)
	}
	if _, err := idb.NewInsert().Model(&JournalModel{
		Timestamp: e.Timestamp,
		Action:    e.Action,
		Details:   e.Details,
	}).Exec(ctx); err != nil {
		return fmt.Errorf("failed to import journal entry: %w", err)
	}
	return nil
}

// GetKnownHostKey returns the trusted key for a hostname, "" when unknown.
func (s *BunStore) GetKnownHostKey(hostname string) (string, error) {
	ctx := context.Background()
	var kh KnownHostModel
	err := s.bun.NewSelect().Model(&kh).Where("hostname = ?", hostname).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return kh.Key, nil
}

// AddKnownHostKey records a host's public key, replacing any previous one.
func (s *BunStore) AddKnownHostKey(hostname, key string) error {
	ctx := context.Background()
	existing, err := s.GetKnownHostKey(hostname)
	if err != nil {
		return err
	}
	if existing != "" {
		_, err = s.bun.NewUpdate().Model(&KnownHostModel{Hostname: hostname, Key: key}).
			Column("key").Where("hostname = ?", hostname).Exec(ctx)
		return err
	}
	_, err = s.bun.NewInsert().Model(&KnownHostModel{Hostname: hostname, Key: key}).Exec(ctx)
	return err
}

// Close releases the underlying connection pool.
func (s *BunStore) Close() error {
	return s.db.Close()
}

func journalModelToModel(r JournalModel) model.JournalEntry {
	return model.JournalEntry{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Action:    r.Action,
		Details:   r.Details,
	}
}
