// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

// Package store persists user preference profiles in BadgerDB so learned
// weights survive restarts. An empty path opens an in-memory database,
// which is what the tests use.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/mozayed007/Daily-Feed/internal/personalize"
)

// prefsKeyPrefix namespaces preference records in BadgerDB.
const prefsKeyPrefix = "prefs:"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("preference store is closed")

// PreferenceStore is a BadgerDB-backed store of UserPreferences keyed
// by user ID.
type PreferenceStore struct {
	db *badger.DB
}

// Open opens a preference store at path. An empty path opens an
// in-memory database that is lost on Close.
func Open(path string) (*PreferenceStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for preferences: %w", err)
	}

	return &PreferenceStore{db: db}, nil
}

// Get returns the stored preferences for userID, or a fresh neutral
// profile when none exist. The returned profile is always non-nil on
// success.
func (s *PreferenceStore) Get(ctx context.Context, userID string) (*personalize.UserPreferences, error) {
	if s.db.IsClosed() {
		return nil, ErrClosed
	}

	var prefs personalize.UserPreferences

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &prefs)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return personalize.NewUserPreferences(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	return &prefs, nil
}

// Put stores the preferences, replacing any prior record for the user.
func (s *PreferenceStore) Put(ctx context.Context, prefs *personalize.UserPreferences) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	if prefs.UserID == "" {
		return errors.New("preferences missing user ID")
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(makeKey(prefs.UserID), data); err != nil {
			return fmt.Errorf("set preferences: %w", err)
		}
		return nil
	})
}

// Delete removes the record for userID. Deleting a missing record is
// not an error.
func (s *PreferenceStore) Delete(ctx context.Context, userID string) error {
	if s.db.IsClosed() {
		return ErrClosed
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(makeKey(userID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete preferences: %w", err)
		}
		return nil
	})
}

// ForEach calls fn with every stored profile. A profile mutated by fn
// is not written back; callers persist changes with Put. Iteration
// stops on the first error from fn or when ctx is canceled.
func (s *PreferenceStore) ForEach(ctx context.Context, fn func(*personalize.UserPreferences) error) error {
	if s.db.IsClosed() {
		return ErrClosed
	}

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefsKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var prefs personalize.UserPreferences
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &prefs)
			})
			if err != nil {
				return fmt.Errorf("unmarshal preferences: %w", err)
			}

			if err := fn(&prefs); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of stored profiles.
func (s *PreferenceStore) Count(ctx context.Context) (int, error) {
	if s.db.IsClosed() {
		return 0, ErrClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefsKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}

// Close flushes and closes the underlying database.
func (s *PreferenceStore) Close() error {
	return s.db.Close()
}

func makeKey(userID string) []byte {
	return []byte(prefsKeyPrefix + userID)
}
