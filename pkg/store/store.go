// Copyright 2025 Certen Protocol
//
// Package store implements the content-addressed record store every
// component in this module persists into: the direct analogue of a
// Solana account database, keyed the way spec.md §6's persistent-record
// table lays out ("gateway-root", "signature-verification", ...).
// Backing storage is provided by cometbft-db, the same dbm.DB interface
// the teacher wraps in its key-value adapter — in-memory for tests and
// ephemeral sessions, GoLevelDB for a persistent single-node deployment.
package store

import (
	"bytes"
	"errors"

	dbm "github.com/cometbft/cometbft-db"
)

// ErrNotFound is returned when a key has no record — the Go analogue of
// an uninitialized Solana account.
var ErrNotFound = errors.New("store: record not found")

// ErrAlreadyExists is returned by Create when a key already has a
// record, mirroring the "account already initialized" failure every
// content-addressed record in spec.md guards against (approve,
// initialize-session, initialize-buffer, rotate, ...).
var ErrAlreadyExists = errors.New("store: record already exists")

// KV is the minimal interface every record store in this module is
// built on: get, set, delete, and existence. It is deliberately narrower
// than dbm.DB so callers can be tested against an in-memory fake without
// depending on cometbft-db directly.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
}

// Store wraps a dbm.DB to implement KV, matching the gateway's "every
// record is owned by exactly one program; cross-component writes happen
// only via authenticated cross-program calls" ownership model: in this
// Go rendition, "owned by one program" becomes "mutated only by the one
// engine that holds the Store handle for that key namespace."
type Store struct {
	db dbm.DB
}

// New wraps an already-open dbm.DB.
func New(db dbm.DB) *Store {
	return &Store{db: db}
}

// NewMemory opens an in-process MemDB, used by tests and by any
// short-lived session that does not need durability across restarts.
func NewMemory() *Store {
	return &Store{db: dbm.NewMemDB()}
}

// NewGoLevelDB opens (creating if necessary) a GoLevelDB-backed store at
// dir/name.db, the durable single-node deployment option.
func NewGoLevelDB(name, dir string) (*Store, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Get returns the raw bytes under key, or ErrNotFound if uninitialized.
func (s *Store) Get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

// Set writes value under key unconditionally, durably (SetSync), since
// every record in this module is consensus-relevant state rather than a
// cache.
func (s *Store) Set(key, value []byte) error {
	return s.db.SetSync(key, value)
}

// Delete removes key, used by close paths that reclaim a record (the
// payload buffer's close(), a consumed deploy-approval, an accepted role
// proposal).
func (s *Store) Delete(key []byte) error {
	return s.db.DeleteSync(key)
}

// Has reports whether key has a record, the "does this account exist"
// check every initialize/approve path performs before writing.
func (s *Store) Has(key []byte) (bool, error) {
	v, err := s.db.Get(key)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

// Create writes value under key only if key is not already initialized,
// returning ErrAlreadyExists otherwise. This is the Go shape of "the
// record keyed by command-id [must] be uninitialized" (spec.md §4.2) and
// of S2's "third approval fails with AlreadyInitialized" scenario.
func (s *Store) Create(key, value []byte) error {
	exists, err := s.Has(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}
	return s.Set(key, value)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Iterate walks every key with the given prefix, invoking fn with the
// key's suffix (the prefix stripped) and its value.
func (s *Store) Iterate(prefix []byte, fn func(keySuffix, value []byte) error) error {
	it, err := s.db.Iterator(prefix, dbm.PrefixEndBytes(prefix))
	if err != nil {
		return err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		key := it.Key()
		if !bytes.HasPrefix(key, prefix) {
			continue
		}
		if err := fn(key[len(prefix):], it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}
