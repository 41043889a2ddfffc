// Copyright 2025 Certen Protocol
//
// Sentinel errors for indexer repository operations: explicit errors
// instead of a bare nil, nil on a missing row.
package indexer

import "errors"

var (
	// ErrMessageNotFound is returned when a command-id has no indexed
	// incoming-message row.
	ErrMessageNotFound = errors.New("indexer: message not found")

	// ErrTrackerNotFound is returned when a verifier-set root has no
	// indexed tracker row.
	ErrTrackerNotFound = errors.New("indexer: verifier set tracker not found")

	// ErrTransferNotFound is returned when a transfer id has no indexed
	// row.
	ErrTransferNotFound = errors.New("indexer: transfer not found")
)
