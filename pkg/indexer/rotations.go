// Copyright 2025 Certen Protocol
//
// Rotation Repository - read-model projection of C1/C8 verifier-set
// rotations.
package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RotationRepository handles rotations and verifier_set_trackers
// read-model operations.
type RotationRepository struct {
	client *Client
}

// NewRotationRepository constructs a RotationRepository.
func NewRotationRepository(client *Client) *RotationRepository {
	return &RotationRepository{client: client}
}

// IndexedTracker mirrors one row of the verifier_set_trackers table.
type IndexedTracker struct {
	Root      []byte
	Epoch     int64
	CreatedAt time.Time
}

// RecordRotation inserts the new tracker row and the rotation-event row
// in a single transaction.
func (r *RotationRepository) RecordRotation(ctx context.Context, tracker IndexedTracker, waivedDelay bool) error {
	tx, err := r.client.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO verifier_set_trackers (root, epoch, created_at) VALUES ($1, $2, $3)`,
		tracker.Root, tracker.Epoch, tracker.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to record tracker: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rotations (new_root, new_epoch, waived_delay) VALUES ($1, $2, $3)`,
		tracker.Root, tracker.Epoch, waivedDelay,
	); err != nil {
		return fmt.Errorf("failed to record rotation event: %w", err)
	}

	return tx.Commit()
}

// GetTracker retrieves an indexed tracker by its verifier-set root.
func (r *RotationRepository) GetTracker(ctx context.Context, root []byte) (*IndexedTracker, error) {
	query := `SELECT root, epoch, created_at FROM verifier_set_trackers WHERE root = $1`
	t := &IndexedTracker{}
	err := r.client.QueryRowContext(ctx, query, root).Scan(&t.Root, &t.Epoch, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTrackerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracker: %w", err)
	}
	return t, nil
}

// LatestEpoch returns the highest epoch recorded across all trackers, or
// zero if none have been indexed yet.
func (r *RotationRepository) LatestEpoch(ctx context.Context) (int64, error) {
	var epoch sql.NullInt64
	err := r.client.QueryRowContext(ctx, `SELECT MAX(epoch) FROM verifier_set_trackers`).Scan(&epoch)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest epoch: %w", err)
	}
	return epoch.Int64, nil
}
