// Copyright 2025 Certen Protocol
//
// Transfer Repository - read-model projection of C7 interchain
// transfers, keyed by a synthetic row id since a single (token-id,
// direction) pair recurs across many transfers.
package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// TransferRepository handles interchain_transfers read-model operations.
type TransferRepository struct {
	client *Client
}

// NewTransferRepository constructs a TransferRepository.
func NewTransferRepository(client *Client) *TransferRepository {
	return &TransferRepository{client: client}
}

// Direction mirrors the read-model's direction column.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// IndexedTransfer mirrors one row of the interchain_transfers table.
type IndexedTransfer struct {
	ID               uuid.UUID
	TokenID          []byte
	Direction        Direction
	SourceChain      string
	DestinationChain string
	Amount           *big.Int
	EpochBucket      int64
	RecordedAt       time.Time
}

// RecordTransfer inserts a new transfer row, generating its id.
func (r *TransferRepository) RecordTransfer(ctx context.Context, t IndexedTransfer) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.client.ExecContext(ctx,
		`INSERT INTO interchain_transfers (id, token_id, direction, source_chain, destination_chain, amount, epoch_bucket, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, t.TokenID, string(t.Direction), t.SourceChain, t.DestinationChain, t.Amount.String(), t.EpochBucket, t.RecordedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record transfer: %w", err)
	}
	return id, nil
}

// GetByID retrieves an indexed transfer by its synthetic row id.
func (r *TransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*IndexedTransfer, error) {
	query := `SELECT id, token_id, direction, source_chain, destination_chain, amount, epoch_bucket, recorded_at
	          FROM interchain_transfers WHERE id = $1`
	var amount string
	t := &IndexedTransfer{}
	var direction string
	err := r.client.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.TokenID, &direction, &t.SourceChain, &t.DestinationChain, &amount, &t.EpochBucket, &t.RecordedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTransferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	t.Direction = Direction(direction)
	parsed, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount in row %s: %q", id, amount)
	}
	t.Amount = parsed
	return t, nil
}

// SumByTokenAndEpoch returns the total transferred amount for a token
// within one epoch bucket and direction, used to cross-check the
// on-chain flow slot against the read model.
func (r *TransferRepository) SumByTokenAndEpoch(ctx context.Context, tokenID []byte, epochBucket int64, direction Direction) (*big.Int, error) {
	var sum sql.NullString
	query := `SELECT SUM(amount)::text FROM interchain_transfers WHERE token_id = $1 AND epoch_bucket = $2 AND direction = $3`
	if err := r.client.QueryRowContext(ctx, query, tokenID, epochBucket, string(direction)).Scan(&sum); err != nil {
		return nil, fmt.Errorf("failed to sum transfers: %w", err)
	}
	if !sum.Valid {
		return big.NewInt(0), nil
	}
	total, ok := new(big.Int).SetString(sum.String, 10)
	if !ok {
		return nil, fmt.Errorf("malformed sum %q", sum.String)
	}
	return total, nil
}
