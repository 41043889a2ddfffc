// Copyright 2025 Certen Protocol
//
// Message Repository - read-model projection of C3 incoming-message
// approvals and executions, for off-chain lookups by relayers and the
// introspection API.
package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MessageRepository handles incoming_messages read-model operations.
type MessageRepository struct {
	client *Client
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(client *Client) *MessageRepository {
	return &MessageRepository{client: client}
}

// IndexedMessage mirrors one row of the incoming_messages table.
type IndexedMessage struct {
	CommandID        []byte
	SourceChain      string
	SourceMessageID  string
	SourceAddress    string
	DestinationChain string
	MessageHash      []byte
	PayloadHash      []byte
	Status           int16
	ApprovedAt       time.Time
	ExecutedAt       sql.NullTime
}

// RecordApproval inserts a row for a newly approved message.
func (r *MessageRepository) RecordApproval(ctx context.Context, msg IndexedMessage) error {
	query := `
		INSERT INTO incoming_messages (
			command_id, source_chain, source_message_id, source_address,
			destination_chain, message_hash, payload_hash, status, approved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.client.ExecContext(ctx, query,
		msg.CommandID, msg.SourceChain, msg.SourceMessageID, msg.SourceAddress,
		msg.DestinationChain, msg.MessageHash, msg.PayloadHash, msg.Status, msg.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record message approval: %w", err)
	}
	return nil
}

// RecordExecution marks a message executed.
func (r *MessageRepository) RecordExecution(ctx context.Context, commandID []byte, executedAt time.Time) error {
	query := `UPDATE incoming_messages SET status = 1, executed_at = $2 WHERE command_id = $1`
	result, err := r.client.ExecContext(ctx, query, commandID, executedAt)
	if err != nil {
		return fmt.Errorf("failed to record message execution: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// GetByCommandID retrieves a message by its command-id.
func (r *MessageRepository) GetByCommandID(ctx context.Context, commandID []byte) (*IndexedMessage, error) {
	query := `
		SELECT command_id, source_chain, source_message_id, source_address,
			destination_chain, message_hash, payload_hash, status, approved_at, executed_at
		FROM incoming_messages WHERE command_id = $1`

	msg := &IndexedMessage{}
	err := r.client.QueryRowContext(ctx, query, commandID).Scan(
		&msg.CommandID, &msg.SourceChain, &msg.SourceMessageID, &msg.SourceAddress,
		&msg.DestinationChain, &msg.MessageHash, &msg.PayloadHash, &msg.Status,
		&msg.ApprovedAt, &msg.ExecutedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListBySourceChain returns the most recent messages from a given
// source chain, newest first.
func (r *MessageRepository) ListBySourceChain(ctx context.Context, sourceChain string, limit int) ([]*IndexedMessage, error) {
	query := `
		SELECT command_id, source_chain, source_message_id, source_address,
			destination_chain, message_hash, payload_hash, status, approved_at, executed_at
		FROM incoming_messages
		WHERE source_chain = $1
		ORDER BY approved_at DESC
		LIMIT $2`

	rows, err := r.client.QueryContext(ctx, query, sourceChain, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages by source chain: %w", err)
	}
	defer rows.Close()

	var out []*IndexedMessage
	for rows.Next() {
		msg := &IndexedMessage{}
		if err := rows.Scan(
			&msg.CommandID, &msg.SourceChain, &msg.SourceMessageID, &msg.SourceAddress,
			&msg.DestinationChain, &msg.MessageHash, &msg.PayloadHash, &msg.Status,
			&msg.ApprovedAt, &msg.ExecutedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// CountPendingExecution returns the number of messages approved but not
// yet executed.
func (r *MessageRepository) CountPendingExecution(ctx context.Context) (int64, error) {
	var count int64
	err := r.client.QueryRowContext(ctx, `SELECT COUNT(*) FROM incoming_messages WHERE status = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending messages: %w", err)
	}
	return count, nil
}
