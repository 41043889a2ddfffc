// Copyright 2025 Certen Protocol
//
// Package payload implements C4, the Message-Payload Buffer: a chunked
// writable staging area for the raw bytes associated with an approved
// message, which freezes into an immutable, hash-committed region.
package payload

import (
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/codec"
	"github.com/axelar-network/axelar-solana-core/pkg/cryptoutil"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
)

// Errors returned by Buffer operations, matching the closed failure
// taxonomy of spec.md §4.3.
var (
	ErrWriteOutOfBounds = errors.New("payload: write range exceeds buffer region")
	ErrAlreadyCommitted = errors.New("payload: buffer is already committed")
	ErrNotUploader      = errors.New("payload: caller is not the buffer's uploader")
	ErrNotCommitted     = errors.New("payload: buffer has not been committed")
)

// Buffer is the C4 persistent record.
type Buffer struct {
	Uploader    address.Address
	Committed   bool
	PayloadHash [32]byte
	Region      []byte
}

// Encode serializes the buffer in fixed field order.
func (b Buffer) Encode() []byte {
	w := codec.NewWriter()
	w.WriteFixed(b.Uploader[:])
	w.WriteBool(b.Committed)
	w.WriteFixed(b.PayloadHash[:])
	w.WriteBytes(b.Region)
	return w.Bytes()
}

// DecodeBuffer parses bytes produced by Encode.
func DecodeBuffer(raw []byte) (Buffer, error) {
	r := codec.NewReader(raw)
	var b Buffer

	uploader, err := r.ReadFixed(address.Size)
	if err != nil {
		return b, err
	}
	copy(b.Uploader[:], uploader)

	if b.Committed, err = r.ReadBool(); err != nil {
		return b, err
	}

	payloadHash, err := r.ReadFixed(32)
	if err != nil {
		return b, err
	}
	copy(b.PayloadHash[:], payloadHash)

	if b.Region, err = r.ReadBytes(); err != nil {
		return b, err
	}
	if !r.Done() {
		return b, codec.ErrTrailingData
	}
	return b, nil
}

// Initialize reserves a fixed-size byte region for uploader, keyed by
// (incomingMessageAddr, uploader). It fails if the record already
// exists.
func Initialize(st *store.Store, incomingMessageAddr address.Address, uploader address.Address, size uint32) error {
	buf := Buffer{
		Uploader: uploader,
		Region:   make([]byte, size),
	}
	key := store.MessagePayloadKey(incomingMessageAddr[:], uploader[:])
	return st.Create(key, buf.Encode())
}

// Write overwrites the byte range [offset, offset+len(data)) of the
// buffer's region. It is idempotent-by-offset, not by content: writing
// the same range twice with different bytes simply overwrites. It fails
// if the range exceeds the region, if the buffer is already committed,
// or if caller is not the uploader.
func Write(st *store.Store, incomingMessageAddr address.Address, uploader address.Address, caller address.Address, offset uint32, data []byte) error {
	key := store.MessagePayloadKey(incomingMessageAddr[:], uploader[:])
	raw, err := st.Get(key)
	if err != nil {
		return err
	}
	buf, err := DecodeBuffer(raw)
	if err != nil {
		return err
	}

	if caller != buf.Uploader {
		return ErrNotUploader
	}
	if buf.Committed {
		return ErrAlreadyCommitted
	}
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(buf.Region)) {
		return ErrWriteOutOfBounds
	}

	copy(buf.Region[offset:], data)
	return st.Set(key, buf.Encode())
}

// Commit hashes the entire buffered region with keccak256, stores the
// digest, and freezes the buffer. It fails if already committed.
func Commit(st *store.Store, incomingMessageAddr address.Address, uploader address.Address) ([32]byte, error) {
	key := store.MessagePayloadKey(incomingMessageAddr[:], uploader[:])
	raw, err := st.Get(key)
	if err != nil {
		return [32]byte{}, err
	}
	buf, err := DecodeBuffer(raw)
	if err != nil {
		return [32]byte{}, err
	}
	if buf.Committed {
		return [32]byte{}, ErrAlreadyCommitted
	}

	var hash [32]byte
	copy(hash[:], cryptoutil.Keccak256(buf.Region))
	buf.PayloadHash = hash
	buf.Committed = true

	if err := st.Set(key, buf.Encode()); err != nil {
		return [32]byte{}, err
	}
	return hash, nil
}

// Close frees the buffer record, the Go analogue of returning rent to
// the uploader. It fails if caller is not the uploader, per spec.md §4.3
// ("close() returns lamports to uploader") and §9's uploader-gated
// reclaim.
func Close(st *store.Store, incomingMessageAddr address.Address, uploader address.Address, caller address.Address) error {
	key := store.MessagePayloadKey(incomingMessageAddr[:], uploader[:])
	raw, err := st.Get(key)
	if err != nil {
		return err
	}
	buf, err := DecodeBuffer(raw)
	if err != nil {
		return err
	}
	if caller != buf.Uploader {
		return ErrNotUploader
	}
	return st.Delete(key)
}

// VerifyConsumable checks the three properties a destination program
// must observe before consuming a committed payload, per spec.md §4.3's
// "Consistency with C3": the buffer is committed, and its payload hash
// matches the incoming message's own payload hash. Record ownership
// (gateway program) is implicit in this module: only the gateway
// engine's Store handle can ever produce a key under this namespace.
func VerifyConsumable(buf Buffer, incomingMessagePayloadHash [32]byte) error {
	if !buf.Committed {
		return ErrNotCommitted
	}
	if buf.PayloadHash != incomingMessagePayloadHash {
		return ErrNotCommitted
	}
	return nil
}
