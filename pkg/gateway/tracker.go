// Copyright 2025 Certen Protocol
//
// C1: Verifier-Set Tracker. A content-addressed record of one historical
// verifier set, created once at rotation time and never mutated
// afterward — retirement happens through epoch windowing (RootConfig
// retention), not deletion.
package gateway

import (
	"github.com/axelar-network/axelar-solana-core/pkg/codec"
)

// VerifierSetTracker is the C1 persistent record, keyed by its own
// Merkle root (see pkg/store.VerifierSetTrackerKey).
type VerifierSetTracker struct {
	Root      [32]byte
	Epoch     uint64
	CreatedAt uint64 // unix seconds
}

// Encode serializes the tracker in fixed field order for storage.
func (t VerifierSetTracker) Encode() []byte {
	w := codec.NewWriter()
	w.WriteFixed(t.Root[:])
	w.WriteUint64(t.Epoch)
	w.WriteUint64(t.CreatedAt)
	return w.Bytes()
}

// DecodeVerifierSetTracker parses bytes produced by Encode.
func DecodeVerifierSetTracker(b []byte) (VerifierSetTracker, error) {
	r := codec.NewReader(b)
	var t VerifierSetTracker

	root, err := r.ReadFixed(32)
	if err != nil {
		return t, err
	}
	copy(t.Root[:], root)

	if t.Epoch, err = r.ReadUint64(); err != nil {
		return t, err
	}
	if t.CreatedAt, err = r.ReadUint64(); err != nil {
		return t, err
	}
	if !r.Done() {
		return t, codec.ErrTrailingData
	}
	return t, nil
}
