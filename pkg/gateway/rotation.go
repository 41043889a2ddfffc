// Copyright 2025 Certen Protocol
//
// C1+C8 verifier-set rotation: the operation that creates a new tracker
// and advances the root configuration's epoch, per spec.md §4.7.
package gateway

import (
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/store"
)

// Errors returned by Rotate.
var (
	ErrDuplicateVerifierSetRoot    = errors.New("gateway: verifier set root already tracked")
	ErrSourceTrackerNotInRetention = errors.New("gateway: source verifier set is outside the retention window")
	ErrRotationDelayNotElapsed     = errors.New("gateway: minimum rotation delay has not elapsed")
)

// RotationEvent is emitted on a successful Rotate, recording whether the
// operator waived the minimum delay.
type RotationEvent struct {
	NewRoot     [32]byte
	NewEpoch    uint64
	WaivedDelay bool
}

// Rotate creates the next verifier-set tracker from a newly signed
// verifier set root, per spec.md §4.7. The session that signed newRoot
// must itself have been verified against a tracker still inside the
// retention window (sourceEpoch), newRoot must not already be tracked,
// and the minimum rotation delay must have elapsed since the last
// rotation unless operatorSigned waives it — waiving the delay never
// waives the retention check itself, which is a fixed invariant of the
// rotation operation rather than an operator-overridable policy.
func Rotate(
	st *store.Store,
	cfg *RootConfig,
	newRoot [32]byte,
	sourceEpoch uint64,
	now uint64,
	operatorSigned bool,
) (*VerifierSetTracker, RotationEvent, error) {
	var zero RotationEvent

	if !cfg.EpochValid(sourceEpoch) {
		return nil, zero, ErrSourceTrackerNotInRetention
	}

	key := store.VerifierSetTrackerKey(newRoot[:])
	if ok, err := st.Has(key); err != nil {
		return nil, zero, err
	} else if ok {
		return nil, zero, ErrDuplicateVerifierSetRoot
	}

	waived := false
	if cfg.LastRotationTimestamp != 0 && now < cfg.LastRotationTimestamp+cfg.MinimumRotationDelay {
		if !operatorSigned {
			return nil, zero, ErrRotationDelayNotElapsed
		}
		waived = true
	}

	newEpoch := cfg.CurrentEpoch + 1
	tracker := VerifierSetTracker{
		Root:      newRoot,
		Epoch:     newEpoch,
		CreatedAt: now,
	}

	if err := st.Create(key, tracker.Encode()); err != nil {
		return nil, zero, err
	}

	cfg.CurrentEpoch = newEpoch
	cfg.LastRotationTimestamp = now

	event := RotationEvent{
		NewRoot:     newRoot,
		NewEpoch:    newEpoch,
		WaivedDelay: waived,
	}
	return &tracker, event, nil
}
