// Copyright 2025 Certen Protocol
//
// Package its implements the Interchain Token Service programs: C6
// Token-Manager & Flow Accounting and C7 Interchain-Transfer Processor.
package its

import (
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/codec"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
)

// EpochSeconds is the flow-slot epoch bucket width, per spec.md §6.
const EpochSeconds = 21600

// ManagerType is the tagged sum selecting a token manager's custodial
// behavior. Replaces the source's runtime trait-object dispatch with a
// small closed set.
type ManagerType uint8

const (
	NativeInterchainToken ManagerType = iota
	MintBurn
	MintBurnFrom
	LockUnlock
	LockUnlockFee
)

// Errors returned by token-manager operations.
var (
	ErrUnknownManagerType  = errors.New("its: unknown manager type")
	ErrFlowLimitExceeded   = errors.New("its: flow limit exceeded")
	ErrArithmeticOverflow  = errors.New("its: arithmetic overflow")
	ErrMissingFeeExtension = errors.New("its: LockUnlockFee requires transfer-fee extension")
)

// IsMintAuthority reports whether a manager type requires the token
// manager itself to be the canonical mint authority.
func (m ManagerType) IsMintAuthority() bool {
	switch m {
	case NativeInterchainToken, MintBurn, MintBurnFrom:
		return true
	default:
		return false
	}
}

// RequiresCustodialAccount reports whether a manager type routes
// transfers through an associated custodial account rather than
// minting/burning directly.
func (m ManagerType) RequiresCustodialAccount() bool {
	switch m {
	case LockUnlock, LockUnlockFee:
		return true
	default:
		return false
	}
}

func (m ManagerType) valid() bool {
	return m <= LockUnlockFee
}

// FlowSlot is the epoch-bucketed bidirectional flow counter described in
// spec.md §4.5.
type FlowSlot struct {
	Epoch     uint64
	FlowIn    uint64
	FlowOut   uint64
	FlowLimit uint64
}

// Apply resets the slot if now falls in a new epoch, then checks and
// commits a transfer of amount a in the given direction. A FlowLimit of
// zero disables the net-bound check in both directions; the epoch reset
// and the overflow check still apply.
func (s *FlowSlot) Apply(now uint64, incoming bool, amount uint64) error {
	currentEpoch := now / EpochSeconds
	if currentEpoch != s.Epoch {
		s.Epoch = currentEpoch
		s.FlowIn = 0
		s.FlowOut = 0
	}

	if incoming {
		sum, ok := addChecked(s.FlowIn, amount)
		if !ok {
			return ErrArithmeticOverflow
		}
		if s.FlowLimit != 0 {
			bound, ok := addChecked(s.FlowLimit, s.FlowOut)
			if !ok {
				return ErrArithmeticOverflow
			}
			if sum > bound {
				return ErrFlowLimitExceeded
			}
		}
		s.FlowIn = sum
		return nil
	}

	sum, ok := addChecked(s.FlowOut, amount)
	if !ok {
		return ErrArithmeticOverflow
	}
	if s.FlowLimit != 0 {
		bound, ok := addChecked(s.FlowLimit, s.FlowIn)
		if !ok {
			return ErrArithmeticOverflow
		}
		if sum > bound {
			return ErrFlowLimitExceeded
		}
	}
	s.FlowOut = sum
	return nil
}

func addChecked(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// TokenManager is the C6 persistent record, keyed by (ITS-root-address,
// token-id).
type TokenManager struct {
	ManagerType      ManagerType
	TokenAddress     address.Address
	CustodialAccount address.Address
	FlowSlot         FlowSlot
}

// Encode serializes a token manager in fixed field order.
func (tm TokenManager) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint8(uint8(tm.ManagerType))
	w.WriteFixed(tm.TokenAddress[:])
	w.WriteFixed(tm.CustodialAccount[:])
	w.WriteUint64(tm.FlowSlot.Epoch)
	w.WriteUint64(tm.FlowSlot.FlowIn)
	w.WriteUint64(tm.FlowSlot.FlowOut)
	w.WriteUint64(tm.FlowSlot.FlowLimit)
	return w.Bytes()
}

// DecodeTokenManager parses bytes produced by Encode.
func DecodeTokenManager(raw []byte) (TokenManager, error) {
	r := codec.NewReader(raw)
	var tm TokenManager

	mt, err := r.ReadUint8()
	if err != nil {
		return tm, err
	}
	tm.ManagerType = ManagerType(mt)
	if !tm.ManagerType.valid() {
		return tm, ErrUnknownManagerType
	}

	tokenAddr, err := r.ReadFixed(address.Size)
	if err != nil {
		return tm, err
	}
	copy(tm.TokenAddress[:], tokenAddr)

	custodyAddr, err := r.ReadFixed(address.Size)
	if err != nil {
		return tm, err
	}
	copy(tm.CustodialAccount[:], custodyAddr)

	if tm.FlowSlot.Epoch, err = r.ReadUint64(); err != nil {
		return tm, err
	}
	if tm.FlowSlot.FlowIn, err = r.ReadUint64(); err != nil {
		return tm, err
	}
	if tm.FlowSlot.FlowOut, err = r.ReadUint64(); err != nil {
		return tm, err
	}
	if tm.FlowSlot.FlowLimit, err = r.ReadUint64(); err != nil {
		return tm, err
	}
	if !r.Done() {
		return tm, codec.ErrTrailingData
	}
	return tm, nil
}

// DeployTokenManager creates a new C6 record. It fails if a manager
// already exists for this (itsRootAddr, tokenID), and if the manager
// type is LockUnlockFee without hasFeeExtension asserted by the caller
// (the token-metadata check itself happens outside this package, at the
// account-loading boundary).
func DeployTokenManager(st *store.Store, itsRootAddr address.Address, tokenID [32]byte, managerType ManagerType, tokenAddr, custodialAccount address.Address, flowLimit uint64, hasFeeExtension bool) error {
	if !managerType.valid() {
		return ErrUnknownManagerType
	}
	if managerType == LockUnlockFee && !hasFeeExtension {
		return ErrMissingFeeExtension
	}
	tm := TokenManager{
		ManagerType:      managerType,
		TokenAddress:     tokenAddr,
		CustodialAccount: custodialAccount,
		FlowSlot:         FlowSlot{FlowLimit: flowLimit},
	}
	key := store.TokenManagerKey(itsRootAddr[:], tokenID[:])
	return st.Create(key, tm.Encode())
}

// LoadTokenManager reads the C6 record for (itsRootAddr, tokenID).
func LoadTokenManager(st *store.Store, itsRootAddr address.Address, tokenID [32]byte) (TokenManager, error) {
	key := store.TokenManagerKey(itsRootAddr[:], tokenID[:])
	raw, err := st.Get(key)
	if err != nil {
		return TokenManager{}, err
	}
	return DecodeTokenManager(raw)
}

// ApplyFlow loads the token manager, applies a flow-slot mutation for a
// transfer of amount at time now, and persists the result. It is the
// single mutation entry point C7 uses for both outbound (incoming=false)
// and inbound (incoming=true) transfers.
func ApplyFlow(st *store.Store, itsRootAddr address.Address, tokenID [32]byte, now uint64, incoming bool, amount uint64) (TokenManager, error) {
	tm, err := LoadTokenManager(st, itsRootAddr, tokenID)
	if err != nil {
		return TokenManager{}, err
	}
	if err := tm.FlowSlot.Apply(now, incoming, amount); err != nil {
		return TokenManager{}, err
	}
	key := store.TokenManagerKey(itsRootAddr[:], tokenID[:])
	if err := st.Set(key, tm.Encode()); err != nil {
		return TokenManager{}, err
	}
	return tm, nil
}
