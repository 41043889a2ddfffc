// Copyright 2025 Certen Protocol
//
// Package roles implements C9, Role Management: generic capability
// flags held in content-addressed role records, with a propose/accept
// protocol for transferring them between users.
package roles

import (
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/codec"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
)

// Flags is a bitset of capability flags held over a resource.
type Flags uint8

const (
	FlagMinter      Flags = 1 << 0
	FlagOperator    Flags = 1 << 1
	FlagFlowLimiter Flags = 1 << 2
)

// Has reports whether f contains every flag in want.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// Errors returned by role operations.
var (
	ErrProposalNotFound = errors.New("roles: proposal not found")
)

// UserRoleRecord is the C9 persistent record keyed by (resource, user).
type UserRoleRecord struct {
	Flags Flags
}

// Encode serializes a role record.
func (r UserRoleRecord) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint8(uint8(r.Flags))
	return w.Bytes()
}

// DecodeUserRoleRecord parses bytes produced by Encode.
func DecodeUserRoleRecord(raw []byte) (UserRoleRecord, error) {
	r := codec.NewReader(raw)
	var rec UserRoleRecord
	flags, err := r.ReadUint8()
	if err != nil {
		return rec, err
	}
	rec.Flags = Flags(flags)
	if !r.Done() {
		return rec, codec.ErrTrailingData
	}
	return rec, nil
}

// RoleProposal is the C9 persistent record keyed by (resource, from,
// to), holding the flags to be conveyed on accept.
type RoleProposal struct {
	Flags Flags
}

// Encode serializes a role proposal.
func (p RoleProposal) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint8(uint8(p.Flags))
	return w.Bytes()
}

// DecodeRoleProposal parses bytes produced by Encode.
func DecodeRoleProposal(raw []byte) (RoleProposal, error) {
	r := codec.NewReader(raw)
	var p RoleProposal
	flags, err := r.ReadUint8()
	if err != nil {
		return p, err
	}
	p.Flags = Flags(flags)
	if !r.Done() {
		return p, codec.ErrTrailingData
	}
	return p, nil
}

// GetRoles returns the flags a user holds over a resource, or zero
// flags if no record exists.
func GetRoles(st *store.Store, resource, user address.Address) (Flags, error) {
	key := store.UserRolesKey(resource[:], user[:])
	raw, err := st.Get(key)
	if err == store.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	rec, err := DecodeUserRoleRecord(raw)
	if err != nil {
		return 0, err
	}
	return rec.Flags, nil
}

// GrantDirect writes flags directly onto a user's role record, for use
// by whatever governs initial role assignment at resource creation
// time (outside the propose/accept protocol).
func GrantDirect(st *store.Store, resource, user address.Address, flags Flags) error {
	existing, err := GetRoles(st, resource, user)
	if err != nil {
		return err
	}
	rec := UserRoleRecord{Flags: existing | flags}
	key := store.UserRolesKey(resource[:], user[:])
	return st.Set(key, rec.Encode())
}

// Propose creates a proposal to convey flags from "from" to "to" over a
// resource.
func Propose(st *store.Store, resource, from, to address.Address, flags Flags) error {
	key := store.RoleProposalKey(resource[:], from[:], to[:])
	proposal := RoleProposal{Flags: flags}
	return st.Create(key, proposal.Encode())
}

// Accept closes a proposal and mutates the two role records: "to" gains
// the proposed flags, "from" loses them. The three writes are separate
// store calls, not one atomic batch: if a later write fails, the earlier
// ones stay in place.
func Accept(st *store.Store, resource, from, to address.Address) error {
	key := store.RoleProposalKey(resource[:], from[:], to[:])
	raw, err := st.Get(key)
	if err == store.ErrNotFound {
		return ErrProposalNotFound
	}
	if err != nil {
		return err
	}
	proposal, err := DecodeRoleProposal(raw)
	if err != nil {
		return err
	}

	fromFlags, err := GetRoles(st, resource, from)
	if err != nil {
		return err
	}
	toFlags, err := GetRoles(st, resource, to)
	if err != nil {
		return err
	}

	fromRec := UserRoleRecord{Flags: fromFlags &^ proposal.Flags}
	toRec := UserRoleRecord{Flags: toFlags | proposal.Flags}

	if err := st.Set(store.UserRolesKey(resource[:], from[:]), fromRec.Encode()); err != nil {
		return err
	}
	if err := st.Set(store.UserRolesKey(resource[:], to[:]), toRec.Encode()); err != nil {
		return err
	}
	return st.Delete(key)
}
