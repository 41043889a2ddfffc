// Copyright 2025 Certen Protocol
//
// Package address implements the 32-byte opaque addresses used throughout
// the gateway and ITS record stores, and the PDA-style deterministic
// derivation scheme that binds a record to its owning program.
package address

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/mr-tron/base58"
)

// Size is the fixed width of every address in this module.
const Size = 32

// ErrInvalidLength is returned when decoding bytes that are not exactly
// Size long.
var ErrInvalidLength = errors.New("address: invalid length")

// Address is a 32-byte opaque identifier: a derived record key, a
// signing-authority PDA, or a program id. It carries no structure of its
// own — everything interesting about it comes from how it was derived.
type Address [Size]byte

// Zero is the all-zero address, used as the "unset" sentinel for fields
// like SignatureVerification.signing_verifier_set_hash before first use.
var Zero Address

// FromBytes copies b into a new Address. b must be exactly Size bytes.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, ErrInvalidLength
	}
	copy(a[:], b)
	return a, nil
}

// Bytes returns a copy of the address's underlying bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, a[:])
	return out
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Zero
}

// String renders the address in base58, the conventional display form for
// Solana-style addresses.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Hex renders the address as a 0x-prefixed hex string, used in log fields
// next to keccak digests which are naturally hex.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Parse decodes a base58 string produced by String back into an Address.
func Parse(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, err
	}
	return FromBytes(b)
}

// Derive computes a deterministic program-derived address from a program
// id and an ordered list of seeds, mirroring the PDA derivation the
// original runtime performs off a bump search. Because this module has no
// on-curve constraint to avoid (that check only matters for the host
// runtime's signing invariants, not for our record-keying scheme), the
// bump byte is a fixed constant per seed set rather than the result of a
// search: it is threaded through unchanged so callers retain the
// stored-bump convention described in spec.md's signing-authority section.
func Derive(programID Address, seeds ...[]byte) (Address, byte) {
	const bump = 0xff

	h := sha256.New()
	h.Write(programID[:])
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write([]byte("ProgramDerivedAddress"))

	sum := h.Sum(nil)
	var out Address
	copy(out[:], sum)
	return out, bump
}

// DeriveWithBump re-derives an address from a previously stored bump,
// used by callers (e.g. C5 dispatch) that must recompute a PDA from a
// persisted bump rather than search for one.
func DeriveWithBump(programID Address, bump byte, seeds ...[]byte) Address {
	h := sha256.New()
	h.Write(programID[:])
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write([]byte("ProgramDerivedAddress"))

	sum := h.Sum(nil)
	var out Address
	copy(out[:], sum)
	return out
}
