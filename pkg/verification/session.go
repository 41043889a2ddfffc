// Copyright 2025 Certen Protocol
//
// Package verification implements C2, the Signature-Verification Session:
// a persistent record that accumulates per-signer proofs against a
// payload Merkle root across as many transactions as a large verifier set
// requires, and enforces quorum once enough weight has accumulated.
package verification

import (
	"errors"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/codec"
	"github.com/axelar-network/axelar-solana-core/pkg/cryptoutil"
	"github.com/axelar-network/axelar-solana-core/pkg/merkle"
)

// SlotWidth is the fixed number of signer slots a session can track,
// matching the gateway's 256-bit signature_slots bitmap.
const SlotWidth = 256

// sufficientThreshold is the sentinel accumulator value meaning "quorum
// has been met"; spec.md §4.1 step 5 pins the accumulator here once the
// quorum is reached, after which further signatures are still accepted
// but never change validity (§8 property 3).
const sufficientThreshold = math.MaxUint64

// Errors returned by Session.Submit, matching the closed failure
// taxonomy in spec.md §4.1 and §7.
var (
	ErrSlotOutOfBounds       = errors.New("verification: signer slot out of bounds")
	ErrSlotAlreadyVerified   = errors.New("verification: signer slot already verified")
	ErrInvalidMerkleProof    = errors.New("verification: invalid merkle proof")
	ErrInvalidDigitalSignature = errors.New("verification: invalid digital signature")
	ErrVerifierSetHashMismatch = errors.New("verification: session is bound to a different verifier set")
)

// SignatureScheme tags which signature variant a submission carries.
// Ed25519 is declared in the wire format but never executed, per
// spec.md §9.
type SignatureScheme uint8

const (
	SchemeECDSASecp256k1 SignatureScheme = iota
	SchemeEd25519
)

// VerifierSetLeaf is a single signer's commitment inside a verifier-set
// Merkle tree. It commits its own position and the total set size so a
// leaf from one verifier set can never be grafted into the proof of a
// different one (spec.md §3, §8 property 9).
type VerifierSetLeaf struct {
	SignerPubkey    [33]byte // compressed secp256k1 public key
	SignerWeight    uint64
	Position        uint8
	Quorum          uint64
	SetSize         uint8
	DomainSeparator [32]byte
	Nonce           uint64
}

// Hash computes the fixed-field-order leaf digest spec.md §3 describes:
// keccak256 over {signer-pubkey, weight, position, quorum, set-size,
// domain-separator, nonce} in that exact order.
func (l VerifierSetLeaf) Hash() [32]byte {
	w := codec.NewWriter()
	w.WriteFixed(l.SignerPubkey[:])
	w.WriteUint64(l.SignerWeight)
	w.WriteUint8(l.Position)
	w.WriteUint64(l.Quorum)
	w.WriteUint8(l.SetSize)
	w.WriteFixed(l.DomainSeparator[:])
	w.WriteUint64(l.Nonce)

	var out [32]byte
	copy(out[:], cryptoutil.Keccak256(w.Bytes()))
	return out
}

// SignatureSubmission is the tuple a relayer supplies to Submit: a leaf
// claiming membership in a verifier set, the Merkle proof backing that
// claim, and the signature over the session's payload root.
type SignatureSubmission struct {
	Leaf      VerifierSetLeaf
	Proof     *merkle.InclusionProof
	Scheme    SignatureScheme
	Signature []byte // 65 bytes for SchemeECDSASecp256k1
}

// Session is the C2 persistent record, keyed by payload Merkle root.
type Session struct {
	PayloadMerkleRoot    [32]byte
	AccumulatedThreshold uint64
	SignatureSlots       *bitset.BitSet
	SigningVerifierSetHash address.Address
}

// NewSession initializes a session record with a zeroed bitmap and zero
// accumulator, per spec.md §4.1 "initialize".
func NewSession(payloadMerkleRoot [32]byte) *Session {
	return &Session{
		PayloadMerkleRoot:    payloadMerkleRoot,
		AccumulatedThreshold: 0,
		SignatureSlots:       bitset.New(SlotWidth),
	}
}

// IsValid reports whether the session has reached quorum, per §8
// property 3: is_valid iff accumulated_weight == SUFFICIENT.
func (s *Session) IsValid() bool {
	return s.AccumulatedThreshold == sufficientThreshold
}

// Submit processes one signature submission against verifierSetRoot, the
// Merkle root of the verifier set the leaf claims to belong to. It
// performs the six checks of spec.md §4.1 in order and mutates no state
// if any check fails.
func (s *Session) Submit(sub SignatureSubmission, verifierSetRoot [32]byte) error {
	position := uint(sub.Leaf.Position)

	// 1. Reject if leaf.position >= bitmap width.
	if position >= SlotWidth {
		return ErrSlotOutOfBounds
	}

	// 2. Reject if the bit at leaf.position is already set.
	if s.SignatureSlots.Test(position) {
		return ErrSlotAlreadyVerified
	}

	// 3. Reject if the Merkle proof does not reconstruct tracker.root
	//    from leaf hashed in fixed field order, bound to the leaf's own
	//    claimed position and set size.
	leafHash := sub.Leaf.Hash()
	ok, err := merkle.VerifyBoundProof(leafHash[:], sub.Proof, verifierSetRoot[:], int(sub.Leaf.Position), int(sub.Leaf.SetSize))
	if err != nil || !ok {
		return ErrInvalidMerkleProof
	}

	// 4. Reject if the signature does not verify for the session's
	//    payload root under the offchain-message prefix.
	signingMessage := cryptoutil.SigningMessage(s.PayloadMerkleRoot)
	switch sub.Scheme {
	case SchemeECDSASecp256k1:
		valid, sigErr := cryptoutil.VerifyECDSARecoverable(sub.Leaf.SignerPubkey[:], signingMessage, sub.Signature)
		if sigErr != nil || !valid {
			return ErrInvalidDigitalSignature
		}
	case SchemeEd25519:
		// Declared but inert: spec.md §9 treats this as unsupported
		// rather than a distinct error path.
		return ErrInvalidDigitalSignature
	default:
		return ErrInvalidDigitalSignature
	}

	// 5. Saturate-add leaf.signer_weight into the accumulator; pin to
	//    the sufficient sentinel once quorum is met.
	newThreshold := saturatingAdd(s.AccumulatedThreshold, sub.Leaf.SignerWeight)
	if newThreshold >= sub.Leaf.Quorum {
		newThreshold = sufficientThreshold
	}

	// 6. Record tracker.root on first success; require equality on
	//    subsequent successes (§8 property 2).
	verifierSetAddr, err := address.FromBytes(verifierSetRoot[:])
	if err != nil {
		return err
	}
	if !s.SigningVerifierSetHash.IsZero() && s.SigningVerifierSetHash != verifierSetAddr {
		return ErrVerifierSetHashMismatch
	}

	// All checks passed: commit state.
	s.AccumulatedThreshold = newThreshold
	s.SignatureSlots.Set(position)
	if s.SigningVerifierSetHash.IsZero() {
		s.SigningVerifierSetHash = verifierSetAddr
	}

	return nil
}

// saturatingAdd adds b to a, clamping at the sentinel value instead of
// wrapping, matching the Rust implementation's saturating_add semantics.
func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a || sum >= sufficientThreshold {
		return sufficientThreshold
	}
	return sum
}
