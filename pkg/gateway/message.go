// Copyright 2025 Certen Protocol
//
// C3: Incoming-Message Record. A per-message state machine (Approved ->
// Executed) keyed by command-id, plus the approve and validate
// operations that drive it, per spec.md §4.2.
package gateway

import (
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/codec"
	"github.com/axelar-network/axelar-solana-core/pkg/cryptoutil"
	"github.com/axelar-network/axelar-solana-core/pkg/merkle"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
	"github.com/axelar-network/axelar-solana-core/pkg/verification"
)

// Status is the C3 lifecycle state. spec.md §8 property 4: the status
// sequence is always a prefix of (Approved, Executed).
type Status uint8

const (
	StatusApproved Status = iota
	StatusExecuted
)

// Errors returned by Approve/Validate, matching spec.md §7's lifecycle
// and cryptographic categories.
var (
	ErrInvalidDomainSeparator    = errors.New("gateway: domain separator mismatch")
	ErrSessionNotValid           = errors.New("gateway: signature-verification session has not reached quorum")
	ErrInvalidMerkleProof        = errors.New("gateway: invalid merkle proof for message leaf")
	ErrRotationRetentionExceeded = errors.New("gateway: verifier set tracker is outside the retention window")
	ErrNotApproved               = errors.New("gateway: incoming message is not in Approved state")
	ErrAlreadyExecuted           = errors.New("gateway: incoming message has already been executed")
	ErrSigningAuthorityMismatch  = errors.New("gateway: caller is not the derived signing authority for this message")
)

// signingAuthoritySeed is the first seed component of every
// signing-authority PDA, per spec.md §6.
var signingAuthoritySeed = []byte("axelar-signing-authority")

// CommandID computes the stable, chain-collision-free primary key for a
// cross-chain message: keccak256(source_chain || 0x2D || source_message_id).
func CommandID(sourceChain, sourceMessageID string) [32]byte {
	var out [32]byte
	digest := cryptoutil.Keccak256([]byte(sourceChain), []byte{0x2D}, []byte(sourceMessageID))
	copy(out[:], digest)
	return out
}

// MessageLeaf is a single message's commitment inside the batch Merkle
// tree referenced by a signature-verification session's payload root.
type MessageLeaf struct {
	SourceChain             string
	SourceMessageID         string
	SourceAddress           string
	DestinationChain        string
	DestinationAddressBytes []byte
	PayloadHash             [32]byte
	DomainSeparator         [32]byte
	Position                uint32
	SetSize                 uint32
}

// Hash computes the fixed-field-order leaf digest spec.md §6 describes:
// keccak256 over {cc_id.chain, cc_id.id, source_address,
// destination_chain, destination_address_bytes, payload_hash,
// domain_separator} in that exact order.
func (l MessageLeaf) Hash() [32]byte {
	w := codec.NewWriter()
	w.WriteString(l.SourceChain)
	w.WriteString(l.SourceMessageID)
	w.WriteString(l.SourceAddress)
	w.WriteString(l.DestinationChain)
	w.WriteBytes(l.DestinationAddressBytes)
	w.WriteFixed(l.PayloadHash[:])
	w.WriteFixed(l.DomainSeparator[:])

	var out [32]byte
	copy(out[:], cryptoutil.Keccak256(w.Bytes()))
	return out
}

// CommandID derives this leaf's command-id from its own chain/id fields.
func (l MessageLeaf) CommandID() [32]byte {
	return CommandID(l.SourceChain, l.SourceMessageID)
}

// IncomingMessage is the C3 persistent record.
type IncomingMessage struct {
	Status               Status
	MessageHash          [32]byte
	PayloadHash          [32]byte
	SelfBump             byte
	SigningAuthorityBump byte
}

// Encode serializes the record in fixed field order.
func (m IncomingMessage) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint8(uint8(m.Status))
	w.WriteFixed(m.MessageHash[:])
	w.WriteFixed(m.PayloadHash[:])
	w.WriteUint8(m.SelfBump)
	w.WriteUint8(m.SigningAuthorityBump)
	return w.Bytes()
}

// DecodeIncomingMessage parses bytes produced by Encode.
func DecodeIncomingMessage(b []byte) (IncomingMessage, error) {
	r := codec.NewReader(b)
	var m IncomingMessage

	status, err := r.ReadUint8()
	if err != nil {
		return m, err
	}
	m.Status = Status(status)

	msgHash, err := r.ReadFixed(32)
	if err != nil {
		return m, err
	}
	copy(m.MessageHash[:], msgHash)

	payloadHash, err := r.ReadFixed(32)
	if err != nil {
		return m, err
	}
	copy(m.PayloadHash[:], payloadHash)

	if m.SelfBump, err = r.ReadUint8(); err != nil {
		return m, err
	}
	if m.SigningAuthorityBump, err = r.ReadUint8(); err != nil {
		return m, err
	}
	if !r.Done() {
		return m, codec.ErrTrailingData
	}
	return m, nil
}

// ApprovalEvent is emitted on a successful Approve, carrying the fields
// a relayer or indexer needs to track message lifecycle off-chain.
type ApprovalEvent struct {
	CommandID   [32]byte
	MessageHash [32]byte
	PayloadHash [32]byte
}

// Approve is the C3 approval operation of spec.md §4.2. It requires the
// session keyed by the message leaf's payload root to be valid, the
// message leaf's own Merkle proof to place it under that same root, the
// verifier set tracker to still be within the retention window, the
// leaf's domain separator to match the root configuration, and the
// command-id record to be uninitialized.
func Approve(
	st *store.Store,
	sess *verification.Session,
	leaf MessageLeaf,
	proof *merkle.InclusionProof,
	tracker VerifierSetTracker,
	cfg *RootConfig,
	gatewayProgramID address.Address,
) (*IncomingMessage, ApprovalEvent, error) {
	var zero ApprovalEvent

	if !sess.IsValid() {
		return nil, zero, ErrSessionNotValid
	}

	if leaf.DomainSeparator != cfg.DomainSeparator {
		return nil, zero, ErrInvalidDomainSeparator
	}

	if !cfg.EpochValid(tracker.Epoch) {
		return nil, zero, ErrRotationRetentionExceeded
	}

	leafHash := leaf.Hash()
	ok, err := merkle.VerifyBoundProof(leafHash[:], proof, sess.PayloadMerkleRoot[:], int(leaf.Position), int(leaf.SetSize))
	if err != nil || !ok {
		return nil, zero, ErrInvalidMerkleProof
	}

	commandID := leaf.CommandID()
	_, signingAuthorityBump := address.Derive(gatewayProgramID, signingAuthoritySeed, commandID[:])
	_, selfBump := address.Derive(gatewayProgramID, []byte("incoming-message"), commandID[:])

	msg := IncomingMessage{
		Status:               StatusApproved,
		MessageHash:          leafHash,
		PayloadHash:          leaf.PayloadHash,
		SelfBump:             selfBump,
		SigningAuthorityBump: signingAuthorityBump,
	}

	key := store.IncomingMessageKey(commandID[:])
	if err := st.Create(key, msg.Encode()); err != nil {
		return nil, zero, err
	}

	event := ApprovalEvent{
		CommandID:   commandID,
		MessageHash: msg.MessageHash,
		PayloadHash: msg.PayloadHash,
	}
	return &msg, event, nil
}

// Validate authenticates a destination program's claim that it is
// processing an approved message, per spec.md §4.2. callerIsSigner must
// be true only when the transaction's signing-authority account,
// derived from (command-id, destination-program-id) using the record's
// stored bump, actually signed — spec.md §8 property 10.
func Validate(st *store.Store, commandID [32]byte, destinationProgramID, signingAuthorityAddr address.Address, gatewayProgramID address.Address, callerIsSigner bool) error {
	key := store.IncomingMessageKey(commandID[:])
	raw, err := st.Get(key)
	if err != nil {
		return err
	}
	msg, err := DecodeIncomingMessage(raw)
	if err != nil {
		return err
	}

	if msg.Status == StatusExecuted {
		return ErrAlreadyExecuted
	}
	if msg.Status != StatusApproved {
		return ErrNotApproved
	}

	expected := address.DeriveWithBump(destinationProgramID, msg.SigningAuthorityBump, signingAuthoritySeed, commandID[:])
	if expected != signingAuthorityAddr || !callerIsSigner {
		return ErrSigningAuthorityMismatch
	}

	msg.Status = StatusExecuted
	return st.Set(key, msg.Encode())
}
