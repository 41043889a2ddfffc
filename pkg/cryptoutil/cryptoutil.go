// Copyright 2025 Certen Protocol
//
// Package cryptoutil provides the hashing and signature-verification
// primitives shared by the gateway's signature-verification session and
// its message/event hashing: keccak256 domain hashing, the Solana
// offchain-message signing prefix, and secp256k1 ECDSA recovery with
// Ethereum-style recovery-id normalization.
package cryptoutil

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

// offchainPrefix is prepended to every payload-root before signing, per
// spec.md §4.1 step 4 and the gateway's SOLANA_OFFCHAIN_PREFIX constant.
var offchainPrefix = []byte("\xffsolana offchain")

var (
	// ErrInvalidSignatureLength is returned when a signature is not the
	// expected 65 bytes (64-byte ECDSA signature + 1 recovery byte).
	ErrInvalidSignatureLength = errors.New("cryptoutil: signature must be 65 bytes")
	// ErrInvalidRecoveryID is returned when the trailing signature byte is
	// not 27 or 28 (the Ethereum eth_sign convention this codebase follows).
	ErrInvalidRecoveryID = errors.New("cryptoutil: recovery id must be 27 or 28")
	// ErrInvalidPubkeyLength is returned when a secp256k1 public key is not
	// the expected 33-byte compressed form.
	ErrInvalidPubkeyLength = errors.New("cryptoutil: public key must be 33 bytes compressed")
	// ErrEd25519Unsupported is returned for any attempt to verify an
	// Ed25519 signature: the scheme is declared in the wire format but
	// intentionally inert, per spec.md §9 open questions.
	ErrEd25519Unsupported = errors.New("cryptoutil: ed25519 verification is declared but not executed")
)

// Keccak256 hashes the concatenation of data using keccak-256, the
// domain hash used throughout the gateway and ITS (command-id, message
// hash, payload hash, event hash).
func Keccak256(data ...[]byte) []byte {
	return crypto.Keccak256(data...)
}

// SigningMessage returns the actual 32-byte digest that gets signed for a
// given payload Merkle root: keccak256(offchainPrefix || payloadRoot).
func SigningMessage(payloadMerkleRoot [32]byte) [32]byte {
	var out [32]byte
	copy(out[:], Keccak256(offchainPrefix, payloadMerkleRoot[:]))
	return out
}

// VerifyECDSARecoverable checks that signature (65 bytes: R||S||V with V
// in {27,28}) was produced by the private key behind pubkey (33-byte
// compressed secp256k1) over message. It implements spec.md §4.1 step 4:
// the recovery id is normalized from the Ethereum 27/28 convention to the
// 0/1 form go-ethereum's recovery routines expect; any other trailing
// byte is rejected outright rather than silently coerced.
func VerifyECDSARecoverable(pubkey []byte, message [32]byte, signature []byte) (bool, error) {
	if len(signature) != 65 {
		return false, ErrInvalidSignatureLength
	}
	if len(pubkey) != 33 {
		return false, ErrInvalidPubkeyLength
	}

	recoveryByte := signature[64]
	if recoveryByte != 27 && recoveryByte != 28 {
		return false, ErrInvalidRecoveryID
	}

	normalized := make([]byte, 65)
	copy(normalized, signature[:64])
	normalized[64] = recoveryByte - 27

	recoveredUncompressed, err := crypto.Ecrecover(message[:], normalized)
	if err != nil {
		return false, nil
	}

	expectedUncompressed, err := decompressSecp256k1(pubkey)
	if err != nil {
		return false, err
	}

	return bytes.Equal(recoveredUncompressed, expectedUncompressed), nil
}

// decompressSecp256k1 expands a 33-byte compressed public key to the
// 65-byte uncompressed form (0x04 prefix + X + Y), matching the format
// crypto.Ecrecover returns.
func decompressSecp256k1(compressed []byte) ([]byte, error) {
	pub, err := crypto.DecompressPubkey(compressed)
	if err != nil {
		return nil, err
	}
	return crypto.FromECDSAPub(pub), nil
}

// VerifyEd25519 always fails: Ed25519 verification is declared in the
// wire format (PublicKey/Signature tagged sums) but not executed, because
// doing so on-chain would exhaust the host's compute budget. Callers
// should surface ErrEd25519Unsupported as InvalidDigitalSignature.
func VerifyEd25519(_ []byte, _ [32]byte, _ []byte) (bool, error) {
	return false, ErrEd25519Unsupported
}
