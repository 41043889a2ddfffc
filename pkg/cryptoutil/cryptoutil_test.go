package cryptoutil

import (
	"bytes"
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func mustKey(t *testing.T) (*ecdsa.PrivateKey, []byte) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	compressed := crypto.CompressPubkey(&key.PublicKey)
	return key, compressed
}

func sign(t *testing.T, key *ecdsa.PrivateKey, msg [32]byte) []byte {
	t.Helper()
	sig, err := crypto.Sign(msg[:], key)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	// go-ethereum returns recovery id 0/1 in the last byte; convert to the
	// 27/28 convention this package expects on the wire.
	out := make([]byte, 65)
	copy(out, sig)
	out[64] += 27
	return out
}

func TestVerifyECDSARecoverable_Valid(t *testing.T) {
	key, pubkey := mustKey(t)
	msg := SigningMessage([32]byte{1, 2, 3})
	sig := sign(t, key, msg)

	ok, err := VerifyECDSARecoverable(pubkey, msg, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected valid signature to verify")
	}
}

func TestVerifyECDSARecoverable_WrongKey(t *testing.T) {
	_, pubkeyA := mustKey(t)
	keyB, _ := mustKey(t)
	msg := SigningMessage([32]byte{4, 5, 6})
	sig := sign(t, keyB, msg)

	ok, err := VerifyECDSARecoverable(pubkeyA, msg, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("signature from a different key should not verify")
	}
}

func TestVerifyECDSARecoverable_BadRecoveryID(t *testing.T) {
	key, pubkey := mustKey(t)
	msg := SigningMessage([32]byte{7})
	sig := sign(t, key, msg)
	sig[64] = 5 // neither 27 nor 28

	_, err := VerifyECDSARecoverable(pubkey, msg, sig)
	if err != ErrInvalidRecoveryID {
		t.Errorf("expected ErrInvalidRecoveryID, got %v", err)
	}
}

func TestVerifyECDSARecoverable_BadLength(t *testing.T) {
	_, pubkey := mustKey(t)
	_, err := VerifyECDSARecoverable(pubkey, [32]byte{}, []byte{1, 2, 3})
	if err != ErrInvalidSignatureLength {
		t.Errorf("expected ErrInvalidSignatureLength, got %v", err)
	}
}

func TestVerifyEd25519Unsupported(t *testing.T) {
	_, err := VerifyEd25519(nil, [32]byte{}, nil)
	if err != ErrEd25519Unsupported {
		t.Errorf("expected ErrEd25519Unsupported, got %v", err)
	}
}

func TestKeccak256Deterministic(t *testing.T) {
	a := Keccak256([]byte("hello"), []byte("world"))
	b := Keccak256([]byte("hello"), []byte("world"))
	if !bytes.Equal(a, b) {
		t.Error("Keccak256 is not deterministic")
	}
	if len(a) != 32 {
		t.Errorf("expected 32-byte digest, got %d", len(a))
	}
}
