package verification

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/axelar-network/axelar-solana-core/pkg/cryptoutil"
	"github.com/axelar-network/axelar-solana-core/pkg/merkle"
)

type testSigner struct {
	key     *ecdsa.PrivateKey
	pubkey  [33]byte
	weight  uint64
	leaf    VerifierSetLeaf
}

func buildSigners(t *testing.T, weights []uint64, quorum uint64, domainSeparator [32]byte) ([]testSigner, [][]byte) {
	t.Helper()
	signers := make([]testSigner, len(weights))
	leafHashes := make([][]byte, len(weights))

	for i, w := range weights {
		key, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey: %v", err)
		}
		var pub [33]byte
		copy(pub[:], crypto.CompressPubkey(&key.PublicKey))

		leaf := VerifierSetLeaf{
			SignerPubkey:    pub,
			SignerWeight:    w,
			Position:        uint8(i),
			Quorum:          quorum,
			SetSize:         uint8(len(weights)),
			DomainSeparator: domainSeparator,
			Nonce:           uint64(i),
		}
		h := leaf.Hash()

		signers[i] = testSigner{key: key, pubkey: pub, weight: w, leaf: leaf}
		leafHashes[i] = h[:]
	}

	return signers, leafHashes
}

func signPayloadRoot(t *testing.T, key *ecdsa.PrivateKey, payloadRoot [32]byte) []byte {
	t.Helper()
	msg := cryptoutil.SigningMessage(payloadRoot)
	sig, err := crypto.Sign(msg[:], key)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	out := make([]byte, 65)
	copy(out, sig)
	out[64] += 27
	return out
}

func TestSession_HappyPathQuorum(t *testing.T) {
	var domainSeparator [32]byte
	domainSeparator[0] = 0xAB

	signers, leafHashes := buildSigners(t, []uint64{42, 42}, 42, domainSeparator)

	tree, err := merkle.BuildTree(leafHashes)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	var verifierSetRoot [32]byte
	copy(verifierSetRoot[:], tree.Root())

	var payloadRoot [32]byte
	payloadRoot[0] = 0x01

	session := NewSession(payloadRoot)
	if session.IsValid() {
		t.Fatal("freshly initialized session should not be valid")
	}

	proof0, err := tree.GenerateProof(0)
	if err != nil {
		t.Fatalf("GenerateProof(0): %v", err)
	}
	sig0 := signPayloadRoot(t, signers[0].key, payloadRoot)

	if err := session.Submit(SignatureSubmission{
		Leaf:      signers[0].leaf,
		Proof:     proof0,
		Scheme:    SchemeECDSASecp256k1,
		Signature: sig0,
	}, verifierSetRoot); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	// A single signer of weight 42 already meets quorum 42.
	if !session.IsValid() {
		t.Error("session should be valid after quorum-meeting submission")
	}

	// Submitting a second, distinct signer should still be accepted (not
	// change validity, but not be rejected either).
	proof1, err := tree.GenerateProof(1)
	if err != nil {
		t.Fatalf("GenerateProof(1): %v", err)
	}
	sig1 := signPayloadRoot(t, signers[1].key, payloadRoot)
	if err := session.Submit(SignatureSubmission{
		Leaf:      signers[1].leaf,
		Proof:     proof1,
		Scheme:    SchemeECDSASecp256k1,
		Signature: sig1,
	}, verifierSetRoot); err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if !session.IsValid() {
		t.Error("session should remain valid after a second submission")
	}
}

func TestSession_SlotAlreadyVerified(t *testing.T) {
	var domainSeparator [32]byte
	signers, leafHashes := buildSigners(t, []uint64{10, 10}, 20, domainSeparator)
	tree, _ := merkle.BuildTree(leafHashes)
	var verifierSetRoot [32]byte
	copy(verifierSetRoot[:], tree.Root())

	var payloadRoot [32]byte
	session := NewSession(payloadRoot)

	proof0, _ := tree.GenerateProof(0)
	sig0 := signPayloadRoot(t, signers[0].key, payloadRoot)
	sub := SignatureSubmission{Leaf: signers[0].leaf, Proof: proof0, Scheme: SchemeECDSASecp256k1, Signature: sig0}

	if err := session.Submit(sub, verifierSetRoot); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if err := session.Submit(sub, verifierSetRoot); err != ErrSlotAlreadyVerified {
		t.Errorf("expected ErrSlotAlreadyVerified, got %v", err)
	}
}

func TestSession_InvalidMerkleProof(t *testing.T) {
	var domainSeparator [32]byte
	// Two-leaf trees so the proof's sibling hash is actually load-bearing
	// (a single-leaf tree's "proof" is just the leaf itself, which would
	// not exercise the hash walk at all).
	signersA, leafHashesA := buildSigners(t, []uint64{10, 10}, 10, domainSeparator)
	_, leafHashesB := buildSigners(t, []uint64{10, 10}, 10, domainSeparator)

	treeA, _ := merkle.BuildTree(leafHashesA)
	treeB, _ := merkle.BuildTree(leafHashesB)
	var rootA [32]byte
	copy(rootA[:], treeA.Root())

	var payloadRoot [32]byte
	session := NewSession(payloadRoot)

	// Use a proof generated from tree B against root A: must fail.
	proofB, _ := treeB.GenerateProof(0)
	sig := signPayloadRoot(t, signersA[0].key, payloadRoot)

	err := session.Submit(SignatureSubmission{
		Leaf:      signersA[0].leaf,
		Proof:     proofB,
		Scheme:    SchemeECDSASecp256k1,
		Signature: sig,
	}, rootA)
	if err != ErrInvalidMerkleProof {
		t.Errorf("expected ErrInvalidMerkleProof, got %v", err)
	}
}

func TestSession_InvalidSignature(t *testing.T) {
	var domainSeparator [32]byte
	signers, leafHashes := buildSigners(t, []uint64{10}, 10, domainSeparator)
	tree, _ := merkle.BuildTree(leafHashes)
	var verifierSetRoot [32]byte
	copy(verifierSetRoot[:], tree.Root())

	var payloadRoot [32]byte
	session := NewSession(payloadRoot)

	proof0, _ := tree.GenerateProof(0)
	// Sign a different payload root than the session's own.
	var wrongRoot [32]byte
	wrongRoot[0] = 0x99
	badSig := signPayloadRoot(t, signers[0].key, wrongRoot)

	err := session.Submit(SignatureSubmission{
		Leaf:      signers[0].leaf,
		Proof:     proof0,
		Scheme:    SchemeECDSASecp256k1,
		Signature: badSig,
	}, verifierSetRoot)
	if err != ErrInvalidDigitalSignature {
		t.Errorf("expected ErrInvalidDigitalSignature, got %v", err)
	}
}

func TestSession_BitmapWidthMatchesSlotWidth(t *testing.T) {
	var payloadRoot [32]byte
	session := NewSession(payloadRoot)
	// Position is a uint8 (max 255), always within a 256-slot bitmap;
	// the explicit bounds check in Submit still guards a future widening
	// of the position type.
	if session.SignatureSlots.Len() != SlotWidth {
		t.Errorf("expected bitmap width %d, got %d", SlotWidth, session.SignatureSlots.Len())
	}
}

func TestSession_EventuallyExceedsSufficientSentinel(t *testing.T) {
	var domainSeparator [32]byte
	signers, leafHashes := buildSigners(t, []uint64{1, 1, 1}, 2, domainSeparator)
	tree, _ := merkle.BuildTree(leafHashes)
	var verifierSetRoot [32]byte
	copy(verifierSetRoot[:], tree.Root())

	var payloadRoot [32]byte
	session := NewSession(payloadRoot)

	for i := 0; i < 2; i++ {
		proof, _ := tree.GenerateProof(i)
		sig := signPayloadRoot(t, signers[i].key, payloadRoot)
		if err := session.Submit(SignatureSubmission{
			Leaf:      signers[i].leaf,
			Proof:     proof,
			Scheme:    SchemeECDSASecp256k1,
			Signature: sig,
		}, verifierSetRoot); err != nil {
			t.Fatalf("submission %d failed: %v", i, err)
		}
	}

	if !session.IsValid() {
		t.Fatal("expected session to be valid after quorum met")
	}

	// A third, still-distinct signer submits after quorum; must be
	// accepted but validity must remain pinned.
	proof2, _ := tree.GenerateProof(2)
	sig2 := signPayloadRoot(t, signers[2].key, payloadRoot)
	if err := session.Submit(SignatureSubmission{
		Leaf:      signers[2].leaf,
		Proof:     proof2,
		Scheme:    SchemeECDSASecp256k1,
		Signature: sig2,
	}, verifierSetRoot); err != nil {
		t.Fatalf("post-quorum submission failed: %v", err)
	}
	if !session.IsValid() {
		t.Error("session should remain valid after post-quorum submission")
	}
}
