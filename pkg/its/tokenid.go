// Copyright 2025 Certen Protocol
//
// Interchain-token-id derivation and the deploy-approval record gating
// remote deploys that carry a minter, per spec.md §4.6.
package its

import (
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/cryptoutil"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
)

// ErrDeployApprovalHashMismatch is returned when a remote deploy's
// destination-minter hash does not match the stored deploy-approval.
var ErrDeployApprovalHashMismatch = errors.New("its: destination-minter hash does not match deploy approval")

// TokenIDFromDeployer derives an interchain-token-id for a token
// deployed locally by deployer under salt, keccak256(deployer ‖ salt).
func TokenIDFromDeployer(deployer address.Address, salt [32]byte) [32]byte {
	var id [32]byte
	copy(id[:], cryptoutil.Keccak256(deployer[:], salt[:]))
	return id
}

// TokenIDFromChainAndMint derives an interchain-token-id for a
// canonically-linked token identified by its origin chain name and mint
// address, keccak256(chainName ‖ mint).
func TokenIDFromChainAndMint(chainName string, mint address.Address) [32]byte {
	var id [32]byte
	copy(id[:], cryptoutil.Keccak256([]byte(chainName), mint[:]))
	return id
}

// DeployApproval is the record gating a remote deploy that carries a
// minter, keyed by (minter, token-id, destination-chain-hash). The
// stored hash must equal keccak(destination-minter); the approval is
// consumed (closed) on use.
type DeployApproval struct {
	ApprovedHash [32]byte
}

// destinationChainHash is the third key component: keccak256 of the
// destination chain name, so the key table stays fixed-width.
func destinationChainHash(destinationChain string) [32]byte {
	var h [32]byte
	copy(h[:], cryptoutil.Keccak256([]byte(destinationChain)))
	return h
}

// ApproveDeploy creates a deploy-approval record authorizing a remote
// deploy of tokenID to destinationChain by minter, provided the eventual
// deploy names destinationMinter as its minter.
func ApproveDeploy(st *store.Store, minter address.Address, tokenID [32]byte, destinationChain string, destinationMinter []byte) error {
	var hash [32]byte
	copy(hash[:], cryptoutil.Keccak256(destinationMinter))
	approval := DeployApproval{ApprovedHash: hash}

	chainHash := destinationChainHash(destinationChain)
	key := store.DeployApprovalKey(minter[:], tokenID[:], chainHash[:])
	return st.Create(key, approval.Encode())
}

// ConsumeDeployApproval verifies and closes the deploy-approval record
// for (minter, tokenID, destinationChain), checking that destinationMinter
// hashes to the stored value. It fails the remote deploy if no approval
// exists or the hash does not match; on success the record is deleted so
// it cannot be reused.
func ConsumeDeployApproval(st *store.Store, minter address.Address, tokenID [32]byte, destinationChain string, destinationMinter []byte) error {
	chainHash := destinationChainHash(destinationChain)
	key := store.DeployApprovalKey(minter[:], tokenID[:], chainHash[:])

	raw, err := st.Get(key)
	if err != nil {
		return err
	}
	approval, err := DecodeDeployApproval(raw)
	if err != nil {
		return err
	}

	var gotHash [32]byte
	copy(gotHash[:], cryptoutil.Keccak256(destinationMinter))
	if gotHash != approval.ApprovedHash {
		return ErrDeployApprovalHashMismatch
	}
	return st.Delete(key)
}

// Encode serializes a deploy approval.
func (a DeployApproval) Encode() []byte {
	return append([]byte(nil), a.ApprovedHash[:]...)
}

// DecodeDeployApproval parses bytes produced by Encode.
func DecodeDeployApproval(raw []byte) (DeployApproval, error) {
	var a DeployApproval
	if len(raw) != 32 {
		return a, errors.New("its: malformed deploy approval record")
	}
	copy(a.ApprovedHash[:], raw)
	return a, nil
}
