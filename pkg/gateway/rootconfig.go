// Copyright 2025 Certen Protocol
//
// Package gateway implements C1 (Verifier-Set Tracker), C3 (Incoming-
// Message Record), C8 (Root Config / Trust Set) and the rotation
// operation that spans C1+C8. It is the top-level engine the rest of
// this module's dispatch and ITS packages call into to approve and
// consume cross-chain messages.
package gateway

import (
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
)

// DefaultRetention is the default number of verifier-set epochs whose
// signatures remain accepted, per spec.md §6.
const DefaultRetention = 4

// ErrUnknownChain is returned when a chain name is looked up that is not
// present in the trusted-chain set.
var ErrUnknownChain = errors.New("gateway: chain is not in the trusted-chain set")

// RootConfig is the C8 persistent record: the single content-addressed
// global configuration record threaded explicitly through every
// operation rather than held as module-level state (spec.md §9).
type RootConfig struct {
	DomainSeparator       [32]byte
	Operator              address.Address
	ChainName             string
	TrustedChains         map[string]struct{}
	Paused                bool
	RotationRetention     uint64
	MinimumRotationDelay  uint64 // seconds
	LastRotationTimestamp uint64
	CurrentEpoch          uint64
}

// NewRootConfig constructs a root configuration with the given trusted
// chain names and spec.md §6 defaults (retention 4).
func NewRootConfig(domainSeparator [32]byte, operator address.Address, chainName string, trustedChains []string, minimumRotationDelay uint64) *RootConfig {
	set := make(map[string]struct{}, len(trustedChains))
	for _, c := range trustedChains {
		set[c] = struct{}{}
	}
	return &RootConfig{
		DomainSeparator:      domainSeparator,
		Operator:             operator,
		ChainName:            chainName,
		TrustedChains:        set,
		RotationRetention:    DefaultRetention,
		MinimumRotationDelay: minimumRotationDelay,
	}
}

// IsTrustedChain reports whether chain is a member of the trusted-chain
// set.
func (c *RootConfig) IsTrustedChain(chain string) bool {
	_, ok := c.TrustedChains[chain]
	return ok
}

// AddTrustedChain inserts chain into the trusted-chain set. Governance
// policy around who may call this is out of scope per spec.md §1; this
// is the mechanical mutation only.
func (c *RootConfig) AddTrustedChain(chain string) {
	c.TrustedChains[chain] = struct{}{}
}

// RemoveTrustedChain removes chain from the trusted-chain set.
func (c *RootConfig) RemoveTrustedChain(chain string) {
	delete(c.TrustedChains, chain)
}

// EpochValid reports whether a tracker created at trackerEpoch is still
// within the retention window of the root's current epoch, per spec.md
// §3: "valid for approval iff current_epoch - its_epoch < N" and §8
// property 8.
func (c *RootConfig) EpochValid(trackerEpoch uint64) bool {
	if trackerEpoch > c.CurrentEpoch {
		return false
	}
	return c.CurrentEpoch-trackerEpoch < c.RotationRetention
}
