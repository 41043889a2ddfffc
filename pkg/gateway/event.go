// Copyright 2025 Certen Protocol
//
// Outbound call-contract event: the record a program emits to ask the
// gateway to relay a message to another chain, per spec.md §6.
package gateway

import (
	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/cryptoutil"
)

// CallContractEvent is emitted by OutboundCall. Relayers watch for these
// off-chain and carry the payload to the destination chain's gateway.
type CallContractEvent struct {
	SenderProgram              address.Address
	DestinationChain           string
	DestinationContractAddress string
	Payload                    []byte
	PayloadHash                [32]byte
}

// OutboundCall constructs a CallContractEvent for a cross-chain call,
// hashing the payload with the same keccak256 used throughout the rest
// of this module's domain hashing.
func OutboundCall(senderProgram address.Address, destinationChain, destinationContractAddress string, payload []byte) CallContractEvent {
	var hash [32]byte
	copy(hash[:], cryptoutil.Keccak256(payload))

	return CallContractEvent{
		SenderProgram:              senderProgram,
		DestinationChain:           destinationChain,
		DestinationContractAddress: destinationContractAddress,
		Payload:                    payload,
		PayloadHash:                hash,
	}
}
