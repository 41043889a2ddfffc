// Copyright 2025 Certen Protocol
//
// Package abi implements the `0x01` cross-chain envelope encoding tag
// (spec.md §6: "ABI encoding, tuple-aligned, 32-byte words") and the
// legacy ABI message shape used by ITS/governance messages, built on
// go-ethereum's accounts/abi the way the teacher packs contract calls
// (pkg/execution/cross_contract_verification.go: abi.JSON + Pack).
package abi

import (
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// ErrMalformedTuple is returned when ABI-decoded values don't match the
// expected arity or types — a hard parser failure, never a panic.
var ErrMalformedTuple = errors.New("abi: malformed tuple-encoded payload")

// messageArguments is the tuple-aligned shape of a legacy cross-chain
// Message: (sourceChain, sourceMessageID, sourceAddress, destinationChain,
// destinationAddress, payloadHash). It mirrors the fixed field order of
// the message leaf (spec.md §6) minus domain_separator, which is never
// part of the wire-encoded message itself.
var messageArguments = ethabi.Arguments{
	{Type: mustType("string")},
	{Type: mustType("string")},
	{Type: mustType("string")},
	{Type: mustType("string")},
	{Type: mustType("bytes")},
	{Type: mustType("bytes32")},
}

func mustType(name string) ethabi.Type {
	t, err := ethabi.NewType(name, "", nil)
	if err != nil {
		panic("abi: invalid built-in type " + name + ": " + err.Error())
	}
	return t
}

// Message is the decoded legacy ABI message shape.
type Message struct {
	SourceChain             string
	SourceMessageID         string
	SourceAddress           string
	DestinationChain        string
	DestinationAddressBytes []byte
	PayloadHash             [32]byte
}

// EncodeMessage packs a Message into tuple-aligned ABI words.
func EncodeMessage(m Message) ([]byte, error) {
	return messageArguments.Pack(
		m.SourceChain,
		m.SourceMessageID,
		m.SourceAddress,
		m.DestinationChain,
		m.DestinationAddressBytes,
		m.PayloadHash,
	)
}

// DecodeMessage unpacks tuple-aligned ABI words produced by EncodeMessage
// or by a peer chain's ABI-encoding path.
func DecodeMessage(raw []byte) (Message, error) {
	values, err := messageArguments.Unpack(raw)
	if err != nil {
		return Message{}, err
	}
	if len(values) != 6 {
		return Message{}, ErrMalformedTuple
	}

	var m Message
	var ok bool
	if m.SourceChain, ok = values[0].(string); !ok {
		return Message{}, ErrMalformedTuple
	}
	if m.SourceMessageID, ok = values[1].(string); !ok {
		return Message{}, ErrMalformedTuple
	}
	if m.SourceAddress, ok = values[2].(string); !ok {
		return Message{}, ErrMalformedTuple
	}
	if m.DestinationChain, ok = values[3].(string); !ok {
		return Message{}, ErrMalformedTuple
	}
	if m.DestinationAddressBytes, ok = values[4].([]byte); !ok {
		return Message{}, ErrMalformedTuple
	}
	hash, ok := values[5].([32]byte)
	if !ok {
		return Message{}, ErrMalformedTuple
	}
	m.PayloadHash = hash
	return m, nil
}
