// Copyright 2025 Certen Protocol
//
// C7 Interchain-Transfer Processor: the outbound and inbound transfer
// sequences of spec.md §4.6, each a fixed ordered list of steps over C6
// flow accounting and the Gateway's outbound call-contract path.
package its

import (
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/gateway"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
)

// Errors returned by transfer processing, beyond the flow/manager errors
// already declared in tokenmanager.go.
var (
	ErrPaused         = errors.New("its: gateway is paused")
	ErrUntrustedChain = errors.New("its: destination chain is not trusted")
)

// CustodialAction tells the caller which on-chain side effect to perform
// for a manager type; this package computes which action applies, the
// caller (holding the actual token-program account handles) executes it.
type CustodialAction uint8

const (
	ActionBurn CustodialAction = iota
	ActionBurnFrom
	ActionTransferToCustody
	ActionMint
	ActionReleaseFromCustody
)

func outboundAction(m ManagerType) (CustodialAction, error) {
	switch m {
	case NativeInterchainToken, MintBurn:
		return ActionBurn, nil
	case MintBurnFrom:
		return ActionBurnFrom, nil
	case LockUnlock, LockUnlockFee:
		return ActionTransferToCustody, nil
	default:
		return 0, ErrUnknownManagerType
	}
}

func inboundAction(m ManagerType) (CustodialAction, error) {
	switch m {
	case NativeInterchainToken, MintBurn, MintBurnFrom:
		return ActionMint, nil
	case LockUnlock, LockUnlockFee:
		return ActionReleaseFromCustody, nil
	default:
		return 0, ErrUnknownManagerType
	}
}

// OutboundResult is the caller-facing result of OutboundTransfer: the
// custodial side effect to perform and the envelope to emit via the
// gateway's outbound path.
type OutboundResult struct {
	Manager  TokenManager
	Action   CustodialAction
	Envelope gateway.CallContractEvent
}

// OutboundTransfer runs the four ordered steps of spec.md §4.6's
// outbound sequence: pause/trust check, C6 flow update, custodial
// action selection, and SendToHub envelope construction. It does not
// itself move tokens or emit anything; it returns what the caller (which
// holds the live account handles and the gateway's event sink) must do.
func OutboundTransfer(st *store.Store, cfg *gateway.RootConfig, senderProgram address.Address, itsRootAddr address.Address, tokenID [32]byte, destinationChain, destinationAddress string, amount uint64, data []byte, now uint64) (OutboundResult, error) {
	if cfg.Paused {
		return OutboundResult{}, ErrPaused
	}
	if !cfg.IsTrustedChain(destinationChain) {
		return OutboundResult{}, ErrUntrustedChain
	}

	tm, err := ApplyFlow(st, itsRootAddr, tokenID, now, false, amount)
	if err != nil {
		return OutboundResult{}, err
	}

	action, err := outboundAction(tm.ManagerType)
	if err != nil {
		return OutboundResult{}, err
	}

	inner := InterchainTransfer{
		TokenID:            tokenID,
		SourceAddress:      senderProgram[:],
		DestinationAddress: []byte(destinationAddress),
		Amount:             amount,
		Data:               data,
	}
	envelope := SendToHub{
		DestinationChain: destinationChain,
		InnerPayload:     inner.Encode(),
	}
	event := gateway.OutboundCall(senderProgram, destinationChain, destinationAddress, envelope.Encode())

	return OutboundResult{Manager: tm, Action: action, Envelope: event}, nil
}

// InboundResult is the caller-facing result of InboundTransfer.
type InboundResult struct {
	Manager            TokenManager
	Action             CustodialAction
	DestinationAddress []byte
	Amount             uint64
	Data               []byte
}

// InboundTransfer decodes a ReceiveFromHub envelope already validated
// against the configured hub source (see ValidateHubSource, run by the
// §4.4 dispatch caller before this), decodes its inner
// InterchainTransfer, updates C6 flow accounting for the incoming
// amount, and returns the custodial action the caller must perform. If
// InnerPayload carries a Data payload the caller is responsible for the
// nested CPI into the destination program once the credited account is
// visible.
func InboundTransfer(st *store.Store, itsRootAddr address.Address, envelope ReceiveFromHub, now uint64) (InboundResult, error) {
	inner, err := DecodeInterchainTransfer(envelope.InnerPayload)
	if err != nil {
		return InboundResult{}, err
	}

	tm, err := ApplyFlow(st, itsRootAddr, inner.TokenID, now, true, inner.Amount)
	if err != nil {
		return InboundResult{}, err
	}

	action, err := inboundAction(tm.ManagerType)
	if err != nil {
		return InboundResult{}, err
	}

	return InboundResult{
		Manager:            tm,
		Action:             action,
		DestinationAddress: inner.DestinationAddress,
		Amount:             inner.Amount,
		Data:               inner.Data,
	}, nil
}
