// Copyright 2025 Certen Protocol
//
// Cross-chain envelope and inner-message encoding for C7, per spec.md
// §6's "cross-chain envelope tags" and "ITS message discriminants".
package its

import (
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/codec"
)

// Discriminant is the u32 selector embedded at offset 0 of an ITS inner
// payload.
type Discriminant uint32

const (
	DiscriminantInterchainTransfer Discriminant = iota
	DiscriminantDeployInterchainToken
	DiscriminantLinkToken
	DiscriminantSendToHub
	DiscriminantReceiveFromHub
	DiscriminantRegisterTokenMetadata
)

// ErrUnknownDiscriminant is returned decoding an inner payload whose
// leading u32 selector is not one of the six known message kinds.
var ErrUnknownDiscriminant = errors.New("its: unknown message discriminant")

// ErrUntrustedHubSource is returned when a ReceiveFromHub envelope names
// a source chain or source address outside the configured hub trust.
var ErrUntrustedHubSource = errors.New("its: receive-from-hub source is not the trusted hub")

// PeekDiscriminant reads the leading u32 selector of an inner payload
// without consuming the rest.
func PeekDiscriminant(raw []byte) (Discriminant, error) {
	r := codec.NewReader(raw)
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return Discriminant(v), nil
}

// InterchainTransfer is the inner application message moving value for
// one token-id to a destination address on another chain.
type InterchainTransfer struct {
	TokenID            [32]byte
	SourceAddress      []byte
	DestinationAddress []byte
	Amount             uint64
	Data               []byte
}

// Encode serializes an InterchainTransfer with its discriminant.
func (m InterchainTransfer) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint32(uint32(DiscriminantInterchainTransfer))
	w.WriteFixed(m.TokenID[:])
	w.WriteBytes(m.SourceAddress)
	w.WriteBytes(m.DestinationAddress)
	w.WriteUint64(m.Amount)
	w.WriteBytes(m.Data)
	return w.Bytes()
}

// DecodeInterchainTransfer parses a payload produced by Encode. The
// discriminant must already have been consumed or verified by the
// caller via PeekDiscriminant; this re-reads it for self-containment.
func DecodeInterchainTransfer(raw []byte) (InterchainTransfer, error) {
	r := codec.NewReader(raw)
	var m InterchainTransfer

	d, err := r.ReadUint32()
	if err != nil {
		return m, err
	}
	if Discriminant(d) != DiscriminantInterchainTransfer {
		return m, ErrUnknownDiscriminant
	}

	tokenID, err := r.ReadFixed(32)
	if err != nil {
		return m, err
	}
	copy(m.TokenID[:], tokenID)

	if m.SourceAddress, err = r.ReadBytes(); err != nil {
		return m, err
	}
	if m.DestinationAddress, err = r.ReadBytes(); err != nil {
		return m, err
	}
	if m.Amount, err = r.ReadUint64(); err != nil {
		return m, err
	}
	if m.Data, err = r.ReadBytes(); err != nil {
		return m, err
	}
	if !r.Done() {
		return m, codec.ErrTrailingData
	}
	return m, nil
}

// DeployInterchainToken is the inner application message requesting
// remote token deployment.
type DeployInterchainToken struct {
	TokenID  [32]byte
	Name     string
	Symbol   string
	Decimals uint8
	Minter   []byte
}

// Encode serializes a DeployInterchainToken with its discriminant.
func (m DeployInterchainToken) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint32(uint32(DiscriminantDeployInterchainToken))
	w.WriteFixed(m.TokenID[:])
	w.WriteString(m.Name)
	w.WriteString(m.Symbol)
	w.WriteUint8(m.Decimals)
	w.WriteBytes(m.Minter)
	return w.Bytes()
}

// DecodeDeployInterchainToken parses a payload produced by Encode.
func DecodeDeployInterchainToken(raw []byte) (DeployInterchainToken, error) {
	r := codec.NewReader(raw)
	var m DeployInterchainToken

	d, err := r.ReadUint32()
	if err != nil {
		return m, err
	}
	if Discriminant(d) != DiscriminantDeployInterchainToken {
		return m, ErrUnknownDiscriminant
	}

	tokenID, err := r.ReadFixed(32)
	if err != nil {
		return m, err
	}
	copy(m.TokenID[:], tokenID)

	if m.Name, err = r.ReadString(); err != nil {
		return m, err
	}
	if m.Symbol, err = r.ReadString(); err != nil {
		return m, err
	}
	if m.Decimals, err = r.ReadUint8(); err != nil {
		return m, err
	}
	if m.Minter, err = r.ReadBytes(); err != nil {
		return m, err
	}
	if !r.Done() {
		return m, codec.ErrTrailingData
	}
	return m, nil
}

// SendToHub is the outer envelope this program signs when sending a
// message through the off-chain hub chain. InnerPayload is the encoded
// bytes of one application message (usually InterchainTransfer or
// DeployInterchainToken).
type SendToHub struct {
	DestinationChain string
	InnerPayload     []byte
}

// Encode serializes a SendToHub envelope with its discriminant.
func (e SendToHub) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint32(uint32(DiscriminantSendToHub))
	w.WriteString(e.DestinationChain)
	w.WriteBytes(e.InnerPayload)
	return w.Bytes()
}

// DecodeSendToHub parses a payload produced by Encode.
func DecodeSendToHub(raw []byte) (SendToHub, error) {
	r := codec.NewReader(raw)
	var e SendToHub

	d, err := r.ReadUint32()
	if err != nil {
		return e, err
	}
	if Discriminant(d) != DiscriminantSendToHub {
		return e, ErrUnknownDiscriminant
	}
	if e.DestinationChain, err = r.ReadString(); err != nil {
		return e, err
	}
	if e.InnerPayload, err = r.ReadBytes(); err != nil {
		return e, err
	}
	if !r.Done() {
		return e, codec.ErrTrailingData
	}
	return e, nil
}

// ReceiveFromHub is the outer envelope this program verifies when
// accepting a message relayed through the hub chain. A ReceiveFromHub is
// only accepted if SourceAddress equals the configured hub-contract
// address and SourceChain is trusted (spec.md §6), checked by
// ValidateHubSource below rather than at decode time so the decoder
// stays a pure parser.
type ReceiveFromHub struct {
	SourceChain   string
	SourceAddress string
	InnerPayload  []byte
}

// Encode serializes a ReceiveFromHub envelope with its discriminant.
func (e ReceiveFromHub) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint32(uint32(DiscriminantReceiveFromHub))
	w.WriteString(e.SourceChain)
	w.WriteString(e.SourceAddress)
	w.WriteBytes(e.InnerPayload)
	return w.Bytes()
}

// DecodeReceiveFromHub parses a payload produced by Encode.
func DecodeReceiveFromHub(raw []byte) (ReceiveFromHub, error) {
	r := codec.NewReader(raw)
	var e ReceiveFromHub

	d, err := r.ReadUint32()
	if err != nil {
		return e, err
	}
	if Discriminant(d) != DiscriminantReceiveFromHub {
		return e, ErrUnknownDiscriminant
	}
	if e.SourceChain, err = r.ReadString(); err != nil {
		return e, err
	}
	if e.SourceAddress, err = r.ReadString(); err != nil {
		return e, err
	}
	if e.InnerPayload, err = r.ReadBytes(); err != nil {
		return e, err
	}
	if !r.Done() {
		return e, codec.ErrTrailingData
	}
	return e, nil
}

// ValidateHubSource checks a ReceiveFromHub's source address and chain
// against the configured hub contract and trusted-chain predicate.
func ValidateHubSource(e ReceiveFromHub, hubContractAddress string, isTrustedChain func(string) bool) error {
	if e.SourceAddress != hubContractAddress {
		return ErrUntrustedHubSource
	}
	if !isTrustedChain(e.SourceChain) {
		return ErrUntrustedHubSource
	}
	return nil
}

// RegisterTokenMetadata is decode-only: this program never originates
// it, only parses one relayed from the hub. The decoded decimals are
// returned to the caller; nothing here stores them.
type RegisterTokenMetadata struct {
	TokenAddress []byte
	Decimals     uint8
}

// DecodeRegisterTokenMetadata parses a payload produced by a peer chain.
func DecodeRegisterTokenMetadata(raw []byte) (RegisterTokenMetadata, error) {
	r := codec.NewReader(raw)
	var m RegisterTokenMetadata

	d, err := r.ReadUint32()
	if err != nil {
		return m, err
	}
	if Discriminant(d) != DiscriminantRegisterTokenMetadata {
		return m, ErrUnknownDiscriminant
	}
	if m.TokenAddress, err = r.ReadBytes(); err != nil {
		return m, err
	}
	if m.Decimals, err = r.ReadUint8(); err != nil {
		return m, err
	}
	if !r.Done() {
		return m, codec.ErrTrailingData
	}
	return m, nil
}

// LinkToken is the inner application message linking a locally deployed
// token to its counterpart on another chain.
type LinkToken struct {
	TokenID                 [32]byte
	TokenManagerType        ManagerType
	SourceTokenAddress      []byte
	DestinationTokenAddress []byte
	Params                  []byte
}

// Encode serializes a LinkToken with its discriminant.
func (m LinkToken) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint32(uint32(DiscriminantLinkToken))
	w.WriteFixed(m.TokenID[:])
	w.WriteUint8(uint8(m.TokenManagerType))
	w.WriteBytes(m.SourceTokenAddress)
	w.WriteBytes(m.DestinationTokenAddress)
	w.WriteBytes(m.Params)
	return w.Bytes()
}

// DecodeLinkToken parses a payload produced by Encode.
func DecodeLinkToken(raw []byte) (LinkToken, error) {
	r := codec.NewReader(raw)
	var m LinkToken

	d, err := r.ReadUint32()
	if err != nil {
		return m, err
	}
	if Discriminant(d) != DiscriminantLinkToken {
		return m, ErrUnknownDiscriminant
	}

	tokenID, err := r.ReadFixed(32)
	if err != nil {
		return m, err
	}
	copy(m.TokenID[:], tokenID)

	mt, err := r.ReadUint8()
	if err != nil {
		return m, err
	}
	m.TokenManagerType = ManagerType(mt)
	if !m.TokenManagerType.valid() {
		return m, ErrUnknownManagerType
	}

	if m.SourceTokenAddress, err = r.ReadBytes(); err != nil {
		return m, err
	}
	if m.DestinationTokenAddress, err = r.ReadBytes(); err != nil {
		return m, err
	}
	if m.Params, err = r.ReadBytes(); err != nil {
		return m, err
	}
	if !r.Done() {
		return m, codec.ErrTrailingData
	}
	return m, nil
}
