// Copyright 2025 Certen Protocol
//
// Package dispatch implements C5, Executable Dispatch: the helper a
// destination program calls at the start of its execution to decode its
// relayer-supplied payload, check the embedded account list against the
// accounts it was actually invoked with, and flip the incoming message
// to Executed via the Gateway's signing-authority CPI (spec.md §4.4).
package dispatch

import (
	"bytes"
	"errors"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/codec"
	"github.com/axelar-network/axelar-solana-core/pkg/gateway"
	"github.com/axelar-network/axelar-solana-core/pkg/payload"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
)

// ExecutePrefix is the 16-byte literal every structured-encoding payload
// must begin with, per spec.md §6.
const ExecutePrefix = "axelar-execute__"

// ProgramAccountsStartIndex is the slot index (spec.md §4.4) at which a
// relayer-supplied account list begins.
const ProgramAccountsStartIndex = 4

// EncodingTag is the one-byte discriminant at offset 0 of a dispatched
// payload, per spec.md §6.
type EncodingTag uint8

const (
	EncodingStructured EncodingTag = 0x00
	EncodingABI        EncodingTag = 0x01
)

// Errors returned by dispatch decoding and validation.
var (
	ErrMissingExecutePrefix = errors.New("dispatch: structured payload is missing the axelar-execute prefix")
	ErrUnknownEncodingTag   = errors.New("dispatch: unknown envelope encoding tag")
	ErrAccountListMismatch  = errors.New("dispatch: embedded account list does not match the provided accounts")
	ErrBufferNotConsumable  = errors.New("dispatch: payload buffer is not consumable")
)

// ParseOutcome is the trinary result of recognizing a structured
// axelar-execute payload.
type ParseOutcome uint8

const (
	// ParseNotApplicable means body lacks the AXELAR_EXECUTE prefix: this
	// is not a structured executable payload at all, not a malformed one.
	ParseNotApplicable ParseOutcome = iota
	// ParseMalformed means the prefix is present but the remainder fails
	// to decode as an account-meta list and inner payload.
	ParseMalformed
	// ParseRecognized means the prefix is present and the remainder
	// decoded cleanly.
	ParseRecognized
)

// AccountMeta is the Go analogue of Solana's account-meta triple: an
// address plus the signer/writable flags the runtime enforces at
// invocation time.
type AccountMeta struct {
	Pubkey     address.Address
	IsSigner   bool
	IsWritable bool
}

func (m AccountMeta) equal(other AccountMeta) bool {
	return m.Pubkey == other.Pubkey && m.IsSigner == other.IsSigner && m.IsWritable == other.IsWritable
}

// DecodedPayload is the result of decoding a dispatched payload: its
// encoding tag, the embedded account list (empty for the legacy ABI
// path, which defers account validation to the destination program),
// and the inner application payload bytes.
type DecodedPayload struct {
	Tag          EncodingTag
	AccountList  []AccountMeta
	InnerPayload []byte
}

// ParseAxelarMessage recognizes a structured executable payload the way
// the gateway program's own parse_axelar_message does: it gates on the
// AXELAR_EXECUTE prefix before attempting anything else and reports
// ParseNotApplicable rather than an error when the prefix is absent,
// independent of any encoding tag a caller may already have read. body
// is the payload with any leading one-byte encoding tag already
// stripped by the caller.
func ParseAxelarMessage(body []byte) (DecodedPayload, ParseOutcome, error) {
	if !bytes.HasPrefix(body, []byte(ExecutePrefix)) {
		return DecodedPayload{}, ParseNotApplicable, nil
	}

	r := codec.NewReader(body[len(ExecutePrefix):])
	count, err := r.ReadUint32()
	if err != nil {
		return DecodedPayload{}, ParseMalformed, err
	}
	accounts := make([]AccountMeta, 0, count)
	for i := uint32(0); i < count; i++ {
		pubkeyRaw, err := r.ReadFixed(address.Size)
		if err != nil {
			return DecodedPayload{}, ParseMalformed, err
		}
		var pubkey address.Address
		copy(pubkey[:], pubkeyRaw)
		isSigner, err := r.ReadBool()
		if err != nil {
			return DecodedPayload{}, ParseMalformed, err
		}
		isWritable, err := r.ReadBool()
		if err != nil {
			return DecodedPayload{}, ParseMalformed, err
		}
		accounts = append(accounts, AccountMeta{Pubkey: pubkey, IsSigner: isSigner, IsWritable: isWritable})
	}

	inner, err := r.ReadBytes()
	if err != nil {
		return DecodedPayload{}, ParseMalformed, err
	}
	if !r.Done() {
		return DecodedPayload{}, ParseMalformed, codec.ErrTrailingData
	}
	return DecodedPayload{Tag: EncodingStructured, AccountList: accounts, InnerPayload: inner}, ParseRecognized, nil
}

// SerializeMessage is the inverse of ParseAxelarMessage: the
// AXELAR_EXECUTE prefix followed by the account-meta list and inner
// payload in fixed order.
func SerializeMessage(accounts []AccountMeta, inner []byte) []byte {
	w := codec.NewWriter()
	w.WriteFixed([]byte(ExecutePrefix))
	w.WriteUint32(uint32(len(accounts)))
	for _, a := range accounts {
		w.WriteFixed(a.Pubkey[:])
		w.WriteBool(a.IsSigner)
		w.WriteBool(a.IsWritable)
	}
	w.WriteBytes(inner)
	return w.Bytes()
}

// DecodeEnvelope reads the one-byte encoding tag and, for the structured
// path, recognizes the AXELAR_EXECUTE prefix via ParseAxelarMessage. For
// the ABI path it returns the remaining bytes unparsed as InnerPayload,
// leaving ABI decoding to the caller (pkg/abi); the prefix law does not
// apply there since legacy ABI messages never carry it.
func DecodeEnvelope(raw []byte) (DecodedPayload, error) {
	r := codec.NewReader(raw)
	tagByte, err := r.ReadUint8()
	if err != nil {
		return DecodedPayload{}, err
	}
	tag := EncodingTag(tagByte)

	switch tag {
	case EncodingStructured:
		decoded, outcome, err := ParseAxelarMessage(raw[1:])
		switch outcome {
		case ParseNotApplicable:
			return DecodedPayload{}, ErrMissingExecutePrefix
		case ParseMalformed:
			return DecodedPayload{}, err
		default:
			return decoded, nil
		}

	case EncodingABI:
		return DecodedPayload{Tag: tag, InnerPayload: raw[1:]}, nil

	default:
		return DecodedPayload{}, ErrUnknownEncodingTag
	}
}

// EncodeEnvelope is the inverse of DecodeEnvelope: it serializes the
// one-byte encoding tag followed by either a SerializeMessage body
// (structured) or the inner payload as-is (ABI).
func EncodeEnvelope(p DecodedPayload) ([]byte, error) {
	switch p.Tag {
	case EncodingStructured:
		body := SerializeMessage(p.AccountList, p.InnerPayload)
		return append([]byte{byte(EncodingStructured)}, body...), nil
	case EncodingABI:
		return append([]byte{byte(EncodingABI)}, p.InnerPayload...), nil
	default:
		return nil, ErrUnknownEncodingTag
	}
}

// ValidateAccountList asserts pointwise equality (pubkey and
// writable/signer flags) between the payload's declared account list and
// the accounts actually supplied at invocation (spec.md §8 property 9).
func ValidateAccountList(declared, provided []AccountMeta) error {
	if len(declared) != len(provided) {
		return ErrAccountListMismatch
	}
	for i := range declared {
		if !declared[i].equal(provided[i]) {
			return ErrAccountListMismatch
		}
	}
	return nil
}

// Dispatch runs the full C5 sequence for the structured-encoding path:
// it checks the payload buffer is consumable against the incoming
// message, decodes the envelope, validates the embedded account list
// against providedAccounts (the accounts the destination program was
// actually invoked with, starting at ProgramAccountsStartIndex), and
// invokes the Gateway's Validate to flip the message to Executed. It
// returns the decoded inner payload for the destination program to act
// on.
func Dispatch(st *store.Store, buf payload.Buffer, msg gateway.IncomingMessage, commandID [32]byte, providedAccounts []AccountMeta, destinationProgramID, signingAuthorityAddr, gatewayProgramID address.Address, callerIsSigner bool) (DecodedPayload, error) {
	if err := payload.VerifyConsumable(buf, msg.PayloadHash); err != nil {
		return DecodedPayload{}, ErrBufferNotConsumable
	}

	decoded, err := DecodeEnvelope(buf.Region)
	if err != nil {
		return DecodedPayload{}, err
	}

	if decoded.Tag == EncodingStructured {
		if err := ValidateAccountList(decoded.AccountList, providedAccounts); err != nil {
			return DecodedPayload{}, err
		}
	}

	if err := gateway.Validate(st, commandID, destinationProgramID, signingAuthorityAddr, gatewayProgramID, callerIsSigner); err != nil {
		return DecodedPayload{}, err
	}

	return decoded, nil
}

// DispatchLegacy runs the C5 sequence for legacy ABI messages (ITS and
// governance) that carry no embedded account list: it skips account
// validation entirely, deferring it to the destination program, but
// still enforces payload-hash consistency and the signing-authority CPI.
func DispatchLegacy(st *store.Store, buf payload.Buffer, msg gateway.IncomingMessage, commandID [32]byte, destinationProgramID, signingAuthorityAddr, gatewayProgramID address.Address, callerIsSigner bool) (DecodedPayload, error) {
	if err := payload.VerifyConsumable(buf, msg.PayloadHash); err != nil {
		return DecodedPayload{}, ErrBufferNotConsumable
	}

	decoded, err := DecodeEnvelope(buf.Region)
	if err != nil {
		return DecodedPayload{}, err
	}
	if decoded.Tag != EncodingABI {
		return DecodedPayload{}, ErrUnknownEncodingTag
	}

	if err := gateway.Validate(st, commandID, destinationProgramID, signingAuthorityAddr, gatewayProgramID, callerIsSigner); err != nil {
		return DecodedPayload{}, err
	}
	return decoded, nil
}
