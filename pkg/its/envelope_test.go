package its

import (
	"testing"

	"github.com/axelar-network/axelar-solana-core/pkg/codec"
)

func TestInterchainTransferRoundTrip(t *testing.T) {
	var tokenID [32]byte
	tokenID[0] = 0x01
	m := InterchainTransfer{
		TokenID:            tokenID,
		SourceAddress:      []byte("src"),
		DestinationAddress: []byte("dst"),
		Amount:             12345,
		Data:               []byte("payload"),
	}
	raw := m.Encode()

	d, err := PeekDiscriminant(raw)
	if err != nil {
		t.Fatalf("PeekDiscriminant: %v", err)
	}
	if d != DiscriminantInterchainTransfer {
		t.Fatalf("expected DiscriminantInterchainTransfer, got %v", d)
	}

	got, err := DecodeInterchainTransfer(raw)
	if err != nil {
		t.Fatalf("DecodeInterchainTransfer: %v", err)
	}
	if got.Amount != m.Amount || string(got.SourceAddress) != string(m.SourceAddress) {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestDeployInterchainTokenRoundTrip(t *testing.T) {
	var tokenID [32]byte
	tokenID[0] = 0x02
	m := DeployInterchainToken{
		TokenID:  tokenID,
		Name:     "Wrapped Thing",
		Symbol:   "WTH",
		Decimals: 9,
		Minter:   []byte("minter-bytes"),
	}
	got, err := DecodeDeployInterchainToken(m.Encode())
	if err != nil {
		t.Fatalf("DecodeDeployInterchainToken: %v", err)
	}
	if got.Name != m.Name || got.Symbol != m.Symbol || got.Decimals != m.Decimals {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if _, err := DecodeInterchainTransfer(m.Encode()); err != ErrUnknownDiscriminant {
		t.Errorf("expected ErrUnknownDiscriminant decoding a deploy message as a transfer, got %v", err)
	}
}

func TestLinkTokenRoundTrip(t *testing.T) {
	var tokenID [32]byte
	tokenID[0] = 0x03
	m := LinkToken{
		TokenID:                 tokenID,
		TokenManagerType:        LockUnlockFee,
		SourceTokenAddress:      []byte("source-token"),
		DestinationTokenAddress: []byte("dest-token"),
		Params:                  []byte("params"),
	}
	got, err := DecodeLinkToken(m.Encode())
	if err != nil {
		t.Fatalf("DecodeLinkToken: %v", err)
	}
	if got.TokenManagerType != LockUnlockFee {
		t.Errorf("expected LockUnlockFee, got %v", got.TokenManagerType)
	}
}

func TestSendToHubAndReceiveFromHubRoundTrip(t *testing.T) {
	send := SendToHub{DestinationChain: "ethereum", InnerPayload: []byte("inner")}
	gotSend, err := DecodeSendToHub(send.Encode())
	if err != nil {
		t.Fatalf("DecodeSendToHub: %v", err)
	}
	if gotSend.DestinationChain != "ethereum" {
		t.Errorf("unexpected destination chain: %s", gotSend.DestinationChain)
	}

	recv := ReceiveFromHub{SourceChain: "ethereum", SourceAddress: "hub", InnerPayload: []byte("inner")}
	gotRecv, err := DecodeReceiveFromHub(recv.Encode())
	if err != nil {
		t.Fatalf("DecodeReceiveFromHub: %v", err)
	}
	if gotRecv.SourceChain != "ethereum" || gotRecv.SourceAddress != "hub" {
		t.Errorf("round-trip mismatch: %+v", gotRecv)
	}
}

func TestRegisterTokenMetadataDecodeOnly(t *testing.T) {
	// RegisterTokenMetadata has no Encode method since this program never
	// originates it, only observes one relayed from a peer chain; build
	// the wire form directly to exercise the decoder.
	w := codec.NewWriter()
	w.WriteUint32(uint32(DiscriminantRegisterTokenMetadata))
	w.WriteBytes([]byte("token"))
	w.WriteUint8(6)

	got, err := DecodeRegisterTokenMetadata(w.Bytes())
	if err != nil {
		t.Fatalf("DecodeRegisterTokenMetadata: %v", err)
	}
	if got.Decimals != 6 || string(got.TokenAddress) != "token" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}
