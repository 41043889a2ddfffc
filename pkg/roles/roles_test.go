package roles

import (
	"testing"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
)

func TestGrantDirectAccumulates(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()

	var resource, user address.Address
	resource[0] = 0x01
	user[0] = 0x02

	if err := GrantDirect(st, resource, user, FlagMinter); err != nil {
		t.Fatalf("GrantDirect: %v", err)
	}
	if err := GrantDirect(st, resource, user, FlagOperator); err != nil {
		t.Fatalf("GrantDirect: %v", err)
	}

	flags, err := GetRoles(st, resource, user)
	if err != nil {
		t.Fatalf("GetRoles: %v", err)
	}
	if !flags.Has(FlagMinter) || !flags.Has(FlagOperator) {
		t.Errorf("expected both flags set, got %v", flags)
	}
	if flags.Has(FlagFlowLimiter) {
		t.Errorf("did not expect FlagFlowLimiter")
	}
}

func TestProposeAcceptTransfersFlags(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()

	var resource, from, to address.Address
	resource[0] = 0x01
	from[0] = 0x02
	to[0] = 0x03

	if err := GrantDirect(st, resource, from, FlagMinter|FlagOperator); err != nil {
		t.Fatalf("GrantDirect: %v", err)
	}
	if err := Propose(st, resource, from, to, FlagMinter); err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if err := Accept(st, resource, from, to); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	fromFlags, err := GetRoles(st, resource, from)
	if err != nil {
		t.Fatalf("GetRoles(from): %v", err)
	}
	if fromFlags.Has(FlagMinter) {
		t.Errorf("expected from to lose FlagMinter")
	}
	if !fromFlags.Has(FlagOperator) {
		t.Errorf("expected from to keep FlagOperator")
	}

	toFlags, err := GetRoles(st, resource, to)
	if err != nil {
		t.Fatalf("GetRoles(to): %v", err)
	}
	if !toFlags.Has(FlagMinter) {
		t.Errorf("expected to to gain FlagMinter")
	}

	// Proposal is closed: a second accept must fail.
	if err := Accept(st, resource, from, to); err != ErrProposalNotFound {
		t.Errorf("expected ErrProposalNotFound after accept consumes the proposal, got %v", err)
	}
}

func TestProposeRejectsDuplicate(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()

	var resource, from, to address.Address
	resource[0] = 0x01
	from[0] = 0x02
	to[0] = 0x03

	if err := Propose(st, resource, from, to, FlagOperator); err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if err := Propose(st, resource, from, to, FlagOperator); err != store.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}
