// Copyright 2025 Certen Protocol
//
// Key layout for every persistent record named in spec.md §6. Keys are
// built from a literal namespace prefix followed by the record's
// content-address components, mirroring the teacher's byte-slice key
// convention (e.g. keySysMeta = []byte("sysledger:meta")) generalized to
// this domain's multi-component keys.
package store

import "bytes"

const sep = 0x00

func join(parts ...[]byte) []byte {
	var buf bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			buf.WriteByte(sep)
		}
		buf.Write(p)
	}
	return buf.Bytes()
}

// GatewayRootKey is the single root-configuration record.
func GatewayRootKey() []byte {
	return []byte("gateway-root")
}

// ITSRootKey is the single ITS root-configuration record.
func ITSRootKey() []byte {
	return []byte("its-root")
}

// SignatureVerificationKey keys a C2 session by its payload Merkle root.
func SignatureVerificationKey(payloadMerkleRoot []byte) []byte {
	return join([]byte("signature-verification"), payloadMerkleRoot)
}

// VerifierSetTrackerKey keys a C1 tracker by its verifier-set Merkle
// root.
func VerifierSetTrackerKey(verifierSetMerkleRoot []byte) []byte {
	return join([]byte("verifier-set-tracker"), verifierSetMerkleRoot)
}

// IncomingMessageKey keys a C3 record by command-id.
func IncomingMessageKey(commandID []byte) []byte {
	return join([]byte("incoming-message"), commandID)
}

// MessagePayloadKey keys a C4 buffer by (incoming-message address,
// uploader).
func MessagePayloadKey(incomingMessageAddr, uploader []byte) []byte {
	return join([]byte("message-payload"), incomingMessageAddr, uploader)
}

// TokenManagerKey keys a C6 token manager by (ITS root address,
// token-id).
func TokenManagerKey(itsRootAddr, tokenID []byte) []byte {
	return join([]byte("token-manager"), itsRootAddr, tokenID)
}

// UserRolesKey keys a C9 role record by (resource address, user).
func UserRolesKey(resourceAddr, user []byte) []byte {
	return join([]byte("user-roles"), resourceAddr, user)
}

// RoleProposalKey keys a C9 proposal by (resource, from, to).
func RoleProposalKey(resourceAddr, from, to []byte) []byte {
	return join([]byte("role-proposal"), resourceAddr, from, to)
}

// DeployApprovalKey keys a deploy-approval record by (minter, token-id,
// destination-chain-hash).
func DeployApprovalKey(minter, tokenID, destinationChainHash []byte) []byte {
	return join([]byte("deploy-approval"), minter, tokenID, destinationChainHash)
}
