package attest

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"chain-arena/internal/arena"
)

// The signed surface is deliberately tiny: a domain prefix plus the two
// action wire values for the round, nothing else. The ledger reproduces the
// same bytes and checks the recovered signer, and its own round counter is
// what makes a leaked signature useless for replay.
var encodingPrefix = []byte("chain-arena round actions:")

// Attestation authorizes one round outcome. Signature is the 65-byte
// recoverable [R || S || V] form the ledger's verifier expects.
type Attestation struct {
	Payload   []byte
	Signature []byte
}

// EncodeActions builds the fixed-width, order-dependent payload for an
// action pair. Side A always comes first.
func EncodeActions(actionA, actionB arena.Action) []byte {
	payload := make([]byte, 0, len(encodingPrefix)+2)
	payload = append(payload, encodingPrefix...)
	payload = append(payload, byte(actionA), byte(actionB))
	return payload
}

// DecodeActions is the inverse of EncodeActions.
func DecodeActions(payload []byte) (arena.Action, arena.Action, error) {
	if len(payload) != len(encodingPrefix)+2 {
		return 0, 0, fmt.Errorf("attestation payload is %d bytes, want %d", len(payload), len(encodingPrefix)+2)
	}
	if string(payload[:len(encodingPrefix)]) != string(encodingPrefix) {
		return 0, 0, fmt.Errorf("attestation payload has wrong prefix")
	}
	a := arena.Action(payload[len(payload)-2])
	b := arena.Action(payload[len(payload)-1])
	if !a.Valid() || !b.Valid() {
		return 0, 0, fmt.Errorf("attestation payload carries out-of-vocabulary action")
	}
	return a, b, nil
}

// digest hashes the payload and applies the Ethereum signed-message prefix.
// Signer and verifier must agree on these bytes exactly.
func digest(payload []byte) []byte {
	inner := crypto.Keccak256(payload)
	return crypto.Keccak256([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(inner))), inner)
}

// Signer holds the single trusted key. It signs action pairs and nothing
// else.
type Signer struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

// NewSignerFromHex loads the trusted key from its hex encoding.
func NewSignerFromHex(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}
	return NewSigner(key), nil
}

// Address is the trusted signer address the ledger verifies against.
func (s *Signer) Address() common.Address { return s.addr }

// Sign produces the attestation for one round's action pair.
func (s *Signer) Sign(actionA, actionB arena.Action) (Attestation, error) {
	if !actionA.Valid() || !actionB.Valid() {
		return Attestation{}, fmt.Errorf("refusing to sign out-of-vocabulary action pair (%d, %d)", actionA, actionB)
	}
	payload := EncodeActions(actionA, actionB)
	sig, err := crypto.Sign(digest(payload), s.key)
	if err != nil {
		return Attestation{}, fmt.Errorf("sign round actions: %w", err)
	}
	return Attestation{Payload: payload, Signature: sig}, nil
}

// RecoverSigner returns the address that signed the given action pair.
func RecoverSigner(actionA, actionB arena.Action, sig []byte) (common.Address, error) {
	pub, err := crypto.SigToPub(digest(EncodeActions(actionA, actionB)), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify checks a signature over an action pair against the trusted address.
func Verify(trusted common.Address, actionA, actionB arena.Action, sig []byte) bool {
	recovered, err := RecoverSigner(actionA, actionB, sig)
	if err != nil {
		return false
	}
	return recovered == trusted
}
