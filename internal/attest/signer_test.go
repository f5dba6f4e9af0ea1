package attest

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"chain-arena/internal/arena"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return NewSigner(key)
}

func TestSignVerifyEveryActionPair(t *testing.T) {
	s := newTestSigner(t)
	for _, a := range arena.Actions() {
		for _, b := range arena.Actions() {
			att, err := s.Sign(a, b)
			if err != nil {
				t.Fatalf("sign (%s, %s): %v", a, b, err)
			}
			if !Verify(s.Address(), a, b, att.Signature) {
				t.Fatalf("verify failed for (%s, %s)", a, b)
			}
			recovered, err := RecoverSigner(a, b, att.Signature)
			if err != nil {
				t.Fatalf("recover (%s, %s): %v", a, b, err)
			}
			if recovered != s.Address() {
				t.Fatalf("recovered %s, want %s", recovered.Hex(), s.Address().Hex())
			}
		}
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	trusted := newTestSigner(t)
	imposter := newTestSigner(t)
	att, err := imposter.Sign(arena.ActionStrike, arena.ActionDodge)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if Verify(trusted.Address(), arena.ActionStrike, arena.ActionDodge, att.Signature) {
		t.Fatalf("signature from a different key must not verify")
	}
}

func TestVerifyRejectsSwappedActions(t *testing.T) {
	s := newTestSigner(t)
	att, err := s.Sign(arena.ActionStrike, arena.ActionTaunt)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	// The payload is order-dependent: (strike, taunt) != (taunt, strike).
	if Verify(s.Address(), arena.ActionTaunt, arena.ActionStrike, att.Signature) {
		t.Fatalf("swapped action pair must not verify")
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	s := newTestSigner(t)
	att, err := s.Sign(arena.ActionDodge, arena.ActionSpecial)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	tampered := append([]byte(nil), att.Signature...)
	tampered[3] ^= 0xff
	if Verify(s.Address(), arena.ActionDodge, arena.ActionSpecial, tampered) {
		t.Fatalf("tampered signature must not verify")
	}
	if Verify(s.Address(), arena.ActionDodge, arena.ActionSpecial, nil) {
		t.Fatalf("empty signature must not verify")
	}
}

func TestSignRefusesInvalidAction(t *testing.T) {
	s := newTestSigner(t)
	if _, err := s.Sign(arena.Action(9), arena.ActionStrike); err == nil {
		t.Fatalf("signing an out-of-vocabulary action must fail")
	}
}

func TestEncodeDecodeActions(t *testing.T) {
	payload := EncodeActions(arena.ActionSpecial, arena.ActionRecover)
	a, b, err := DecodeActions(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a != arena.ActionSpecial || b != arena.ActionRecover {
		t.Fatalf("decoded (%s, %s)", a, b)
	}
	if _, _, err := DecodeActions(payload[:4]); err == nil {
		t.Fatalf("truncated payload must not decode")
	}
	bad := append([]byte(nil), payload...)
	bad[len(bad)-1] = 99
	if _, _, err := DecodeActions(bad); err == nil {
		t.Fatalf("out-of-vocabulary wire value must not decode")
	}
}

func TestNewSignerFromHex(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	hexKey := "0000000000000000000000000000000000000000000000000000000000000001"
	s, err := NewSignerFromHex(hexKey)
	if err != nil {
		t.Fatalf("parse hex key: %v", err)
	}
	if s.Address() == crypto.PubkeyToAddress(key.PublicKey) {
		t.Fatalf("distinct keys produced the same address")
	}
	if _, err := NewSignerFromHex("not-hex"); err == nil {
		t.Fatalf("garbage key must not parse")
	}
}
