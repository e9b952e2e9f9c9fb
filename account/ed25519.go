// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/bverifyd/fault"
)

// ED25519Account - for ed25519 signatures
type ED25519Account struct {
	PublicKey []byte
}

func newED25519Account(publicKey []byte) (*Account, error) {
	if ed25519.PublicKeySize != len(publicKey) {
		return nil, fault.ErrInvalidKeyLength
	}
	return &Account{
		AccountInterface: &ED25519Account{
			PublicKey: publicKey,
		},
	}, nil
}

// KeyType - key type code (see enumeration above)
func (account *ED25519Account) KeyType() int {
	return ED25519
}

// PublicKeyBytes - fetch the public key as byte slice
func (account *ED25519Account) PublicKeyBytes() []byte {
	return account.PublicKey[:]
}

// CheckSignature - check the signature of a message
func (account *ED25519Account) CheckSignature(message []byte, signature Signature) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.ErrInvalidSignature
	}
	if !ed25519.Verify(account.PublicKey, message, signature) {
		return fault.ErrInvalidSignature
	}
	return nil
}

// Bytes - byte slice for encoded key
func (account *ED25519Account) Bytes() []byte {
	return append(keyVariant(ED25519, publicKeyCode), account.PublicKey...)
}

// String - base58 encoding of encoded key
func (account *ED25519Account) String() string {
	return toBase58(account.Bytes())
}

// MarshalText - convert an account to its Base58 JSON form
func (account ED25519Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// ED25519PrivateKey - for ed25519 keys
type ED25519PrivateKey struct {
	PrivateKey []byte
}

// KeyType - key type code
func (privateKey *ED25519PrivateKey) KeyType() int {
	return ED25519
}

// Account - the public half
func (privateKey *ED25519PrivateKey) Account() *Account {
	publicKey := ed25519.PrivateKey(privateKey.PrivateKey).Public().(ed25519.PublicKey)
	return &Account{
		AccountInterface: &ED25519Account{
			PublicKey: []byte(publicKey),
		},
	}
}

// Sign - sign a message
func (privateKey *ED25519PrivateKey) Sign(message []byte) (Signature, error) {
	if ed25519.PrivateKeySize != len(privateKey.PrivateKey) {
		return nil, fault.ErrInvalidKeyLength
	}
	return ed25519.Sign(privateKey.PrivateKey, message), nil
}

// Bytes - byte slice for encoded key
func (privateKey *ED25519PrivateKey) Bytes() []byte {
	return append(keyVariant(ED25519, privateKeyCode), privateKey.PrivateKey...)
}
