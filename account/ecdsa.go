// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"io"
	"math/big"

	"github.com/bitmark-inc/bverifyd/fault"
)

// sizes of the P-256 encodings
const (
	ecdsaPublicKeySize  = 33 // compressed point
	ecdsaPrivateKeySize = 32 // scalar
)

// ECDSAAccount - for ECDSA P-256 signatures over SHA-256
type ECDSAAccount struct {
	PublicKey []byte
}

func newECDSAAccount(publicKey []byte) (*Account, error) {
	if ecdsaPublicKeySize != len(publicKey) {
		return nil, fault.ErrInvalidKeyLength
	}
	x, _ := elliptic.UnmarshalCompressed(elliptic.P256(), publicKey)
	if nil == x {
		return nil, fault.ErrInvalidAccount
	}
	return &Account{
		AccountInterface: &ECDSAAccount{
			PublicKey: publicKey,
		},
	}, nil
}

// KeyType - key type code
func (account *ECDSAAccount) KeyType() int {
	return ECDSAP256
}

// PublicKeyBytes - compressed public point
func (account *ECDSAAccount) PublicKeyBytes() []byte {
	return account.PublicKey[:]
}

// CheckSignature - verify an ASN.1 signature of SHA-256(message)
func (account *ECDSAAccount) CheckSignature(message []byte, signature Signature) error {
	x, y := elliptic.UnmarshalCompressed(elliptic.P256(), account.PublicKey)
	if nil == x {
		return fault.ErrInvalidAccount
	}
	publicKey := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     x,
		Y:     y,
	}
	digest := sha256.Sum256(message)
	if !ecdsa.VerifyASN1(publicKey, digest[:], signature) {
		return fault.ErrInvalidSignature
	}
	return nil
}

// Bytes - byte slice for encoded key
func (account *ECDSAAccount) Bytes() []byte {
	return append(keyVariant(ECDSAP256, publicKeyCode), account.PublicKey...)
}

// String - base58 encoding of encoded key
func (account *ECDSAAccount) String() string {
	return toBase58(account.Bytes())
}

// MarshalText - convert an account to its Base58 JSON form
func (account ECDSAAccount) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// ECDSAPrivateKey - P-256 scalar
type ECDSAPrivateKey struct {
	PrivateKey []byte

	// signing randomness, nil means crypto/rand
	Rand io.Reader
}

func (privateKey *ECDSAPrivateKey) key() (*ecdsa.PrivateKey, error) {
	if ecdsaPrivateKeySize != len(privateKey.PrivateKey) {
		return nil, fault.ErrInvalidKeyLength
	}
	curve := elliptic.P256()
	d := new(big.Int).SetBytes(privateKey.PrivateKey)
	if 0 == d.Sign() || d.Cmp(curve.Params().N) >= 0 {
		return nil, fault.ErrNotPrivateKey
	}
	key := &ecdsa.PrivateKey{D: d}
	key.PublicKey.Curve = curve
	key.PublicKey.X, key.PublicKey.Y = curve.ScalarBaseMult(privateKey.PrivateKey)
	return key, nil
}

// KeyType - key type code
func (privateKey *ECDSAPrivateKey) KeyType() int {
	return ECDSAP256
}

// Account - the public half
//
// returns nil for a malformed scalar
func (privateKey *ECDSAPrivateKey) Account() *Account {
	key, err := privateKey.key()
	if nil != err {
		return nil
	}
	return &Account{
		AccountInterface: &ECDSAAccount{
			PublicKey: elliptic.MarshalCompressed(key.Curve, key.X, key.Y),
		},
	}
}

// Sign - ASN.1 signature of SHA-256(message)
func (privateKey *ECDSAPrivateKey) Sign(message []byte) (Signature, error) {
	key, err := privateKey.key()
	if nil != err {
		return nil, err
	}
	digest := sha256.Sum256(message)
	return ecdsa.SignASN1(randomSource(privateKey.Rand), key, digest[:])
}

// Bytes - byte slice for encoded key
func (privateKey *ECDSAPrivateKey) Bytes() []byte {
	return append(keyVariant(ECDSAP256, privateKeyCode), privateKey.PrivateKey...)
}
