// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"io"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

// PrivateKey - base type for PrivateKey
type PrivateKey struct {
	PrivateKeyInterface
}

// PrivateKeyInterface - the operations common to every key algorithm
type PrivateKeyInterface interface {
	Account() *Account
	KeyType() int
	Sign(message []byte) (Signature, error)
	Bytes() []byte
}

// NewPrivateKey - generate a fresh key
//
// a nil random source uses crypto/rand
func NewPrivateKey(algorithm int, random io.Reader) (*PrivateKey, error) {
	random = randomSource(random)

	switch algorithm {
	case ED25519:
		_, privateKey, err := ed25519.GenerateKey(random)
		if nil != err {
			return nil, err
		}
		return &PrivateKey{
			PrivateKeyInterface: &ED25519PrivateKey{
				PrivateKey: privateKey,
			},
		}, nil

	case ECDSAP256:
		key, err := ecdsa.GenerateKey(elliptic.P256(), random)
		if nil != err {
			return nil, err
		}
		scalar := make([]byte, ecdsaPrivateKeySize)
		d := key.D.Bytes()
		copy(scalar[ecdsaPrivateKeySize-len(d):], d)
		return &PrivateKey{
			PrivateKeyInterface: &ECDSAPrivateKey{
				PrivateKey: scalar,
			},
		}, nil

	default:
		return nil, fault.ErrInvalidKeyType
	}
}

// PrivateKeyFromBytes - convert a byte encoded key to a private key
func PrivateKeyFromBytes(privateKeyBytes []byte) (*PrivateKey, error) {
	variant, variantLength := util.FromVarint64(privateKeyBytes)
	if 0 == variantLength || variant&publicKeyCode == publicKeyCode {
		return nil, fault.ErrNotPrivateKey
	}

	key := make([]byte, len(privateKeyBytes)-variantLength)
	copy(key, privateKeyBytes[variantLength:])

	switch variant >> algorithmShift {
	case ED25519:
		if ed25519.PrivateKeySize != len(key) {
			return nil, fault.ErrInvalidKeyLength
		}
		return &PrivateKey{
			PrivateKeyInterface: &ED25519PrivateKey{
				PrivateKey: key,
			},
		}, nil

	case ECDSAP256:
		p := &ECDSAPrivateKey{
			PrivateKey: key,
		}
		if _, err := p.key(); nil != err {
			return nil, err
		}
		return &PrivateKey{
			PrivateKeyInterface: p,
		}, nil

	default:
		return nil, fault.ErrInvalidKeyType
	}
}

// PrivateKeyFromBase58 - convert Base58 text to a private key
func PrivateKeyFromBase58(privateKeyBase58Encoded string) (*PrivateKey, error) {
	decoded, err := base58.Decode(privateKeyBase58Encoded)
	if nil != err || len(decoded) <= checksumLength {
		return nil, fault.ErrCannotDecodeAccount
	}

	checksumStart := len(decoded) - checksumLength
	checksum := sha3.Sum256(decoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], decoded[checksumStart:]) {
		return nil, fault.ErrChecksumMismatch
	}
	return PrivateKeyFromBytes(decoded[:checksumStart])
}

// String - Base58 text with checksum
func (privateKey *PrivateKey) String() string {
	return toBase58(privateKey.Bytes())
}

// MarshalText - convert a private key to its Base58 JSON form
func (privateKey PrivateKey) MarshalText() ([]byte, error) {
	return []byte(privateKey.String()), nil
}

func randomSource(r io.Reader) io.Reader {
	if nil == r {
		return rand.Reader
	}
	return r
}
