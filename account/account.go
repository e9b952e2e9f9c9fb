// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

// enumeration of supported key algorithms
const (
	// list of valid algorithms
	Invalid   = iota // zero keytype is never valid
	ED25519   = iota
	ECDSAP256 = iota
	// end of list (one greater than last item)
	algorithmLimit = iota
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in key code starting from LSB
	publicKeyCode  = 0x01
	privateKeyCode = 0x00

	algorithmShift = 4 // shift 4 bits to get algorithm
)

// Account - base type for accounts
type Account struct {
	AccountInterface
}

// AccountInterface - the operations common to every key algorithm
type AccountInterface interface {
	KeyType() int
	PublicKeyBytes() []byte
	CheckSignature(message []byte, signature Signature) error
	Bytes() []byte
	String() string
	MarshalText() ([]byte, error)
}

// AccountFromBase58 - convert a Base58 encoded string to an account
func AccountFromBase58(accountBase58Encoded string) (*Account, error) {
	decoded, err := base58.Decode(accountBase58Encoded)
	if nil != err || len(decoded) <= checksumLength {
		return nil, fault.ErrCannotDecodeAccount
	}

	checksumStart := len(decoded) - checksumLength
	checksum := sha3.Sum256(decoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], decoded[checksumStart:]) {
		return nil, fault.ErrChecksumMismatch
	}
	return AccountFromBytes(decoded[:checksumStart])
}

// AccountFromBytes - convert a byte encoded key to an account
//
// one of the specific account types are returned using the base
// "AccountInterface" interface type to allow individual methods to
// be called.
func AccountFromBytes(accountBytes []byte) (*Account, error) {
	keyVariant, keyVariantLength := util.FromVarint64(accountBytes)
	if 0 == keyVariantLength || keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.ErrNotPublicKey
	}

	publicKey := make([]byte, len(accountBytes)-keyVariantLength)
	copy(publicKey, accountBytes[keyVariantLength:])

	switch keyVariant >> algorithmShift {
	case ED25519:
		return newED25519Account(publicKey)
	case ECDSAP256:
		return newECDSAAccount(publicKey)
	default:
		return nil, fault.ErrInvalidKeyType
	}
}

// UnmarshalText - convert Base58 text to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := AccountFromBase58(string(s))
	if nil != err {
		return err
	}
	account.AccountInterface = a.AccountInterface
	return nil
}

// Equal - same algorithm and same public key
func (account *Account) Equal(other *Account) bool {
	if nil == account || nil == other || nil == account.AccountInterface || nil == other.AccountInterface {
		return account == other
	}
	return bytes.Equal(account.Bytes(), other.Bytes())
}

// encode a variant and key with a checksum
func toBase58(keyBytes []byte) string {
	checksum := sha3.Sum256(keyBytes)
	return base58.Encode(append(keyBytes, checksum[:checksumLength]...))
}

func keyVariant(algorithm int, code byte) []byte {
	return util.ToVarint64(uint64(algorithm<<algorithmShift) | uint64(code))
}
