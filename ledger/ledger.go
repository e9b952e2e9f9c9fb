// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/bverifyd/fault"
)

// DigestLength - number of bytes in a chain digest
const DigestLength = 32

// Digest - chain link
type Digest [DigestLength]byte

// String - hex value
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText - hex text for JSON
func (d Digest) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(DigestLength))
	hex.Encode(buffer, d[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (d *Digest) UnmarshalText(s []byte) error {
	if len(s) != hex.EncodedLen(DigestLength) {
		return fault.ErrUnexpectedDigestLength
	}
	_, err := hex.Decode(d[:], s)
	return err
}

// Statement - one published item
type Statement struct {
	Sequence  uint64    `json:"sequence"`
	Data      []byte    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
	Digest    Digest    `json:"digest"`
}

// Receipt - proof of publication
type Receipt struct {
	Sequence uint64 `json:"sequence"`
	Digest   Digest `json:"digest"`
}

// Publisher - write side
type Publisher interface {
	Publish(data []byte) (Receipt, error)
}

// Reader - read side, statements are returned oldest first
type Reader interface {
	Statements(start int) ([]Statement, error)
}

// Ledger - both sides plus an audit of the chain
type Ledger interface {
	Publisher
	Reader
	Count() int
	Verify() error
}

// ChainDigest - link a statement to its predecessor
func ChainDigest(previous Digest, sequence uint64, data []byte) Digest {
	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, sequence)

	h := sha3.New256()
	h.Write(previous[:])
	h.Write(seq)
	h.Write(data)

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// VerifyChain - every statement is correctly linked and numbered
func VerifyChain(statements []Statement) error {
	previous := Digest{}
	for i, s := range statements {
		if uint64(i) != s.Sequence {
			return fault.ErrIncorrectChain
		}
		if ChainDigest(previous, s.Sequence, s.Data) != s.Digest {
			return fault.ErrIncorrectChain
		}
		previous = s.Digest
	}
	return nil
}

// copy of a range of statements
func statementsFrom(statements []Statement, start int) ([]Statement, error) {
	if start < 0 || start > len(statements) {
		return nil, fault.ErrStatementNotFound
	}
	result := make([]Statement, 0, len(statements)-start)
	for _, s := range statements[start:] {
		data := make([]byte, len(s.Data))
		copy(data, s.Data)
		s.Data = data
		result = append(result, s)
	}
	return result, nil
}
