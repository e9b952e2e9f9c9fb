// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"

	"github.com/bitmark-inc/bverifyd/fault"
)

// CheckedReader - a reader over an untrusted copy of the ledger that
// only passes on statements correctly linked to those already seen
type CheckedReader struct {
	sync.Mutex
	reader Reader
	seen   []Digest
}

// NewCheckedReader - wrap a remote reader
func NewCheckedReader(reader Reader) *CheckedReader {
	return &CheckedReader{
		reader: reader,
	}
}

// Statements - fetch and verify the chain from start
func (c *CheckedReader) Statements(start int) ([]Statement, error) {
	c.Lock()
	defer c.Unlock()

	if start < 0 || start > len(c.seen) {
		return nil, fault.ErrStatementNotFound
	}

	statements, err := c.reader.Statements(start)
	if nil != err {
		return nil, err
	}

	previous := Digest{}
	if start > 0 {
		previous = c.seen[start-1]
	}
	for i, s := range statements {
		n := start + i
		if uint64(n) != s.Sequence || ChainDigest(previous, s.Sequence, s.Data) != s.Digest {
			return nil, fault.ErrIncorrectChain
		}
		if n < len(c.seen) && c.seen[n] != s.Digest {
			return nil, fault.ErrIncorrectChain
		}
		previous = s.Digest
	}

	// only record after the whole batch is good
	for i, s := range statements {
		if n := start + i; n >= len(c.seen) {
			c.seen = append(c.seen, s.Digest)
		}
	}
	return statements, nil
}

// Count - statements verified so far
func (c *CheckedReader) Count() int {
	c.Lock()
	defer c.Unlock()
	return len(c.seen)
}
