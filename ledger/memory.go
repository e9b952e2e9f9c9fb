// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
)

// Memory - ledger held in memory
type Memory struct {
	sync.RWMutex
	log        *logger.L
	statements []Statement
}

// NewMemory - empty ledger
func NewMemory() *Memory {
	return &Memory{
		log:        logger.New("ledger"),
		statements: make([]Statement, 0),
	}
}

// Publish - append a statement
func (m *Memory) Publish(data []byte) (Receipt, error) {
	m.Lock()
	defer m.Unlock()

	s := next(m.statements, data)
	m.statements = append(m.statements, s)

	m.log.Debugf("published: %d  digest: %s", s.Sequence, s.Digest)

	return Receipt{
		Sequence: s.Sequence,
		Digest:   s.Digest,
	}, nil
}

// Statements - everything from start onwards
func (m *Memory) Statements(start int) ([]Statement, error) {
	m.RLock()
	defer m.RUnlock()
	return statementsFrom(m.statements, start)
}

// Count - number of statements
func (m *Memory) Count() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.statements)
}

// Verify - audit the whole chain
func (m *Memory) Verify() error {
	m.RLock()
	defer m.RUnlock()
	return VerifyChain(m.statements)
}

// the statement following the current chain
func next(statements []Statement, data []byte) Statement {
	previous := Digest{}
	if n := len(statements); n > 0 {
		previous = statements[n-1].Digest
	}
	sequence := uint64(len(statements))

	buffer := make([]byte, len(data))
	copy(buffer, data)

	return Statement{
		Sequence:  sequence,
		Data:      buffer,
		Timestamp: time.Now().UTC(),
		Digest:    ChainDigest(previous, sequence, buffer),
	}
}
