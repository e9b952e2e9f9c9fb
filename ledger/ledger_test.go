// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/fixtures"
	"github.com/bitmark-inc/bverifyd/ledger"
)

const testLedger = "test-ledger.leveldb"

func exercise(t *testing.T, l ledger.Ledger) {
	items := [][]byte{[]byte("first"), []byte("second"), []byte("third")}

	for i, item := range items {
		receipt, err := l.Publish(item)
		assert.Nil(t, err, "publish %d", i)
		assert.Equal(t, uint64(i), receipt.Sequence, "sequence %d", i)
	}
	assert.Equal(t, 3, l.Count(), "count")
	assert.Nil(t, l.Verify(), "verify")

	statements, err := l.Statements(1)
	assert.Nil(t, err, "statements")
	assert.Equal(t, 2, len(statements), "statements from 1")
	assert.Equal(t, []byte("second"), statements[0].Data, "oldest first")
	assert.Equal(t, ledger.ChainDigest(statements[0].Digest, 2, []byte("third")), statements[1].Digest, "chained digest")

	statements, err = l.Statements(3)
	assert.Nil(t, err, "statements at end")
	assert.Equal(t, 0, len(statements), "nothing new")

	_, err = l.Statements(4)
	assert.Equal(t, fault.ErrStatementNotFound, err, "beyond end")

	// returned data is a copy
	statements, err = l.Statements(0)
	assert.Nil(t, err, "statements")
	statements[0].Data[0] = 'X'
	assert.Nil(t, l.Verify(), "ledger unaffected by caller")
}

func TestMemory(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	exercise(t, ledger.NewMemory())
}

func TestDatabase(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()
	os.RemoveAll(testLedger)
	defer os.RemoveAll(testLedger)

	d, err := ledger.Open(testLedger)
	assert.Nil(t, err, "open")
	exercise(t, d)
	d.Close()

	d, err = ledger.Open(testLedger)
	assert.Nil(t, err, "reopen")
	defer d.Close()
	assert.Equal(t, 3, d.Count(), "count after reopen")
	assert.Nil(t, d.Verify(), "verify after reopen")

	_, err = d.Publish([]byte("fourth"))
	assert.Nil(t, err, "publish after reopen")
	assert.Nil(t, d.Verify(), "verify after append")
}

func TestVerifyChain(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	m := ledger.NewMemory()
	for _, s := range []string{"a", "b", "c"} {
		_, err := m.Publish([]byte(s))
		assert.Nil(t, err, "publish")
	}
	statements, err := m.Statements(0)
	assert.Nil(t, err, "statements")
	assert.Nil(t, ledger.VerifyChain(statements), "good chain")

	statements[1].Data = []byte("B")
	assert.Equal(t, fault.ErrIncorrectChain, ledger.VerifyChain(statements), "rewritten statement")

	statements, err = m.Statements(0)
	assert.Nil(t, err, "statements")
	assert.Equal(t, fault.ErrIncorrectChain, ledger.VerifyChain(statements[1:]), "missing first statement")
}

func TestStatementJSON(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	m := ledger.NewMemory()
	var receipt ledger.Receipt
	for _, s := range []string{"a", "b"} {
		r, err := m.Publish([]byte(s))
		assert.Nil(t, err, "publish")
		receipt = r
	}
	statements, err := m.Statements(0)
	assert.Nil(t, err, "statements")

	buffer, err := json.Marshal(statements)
	assert.Nil(t, err, "marshal statements")
	var decoded []ledger.Statement
	assert.Nil(t, json.Unmarshal(buffer, &decoded), "unmarshal statements")
	assert.Equal(t, len(statements), len(decoded), "statement count")
	for i := range statements {
		assert.Equal(t, statements[i].Digest, decoded[i].Digest, "digest: %d", i)
		assert.Equal(t, statements[i].Data, decoded[i].Data, "data: %d", i)
		assert.Equal(t, statements[i].Sequence, decoded[i].Sequence, "sequence: %d", i)
	}
	assert.Nil(t, ledger.VerifyChain(decoded), "decoded chain")

	buffer, err = json.Marshal(receipt)
	assert.Nil(t, err, "marshal receipt")
	var r ledger.Receipt
	assert.Nil(t, json.Unmarshal(buffer, &r), "unmarshal receipt")
	assert.Equal(t, receipt, r, "receipt")

	var d ledger.Digest
	assert.Equal(t, fault.ErrUnexpectedDigestLength, d.UnmarshalText([]byte("abcd")), "short digest")
	assert.NotNil(t, d.UnmarshalText([]byte(strings.Repeat("zz", ledger.DigestLength))), "not hex")
}
