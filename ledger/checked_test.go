// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/fixtures"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/ledger/mocks"
)

func TestCheckedReader(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := ledger.NewMemory()
	for _, data := range []string{"one", "two"} {
		_, err := l.Publish([]byte(data))
		assert.Nil(t, err, "publish: %s", data)
	}

	c := ledger.NewCheckedReader(l)
	statements, err := c.Statements(0)
	assert.Nil(t, err, "first read")
	assert.Equal(t, 2, len(statements), "statements")
	assert.Equal(t, 2, c.Count(), "seen")

	_, err = l.Publish([]byte("three"))
	assert.Nil(t, err, "publish three")

	statements, err = c.Statements(2)
	assert.Nil(t, err, "incremental read")
	assert.Equal(t, 1, len(statements), "one new statement")
	assert.Equal(t, []byte("three"), statements[0].Data, "data")
	assert.Equal(t, 3, c.Count(), "seen")

	_, err = c.Statements(5)
	assert.Equal(t, fault.ErrStatementNotFound, err, "gap")
}

func TestCheckedReaderRejectsRewrite(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	honest := ledger.NewMemory()
	for _, data := range []string{"one", "two"} {
		_, err := honest.Publish([]byte(data))
		assert.Nil(t, err, "publish: %s", data)
	}
	good, err := honest.Statements(0)
	assert.Nil(t, err, "statements")

	forked := ledger.NewMemory()
	for _, data := range []string{"one", "TWO"} {
		_, err := forked.Publish([]byte(data))
		assert.Nil(t, err, "publish: %s", data)
	}
	fork, err := forked.Statements(0)
	assert.Nil(t, err, "statements")

	tampered := make([]ledger.Statement, len(good))
	copy(tampered, good)
	tampered[1].Data = []byte("TWO")

	r := mocks.NewMockReader(ctl)
	gomock.InOrder(
		r.EXPECT().Statements(0).Return(good, nil),
		r.EXPECT().Statements(1).Return(fork[1:], nil),
		r.EXPECT().Statements(1).Return(tampered[1:], nil),
	)

	c := ledger.NewCheckedReader(r)
	_, err = c.Statements(0)
	assert.Nil(t, err, "honest read")

	_, err = c.Statements(1)
	assert.Equal(t, fault.ErrIncorrectChain, err, "rewritten history")

	_, err = c.Statements(1)
	assert.Equal(t, fault.ErrIncorrectChain, err, "data does not match digest")
	assert.Equal(t, 2, c.Count(), "nothing new accepted")
}
