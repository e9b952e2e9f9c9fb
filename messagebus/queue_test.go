// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/messagebus"
)

func TestQueue(t *testing.T) {

	items := []messagebus.Message{
		{
			Command:    "c1",
			Parameters: [][]byte{[]byte("one")},
		},
		{
			Command:    "c2",
			Parameters: nil,
		},
		{
			Command:    "c3",
			Parameters: [][]byte{[]byte("three"), []byte("3")},
		},
	}

	q := messagebus.New(10)
	for _, item := range items {
		assert.True(t, q.Send(item.Command, item.Parameters...), "send: %s", item.Command)
	}

	queue := q.Chan()
	for _, item := range items {
		received := <-queue
		assert.Equal(t, item.Command, received.Command, "command")
		assert.Equal(t, len(item.Parameters), len(received.Parameters), "parameter count")
		for i := range item.Parameters {
			assert.Equal(t, item.Parameters[i], received.Parameters[i], "parameter: %d", i)
		}
	}
	assert.Equal(t, 0, q.Dropped(), "dropped")
}

func TestQueueFull(t *testing.T) {

	q := messagebus.New(2)
	assert.True(t, q.Send("a"), "first")
	assert.True(t, q.Send("b"), "second")
	assert.False(t, q.Send("c"), "third should be dropped")
	assert.Equal(t, 1, q.Dropped(), "dropped")

	received := <-q.Chan()
	assert.Equal(t, "a", received.Command, "oldest first")
	assert.True(t, q.Send("d"), "space after read")
}

func TestQueueCopiesParameters(t *testing.T) {

	q := messagebus.New(0)
	buffer := []byte("original")
	q.Send("copy", buffer)
	buffer[0] = 'X'

	received := <-q.Chan()
	assert.Equal(t, []byte("original"), received.Parameters[0], "parameter copied")
}

func TestNilQueue(t *testing.T) {
	var q *messagebus.Queue
	assert.False(t, q.Send("nothing"), "nil queue discards")
}
