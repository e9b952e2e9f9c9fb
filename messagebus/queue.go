// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
)

// DefaultQueueSize - capacity when none is given
const DefaultQueueSize = 1000

// Message - an item on the queue
type Message struct {
	Command    string
	Parameters [][]byte
}

// Queue - bounded, never blocks the sender
type Queue struct {
	sync.Mutex
	queue   chan Message
	dropped int
}

// New - create a queue, size <= 0 selects the default
func New(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		queue: make(chan Message, size),
	}
}

// Send - queue a message, returns false if the queue was full and
// the message was dropped
func (q *Queue) Send(command string, parameters ...[]byte) bool {
	if nil == q {
		return false
	}

	// copy the parameters, caller may reuse buffers
	p := make([][]byte, len(parameters))
	for i, item := range parameters {
		p[i] = make([]byte, len(item))
		copy(p[i], item)
	}

	select {
	case q.queue <- Message{Command: command, Parameters: p}:
		return true
	default:
		q.Lock()
		q.dropped += 1
		q.Unlock()
		return false
	}
}

// Chan - channel to read from
func (q *Queue) Chan() <-chan Message {
	return q.queue
}

// Dropped - number of messages discarded because the queue was full
func (q *Queue) Dropped() int {
	q.Lock()
	defer q.Unlock()
	return q.dropped
}
