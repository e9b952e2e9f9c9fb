// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/bverifyd/commitment"
	"github.com/bitmark-inc/bverifyd/fault"
)

// CommitmentStore - sealed commitments held in the Commitments pool
type CommitmentStore struct{}

// NewCommitmentStore - store over the open database
func NewCommitmentStore() *CommitmentStore {
	return &CommitmentStore{}
}

// PutCommitment - write one commitment
func (s *CommitmentStore) PutCommitment(c commitment.Commitment) error {
	if !isOpen() {
		return fault.ErrDatabaseIsNotSet
	}
	Pool.Commitments.Put(numberKey(c.Number), c.Pack())
	return nil
}

// EachCommitment - visit commitments in number order
func (s *CommitmentStore) EachCommitment(f func(c commitment.Commitment) error) error {
	cursor := Pool.Commitments.NewFetchCursor()
	return cursor.Map(func(key []byte, value []byte) error {
		c, err := commitment.Unpack(value)
		if nil != err {
			return err
		}
		return f(c)
	})
}

func numberKey(n int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(n))
	return key
}

func isOpen() bool {
	poolData.RLock()
	defer poolData.RUnlock()
	return nil != poolData.database
}
