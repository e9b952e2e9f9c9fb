// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commitment

import (
	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/fault"
)

// Store - persistence for sealed commitments
type Store interface {
	PutCommitment(c Commitment) error
	EachCommitment(f func(c Commitment) error) error
}

// Index - commitments by number and by digest
//
// not safe for concurrent modification, callers serialise writers
type Index struct {
	store       Store
	commitments []Commitment
	byDigest    map[aggregation.Digest]int
}

// NewIndex - load every commitment held by store
//
// a nil store keeps commitments in memory only
func NewIndex(store Store) (*Index, error) {
	index := &Index{
		store:       store,
		commitments: make([]Commitment, 0),
		byDigest:    make(map[aggregation.Digest]int),
	}
	if nil == store {
		return index, nil
	}

	err := store.EachCommitment(func(c Commitment) error {
		if c.Number != len(index.commitments) {
			return fault.ErrInvalidCommitmentRange
		}
		index.insert(c)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return index, nil
}

// Add - seal the next commitment
func (index *Index) Add(recordIndex int, digest aggregation.Digest) (Commitment, error) {
	c := Commitment{
		Number:      len(index.commitments),
		RecordIndex: recordIndex,
		Digest:      digest,
	}
	if n := len(index.commitments); n > 0 && index.commitments[n-1].RecordIndex >= recordIndex {
		return Commitment{}, fault.ErrInvalidRecordIndex
	}
	if nil != index.store {
		if err := index.store.PutCommitment(c); nil != err {
			return Commitment{}, err
		}
	}
	index.insert(c)
	return c, nil
}

func (index *Index) insert(c Commitment) {
	index.commitments = append(index.commitments, c)
	if _, ok := index.byDigest[c.Digest]; !ok {
		index.byDigest[c.Digest] = c.Number
	}
}

// Count - number of commitments
func (index *Index) Count() int {
	return len(index.commitments)
}

// Get - commitment by number
func (index *Index) Get(number int) (Commitment, error) {
	if number < 0 || number >= len(index.commitments) {
		return Commitment{}, fault.ErrCommitmentNotFound
	}
	return index.commitments[number], nil
}

// Last - most recent commitment
func (index *Index) Last() (Commitment, error) {
	return index.Get(len(index.commitments) - 1)
}

// ByDigest - earliest commitment with a digest
func (index *Index) ByDigest(digest aggregation.Digest) (Commitment, error) {
	number, ok := index.byDigest[digest]
	if !ok {
		return Commitment{}, fault.ErrCommitmentNotFound
	}
	return index.commitments[number], nil
}

// RecordIndices - last record of each commitment from start to end inclusive
func (index *Index) RecordIndices(start int, end int) ([]int, error) {
	if start < 0 || end < start {
		return nil, fault.ErrInvalidCommitmentRange
	}
	if end >= len(index.commitments) {
		return nil, fault.ErrCommitmentNotFound
	}
	indices := make([]int, 0, end-start+1)
	for _, c := range index.commitments[start : end+1] {
		indices = append(indices, c.RecordIndex)
	}
	return indices, nil
}
