// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/historytree"
	"github.com/bitmark-inc/bverifyd/util"
)

// ConsistencyProof - consecutive commitments are prefixes of one log
type ConsistencyProof struct {
	startingCommitmentNumber int
	recordIndices            []int
	tree                     *historytree.Tree
}

// NewConsistencyProof - one pruned tree holding the path to the last
// record of every commitment from start onwards
func NewConsistencyProof(startingCommitmentNumber int, recordIndices []int, tree *historytree.Tree) (*ConsistencyProof, error) {
	if err := checkIndices(startingCommitmentNumber, recordIndices); nil != err {
		return nil, err
	}
	last := recordIndices[len(recordIndices)-1]
	if last > tree.Version() {
		return nil, fault.ErrMissingTreeData
	}

	pruned, err := tree.MakePruned(historytree.NewMemoryStore(), last)
	if nil != err {
		return nil, err
	}
	for _, i := range recordIndices {
		if err := pruned.CopyPath(tree, i, false); nil != err {
			return nil, err
		}
	}

	indices := make([]int, len(recordIndices))
	copy(indices, recordIndices)

	return &ConsistencyProof{
		startingCommitmentNumber: startingCommitmentNumber,
		recordIndices:            indices,
		tree:                     pruned,
	}, nil
}

func checkIndices(start int, indices []int) error {
	if start < 0 {
		return fault.ErrInvalidCommitmentRange
	}
	if 0 == len(indices) {
		return fault.ErrEmptyCommitmentList
	}
	for i, index := range indices {
		if index < 0 {
			return fault.ErrInvalidRecordIndex
		}
		if i > 0 && index < indices[i-1] {
			return fault.ErrInvalidCommitmentRange
		}
	}
	return nil
}

// StartingCommitmentNumber - first commitment covered
func (p *ConsistencyProof) StartingCommitmentNumber() int {
	return p.startingCommitmentNumber
}

// EndingCommitmentNumber - last commitment covered
func (p *ConsistencyProof) EndingCommitmentNumber() int {
	return p.startingCommitmentNumber + len(p.recordIndices) - 1
}

// RecordIndices - last record of each commitment
func (p *ConsistencyProof) RecordIndices() []int {
	indices := make([]int, len(p.recordIndices))
	copy(indices, p.recordIndices)
	return indices
}

// Check - every commitment digest is a root of the same tree
func (p *ConsistencyProof) Check(digests []aggregation.Digest) bool {
	if len(digests) != len(p.recordIndices) {
		return false
	}
	for i, index := range p.recordIndices {
		a, err := p.tree.AggregationAt(index)
		if nil != err || a.Hash != digests[i] {
			return false
		}
	}
	return true
}

// Tag - proof type
func (p *ConsistencyProof) Tag() TagType {
	return ConsistencyTag
}

// Pack - tag, start, indices, tree
func (p *ConsistencyProof) Pack() ([]byte, error) {
	buffer := []byte{byte(ConsistencyTag)}
	buffer = util.AppendVarint(buffer, uint64(p.startingCommitmentNumber))
	buffer = appendIndices(buffer, p.recordIndices)
	return appendTree(buffer, p.tree)
}

// Size - number of packed bytes
func (p *ConsistencyProof) Size() int {
	return size(p)
}

// UnpackConsistencyProof - decode a packed consistency proof
func UnpackConsistencyProof(buffer []byte) (*ConsistencyProof, error) {
	u, err := newReader(buffer, ConsistencyTag)
	if nil != err {
		return nil, err
	}
	start, err := u.Int()
	if nil != err {
		return nil, err
	}
	indices, err := readIndices(u)
	if nil != err {
		return nil, err
	}
	tree, err := readTree(u)
	if nil != err {
		return nil, err
	}
	if err := finished(u); nil != err {
		return nil, err
	}

	if err := checkIndices(start, indices); nil != err {
		return nil, err
	}
	if indices[len(indices)-1] != tree.Version() {
		return nil, fault.ErrInvalidConsistencyProof
	}
	return &ConsistencyProof{
		startingCommitmentNumber: start,
		recordIndices:            indices,
		tree:                     tree,
	}, nil
}
