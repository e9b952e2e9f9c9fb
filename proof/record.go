// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/historytree"
	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/bverifyd/util"
)

// RecordProof - a record is in the log committed by a digest
type RecordProof struct {
	recordIndex           int
	commitmentNumber      int
	commitmentRecordIndex int
	record                record.Record
	tree                  *historytree.Tree
}

// NewRecordProof - prune the tree at the commitment and disclose one record
func NewRecordProof(recordIndex int, commitmentNumber int, commitmentRecordIndex int, tree *historytree.Tree) (*RecordProof, error) {
	if recordIndex < 0 || commitmentNumber < 0 || recordIndex > commitmentRecordIndex {
		return nil, fault.ErrInvalidRecordIndex
	}
	if commitmentRecordIndex > tree.Version() {
		return nil, fault.ErrMissingTreeData
	}

	pruned, err := tree.MakePruned(historytree.NewMemoryStore(), commitmentRecordIndex)
	if nil != err {
		return nil, err
	}
	if err := pruned.CopyPath(tree, recordIndex, true); nil != err {
		return nil, err
	}
	return newRecordProof(recordIndex, commitmentNumber, pruned)
}

func newRecordProof(recordIndex int, commitmentNumber int, pruned *historytree.Tree) (*RecordProof, error) {
	r, err := pruned.Leaf(recordIndex)
	if nil != err {
		return nil, err
	}
	return &RecordProof{
		recordIndex:           recordIndex,
		commitmentNumber:      commitmentNumber,
		commitmentRecordIndex: pruned.Version(),
		record:                r,
		tree:                  pruned,
	}, nil
}

// Record - the disclosed record
func (p *RecordProof) Record() record.Record {
	return p.record
}

// RecordIndex - position of the record in the log
func (p *RecordProof) RecordIndex() int {
	return p.recordIndex
}

// CommitmentNumber - commitment the proof is against
func (p *RecordProof) CommitmentNumber() int {
	return p.commitmentNumber
}

// CommitmentRecordIndex - last record covered by the commitment
func (p *RecordProof) CommitmentRecordIndex() int {
	return p.commitmentRecordIndex
}

// Check - recomputed root matches the commitment digest
func (p *RecordProof) Check(digest aggregation.Digest) bool {
	a, err := p.tree.AggregationAt(p.commitmentRecordIndex)
	if nil != err {
		return false
	}
	return a.Hash == digest
}

// Tag - proof type
func (p *RecordProof) Tag() TagType {
	return RecordTag
}

// Pack - tag, record index, commitment number, commitment record index, tree
func (p *RecordProof) Pack() ([]byte, error) {
	buffer := []byte{byte(RecordTag)}
	buffer = util.AppendVarint(buffer, uint64(p.recordIndex))
	buffer = util.AppendVarint(buffer, uint64(p.commitmentNumber))
	buffer = util.AppendVarint(buffer, uint64(p.commitmentRecordIndex))
	return appendTree(buffer, p.tree)
}

// Size - number of packed bytes
func (p *RecordProof) Size() int {
	return size(p)
}

// UnpackRecordProof - decode a packed record proof
func UnpackRecordProof(buffer []byte) (*RecordProof, error) {
	u, err := newReader(buffer, RecordTag)
	if nil != err {
		return nil, err
	}
	recordIndex, err := u.Int()
	if nil != err {
		return nil, err
	}
	commitmentNumber, err := u.Int()
	if nil != err {
		return nil, err
	}
	commitmentRecordIndex, err := u.Int()
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

	if tree.Version() != commitmentRecordIndex || recordIndex > commitmentRecordIndex {
		return nil, fault.ErrInvalidRecordProof
	}
	return newRecordProof(recordIndex, commitmentNumber, tree)
}
