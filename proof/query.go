// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/historytree"
	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/bverifyd/util"
)

// CategoricalQueryProof - complete set of records whose categorical
// attributes contain a filter
//
// every non matching subtree is a stub whose union of flags does not
// contain the filter, so no matching record can be hidden
type CategoricalQueryProof struct {
	commitmentNumber int
	filter           *attributes.Categorical
	indices          []int
	records          []record.Record
	tree             *historytree.Tree
}

// NewCategoricalQueryProof - disclose every matching record up to the commitment
func NewCategoricalQueryProof(filter *attributes.Categorical, tree *historytree.Tree, commitmentNumber int, commitmentRecordIndex int) (*CategoricalQueryProof, error) {
	if nil == filter || commitmentNumber < 0 || commitmentRecordIndex < 0 {
		return nil, fault.ErrMissingParameters
	}
	if commitmentRecordIndex > tree.Version() {
		return nil, fault.ErrMissingTreeData
	}

	pruned, err := tree.MakePruned(historytree.NewMemoryStore(), commitmentRecordIndex)
	if nil != err {
		return nil, err
	}
	indices := make([]int, 0)
	records := make([]record.Record, 0)
	for i := 0; i <= commitmentRecordIndex; i += 1 {
		r, err := tree.Leaf(i)
		if nil != err {
			return nil, err
		}
		if !r.CategoricalAttributes().Contains(filter) {
			continue
		}
		if err := pruned.CopyPath(tree, i, true); nil != err {
			return nil, err
		}
		indices = append(indices, i)
		records = append(records, r)
	}

	return &CategoricalQueryProof{
		commitmentNumber: commitmentNumber,
		filter:           filter.Copy(),
		indices:          indices,
		records:          records,
		tree:             pruned,
	}, nil
}

// Records - matching records in index order
func (p *CategoricalQueryProof) Records() []record.Record {
	records := make([]record.Record, len(p.records))
	copy(records, p.records)
	return records
}

// MatchingIndices - positions of the matching records
func (p *CategoricalQueryProof) MatchingIndices() []int {
	indices := make([]int, len(p.indices))
	copy(indices, p.indices)
	return indices
}

// Filter - copy of the query filter
func (p *CategoricalQueryProof) Filter() *attributes.Categorical {
	return p.filter.Copy()
}

// CommitmentNumber - commitment the proof is against
func (p *CategoricalQueryProof) CommitmentNumber() int {
	return p.commitmentNumber
}

// CommitmentRecordIndex - last record covered by the commitment
func (p *CategoricalQueryProof) CommitmentRecordIndex() int {
	return p.tree.Version()
}

// Check - committed root, no stub can hide a match and the disclosed
// matches are exactly the asserted ones
func (p *CategoricalQueryProof) Check(digest aggregation.Digest) bool {
	a, err := p.tree.Aggregation()
	if nil != err || a.Hash != digest {
		return false
	}

	matches := func(a *aggregation.Aggregation) bool {
		return a.Categorical.Contains(p.filter)
	}

	ok, err := p.tree.CheckStubs(func(a *aggregation.Aggregation) bool {
		return !matches(a)
	})
	if nil != err || !ok {
		return false
	}

	indices, err := p.tree.MatchingLeafIndices(matches)
	if nil != err || len(indices) != len(p.indices) {
		return false
	}
	for i, index := range indices {
		if index != p.indices[i] {
			return false
		}
	}
	return true
}

// Tag - proof type
func (p *CategoricalQueryProof) Tag() TagType {
	return QueryTag
}

// Pack - tag, commitment number, filter, indices, tree
func (p *CategoricalQueryProof) Pack() ([]byte, error) {
	buffer := []byte{byte(QueryTag)}
	buffer = util.AppendVarint(buffer, uint64(p.commitmentNumber))
	buffer = append(buffer, p.filter.Pack()...)
	buffer = appendIndices(buffer, p.indices)
	return appendTree(buffer, p.tree)
}

// Size - number of packed bytes
func (p *CategoricalQueryProof) Size() int {
	return size(p)
}

// UnpackCategoricalQueryProof - decode a packed query proof, the
// records are taken from the disclosed leaves
func UnpackCategoricalQueryProof(buffer []byte) (*CategoricalQueryProof, error) {
	u, err := newReader(buffer, QueryTag)
	if nil != err {
		return nil, err
	}
	commitmentNumber, err := u.Int()
	if nil != err {
		return nil, err
	}
	filter, n, err := attributes.UnpackCategorical(buffer[u.Offset():])
	if nil != err {
		return nil, err
	}
	if _, err := u.Fixed(n); nil != err {
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

	records := make([]record.Record, len(indices))
	for i, index := range indices {
		if i > 0 && index <= indices[i-1] {
			return nil, fault.ErrInvalidQueryProof
		}
		records[i], err = tree.Leaf(index)
		if nil != err {
			return nil, err
		}
	}

	return &CategoricalQueryProof{
		commitmentNumber: commitmentNumber,
		filter:           filter,
		indices:          indices,
		records:          records,
		tree:             tree,
	}, nil
}
