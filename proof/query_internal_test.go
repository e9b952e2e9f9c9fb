// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fixtures"
	"github.com/bitmark-inc/bverifyd/historytree"
	"github.com/bitmark-inc/bverifyd/util"
)

func TestQueryFilterSubstitution(t *testing.T) {
	tree := historytree.New()
	for _, r := range fixtures.PrefixRecords(10) {
		_, err := tree.Append(r)
		assert.Nil(t, err, "append")
	}
	root, err := tree.Aggregation()
	assert.Nil(t, err, "aggregation")

	filter, err := attributes.NewCategoricalWith(attributes.DefaultCategoricalLength, 0, 6)
	assert.Nil(t, err, "filter")
	p, err := NewCategoricalQueryProof(filter, tree, 0, 9)
	assert.Nil(t, err, "construct")
	assert.True(t, p.Check(root.Hash), "genuine proof")

	// claim a narrower query without rebuilding the proof
	assert.Nil(t, p.filter.Set(9, true), "set bit 9")
	assert.False(t, p.Check(root.Hash), "substituted filter accepted")

	// drop one of the matches
	p, err = NewCategoricalQueryProof(filter, tree, 0, 9)
	assert.Nil(t, err, "construct")
	p.indices = []int{6, 8, 9}
	assert.False(t, p.Check(root.Hash), "missing index accepted")
}

// a full tree of 4 leaves has a frozen root, sending only that root as
// a stub with its flags cleared would hide every match
func TestQueryRootStubRejected(t *testing.T) {
	tree := historytree.New()
	for _, r := range fixtures.PrefixRecords(4) {
		_, err := tree.Append(r)
		assert.Nil(t, err, "append")
	}
	root, err := tree.Aggregation()
	assert.Nil(t, err, "aggregation")

	filter, err := attributes.NewCategoricalWith(attributes.DefaultCategoricalLength, 0)
	assert.Nil(t, err, "filter")
	genuine, err := NewCategoricalQueryProof(filter, tree, 0, 3)
	assert.Nil(t, err, "construct")
	assert.Equal(t, []int{0, 1, 2, 3}, genuine.MatchingIndices(), "genuine matches")
	assert.True(t, genuine.Check(root.Hash), "genuine proof")

	hidden := root.Copy()
	hidden.Categorical = attributes.NewCategorical(attributes.DefaultCategoricalLength)

	store := historytree.NewMemoryStore()
	assert.Nil(t, store.Put(historytree.RootPosition(3), &historytree.Node{Agg: hidden, Stub: true}), "put stub")
	assert.Nil(t, store.Commit(4), "commit")
	stubbed, err := historytree.Open(store)
	assert.Nil(t, err, "open")

	p := &CategoricalQueryProof{
		commitmentNumber: 0,
		filter:           filter.Copy(),
		indices:          []int{},
		tree:             stubbed,
	}
	assert.False(t, p.Check(root.Hash), "root stub accepted by check")

	buffer := []byte{byte(QueryTag)}
	buffer = util.AppendVarint(buffer, 0)
	buffer = append(buffer, filter.Pack()...)
	buffer = appendIndices(buffer, []int{})
	buffer, err = appendTree(buffer, stubbed)
	assert.Nil(t, err, "pack tree")

	_, err = UnpackCategoricalQueryProof(buffer)
	assert.NotNil(t, err, "root stub accepted by unpack")
}
