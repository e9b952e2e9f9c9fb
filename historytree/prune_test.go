// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package historytree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/fixtures"
	"github.com/bitmark-inc/bverifyd/historytree"
	"github.com/bitmark-inc/bverifyd/record"
)

func TestPrunedRootMatches(t *testing.T) {
	records := fixtures.PrefixRecords(17)
	tree := buildTree(t, records)

	for v := range records {
		pruned, err := tree.MakePruned(historytree.NewMemoryStore(), v)
		assert.Nil(t, err, "prune at %d", v)
		assert.Equal(t, v, pruned.Version(), "pruned version")

		expected, err := tree.AggregationAt(v)
		assert.Nil(t, err, "full at %d", v)
		actual, err := pruned.Aggregation()
		assert.Nil(t, err, "pruned at %d", v)
		assert.Equal(t, expected.Hash, actual.Hash, "root at %d", v)

		r, err := pruned.Leaf(v)
		if 0 == v {
			assert.Nil(t, err, "leaf 0 is the root of version 0")
			assert.True(t, record.Equal(records[0], r), "leaf 0 record")
		} else {
			assert.Equal(t, fault.ErrMissingTreeData, err, "leaf %d should not be disclosed", v)
		}
	}

	_, err := tree.MakePruned(historytree.NewMemoryStore(), len(records))
	assert.Equal(t, fault.ErrMissingTreeData, err, "prune beyond end")
}

func TestCopyPathDisclosesValue(t *testing.T) {
	records := fixtures.PrefixRecords(9)
	tree := buildTree(t, records)

	store := historytree.NewMemoryStore()
	pruned, err := tree.MakePruned(store, 8)
	assert.Nil(t, err, "prune")
	small := store.Count()

	assert.Nil(t, pruned.CopyPath(tree, 2, true), "copy path")
	assert.True(t, store.Count() > small, "path nodes were added")

	r, err := pruned.Leaf(2)
	assert.Nil(t, err, "leaf 2")
	assert.True(t, record.Equal(records[2], r), "disclosed record")

	// disclosing the last leaf upgrades its stub
	assert.Nil(t, pruned.CopyPath(tree, 8, true), "copy last path")
	r, err = pruned.Leaf(8)
	assert.Nil(t, err, "leaf 8")
	assert.True(t, record.Equal(records[8], r), "upgraded stub")

	expected, err := tree.AggregationAt(8)
	assert.Nil(t, err, "full")
	actual, err := pruned.Aggregation()
	assert.Nil(t, err, "pruned")
	assert.Equal(t, expected.Hash, actual.Hash, "root unchanged by disclosure")
}

func TestPrunedEarlierVersions(t *testing.T) {
	records := fixtures.PrefixRecords(12)
	tree := buildTree(t, records)

	pruned, err := tree.MakePruned(historytree.NewMemoryStore(), 11)
	assert.Nil(t, err, "prune")

	_, err = pruned.AggregationAt(5)
	assert.Equal(t, fault.ErrMissingTreeData, err, "path to 5 not present")

	assert.Nil(t, pruned.CopyPath(tree, 5, false), "copy path")
	actual, err := pruned.AggregationAt(5)
	assert.Nil(t, err, "at 5")
	expected, err := tree.AggregationAt(5)
	assert.Nil(t, err, "full at 5")
	assert.Equal(t, expected.Hash, actual.Hash, "root at 5")
}

func TestStubsAndMatches(t *testing.T) {
	records := fixtures.PrefixRecords(10)
	tree := buildTree(t, records)

	filter, err := attributes.NewCategoricalWith(attributes.DefaultCategoricalLength, 0, 6)
	assert.Nil(t, err, "filter")
	matches := func(a *aggregation.Aggregation) bool {
		return a.Categorical.Contains(filter)
	}

	pruned, err := tree.MakePruned(historytree.NewMemoryStore(), 9)
	assert.Nil(t, err, "prune")
	for _, i := range []int{6, 7, 8, 9} {
		assert.Nil(t, pruned.CopyPath(tree, i, true), "copy %d", i)
	}

	ok, err := pruned.CheckStubs(func(a *aggregation.Aggregation) bool {
		return !matches(a)
	})
	assert.Nil(t, err, "check stubs")
	assert.True(t, ok, "no stub may match")

	indices, err := pruned.MatchingLeafIndices(matches)
	assert.Nil(t, err, "matching")
	assert.Equal(t, []int{6, 7, 8, 9}, indices, "matching leaves")

	// without leaf 7 disclosed its stub matches
	partial, err := tree.MakePruned(historytree.NewMemoryStore(), 9)
	assert.Nil(t, err, "prune")
	for _, i := range []int{6, 8, 9} {
		assert.Nil(t, partial.CopyPath(tree, i, true), "copy %d", i)
	}
	ok, err = partial.CheckStubs(func(a *aggregation.Aggregation) bool {
		return !matches(a)
	})
	assert.Nil(t, err, "check stubs")
	assert.False(t, ok, "hidden leaf 7 must be detected")
}
