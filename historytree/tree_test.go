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

func buildTree(t *testing.T, records []record.Record) *historytree.Tree {
	tree := historytree.New()
	for i, r := range records {
		v, err := tree.Append(r)
		assert.Nil(t, err, "append: %d", i)
		assert.Equal(t, i, v, "version after append")
	}
	return tree
}

func leaf(t *testing.T, r record.Record) *aggregation.Aggregation {
	a, err := aggregation.Leaf(r)
	assert.Nil(t, err, "leaf")
	return a
}

func combine(t *testing.T, l *aggregation.Aggregation, r *aggregation.Aggregation) *aggregation.Aggregation {
	a, err := aggregation.Combine(l, r)
	assert.Nil(t, err, "combine")
	return a
}

func TestEmptyTree(t *testing.T) {
	tree := historytree.New()
	assert.Equal(t, -1, tree.Version(), "empty version")

	_, err := tree.Aggregation()
	assert.Equal(t, fault.ErrMissingTreeData, err, "empty aggregation")

	_, err = tree.Leaf(0)
	assert.Equal(t, fault.ErrMissingTreeData, err, "empty leaf")
}

func TestTreeShape(t *testing.T) {
	records := fixtures.PrefixRecords(3)
	tree := buildTree(t, records)

	l0 := leaf(t, records[0])
	l1 := leaf(t, records[1])
	l2 := leaf(t, records[2])

	a, err := tree.AggregationAt(0)
	assert.Nil(t, err, "version 0")
	assert.Equal(t, l0.Hash, a.Hash, "single leaf root")

	a, err = tree.AggregationAt(1)
	assert.Nil(t, err, "version 1")
	assert.Equal(t, combine(t, l0, l1).Hash, a.Hash, "two leaf root")

	a, err = tree.AggregationAt(2)
	assert.Nil(t, err, "version 2")
	expected := combine(t, combine(t, l0, l1), combine(t, l2, nil))
	assert.Equal(t, expected.Hash, a.Hash, "three leaf root")
	assert.Equal(t, []int64{6, 6}, a.Numerical.Values(), "summed amounts")
	assert.Equal(t, 3, a.Categorical.Count(), "union of flags")

	r, err := tree.Leaf(1)
	assert.Nil(t, err, "leaf 1")
	assert.True(t, record.Equal(records[1], r), "stored record")

	_, err = tree.AggregationAt(3)
	assert.Equal(t, fault.ErrMissingTreeData, err, "future version")
}

func TestDeterminism(t *testing.T) {
	records := fixtures.PrefixRecords(13)
	a := buildTree(t, records)
	b := buildTree(t, records)

	for v := 0; v < len(records); v += 1 {
		x, err := a.AggregationAt(v)
		assert.Nil(t, err, "a at %d", v)
		y, err := b.AggregationAt(v)
		assert.Nil(t, err, "b at %d", v)
		assert.True(t, x.Equal(y), "version %d differs", v)
	}
}

func TestHistoryIsStable(t *testing.T) {
	records := fixtures.PrefixRecords(11)
	tree := historytree.New()

	roots := make([]aggregation.Digest, 0, len(records))
	for _, r := range records {
		_, err := tree.Append(r)
		assert.Nil(t, err, "append")
		a, err := tree.Aggregation()
		assert.Nil(t, err, "aggregation")
		roots = append(roots, a.Hash)
	}

	for v, expected := range roots {
		a, err := tree.AggregationAt(v)
		assert.Nil(t, err, "at %d", v)
		assert.Equal(t, expected, a.Hash, "root at %d changed", v)
	}
}

func TestAggregationWithChildren(t *testing.T) {
	records := fixtures.PrefixRecords(5)
	tree := buildTree(t, records)

	_, _, _, err := tree.AggregationWithChildren(0)
	assert.Equal(t, fault.ErrLeafHasNoChildren, err, "leaf root")

	for v := 1; v < len(records); v += 1 {
		main, left, right, err := tree.AggregationWithChildren(v)
		assert.Nil(t, err, "children at %d", v)
		assert.True(t, combine(t, left, right).Equal(main), "children at %d do not combine to root", v)
	}
}

func TestReplace(t *testing.T) {
	records := fixtures.PrefixRecords(6)
	tree := buildTree(t, records)

	before := make([]*aggregation.Aggregation, len(records))
	for v := range records {
		a, err := tree.AggregationAt(v)
		assert.Nil(t, err, "before at %d", v)
		before[v] = a
	}

	err := tree.Replace(3, fixtures.SimpleRecord(999, 0))
	assert.Nil(t, err, "replace")

	for v := range records {
		a, err := tree.AggregationAt(v)
		assert.Nil(t, err, "after at %d", v)
		if v < 3 {
			assert.Equal(t, before[v].Hash, a.Hash, "root at %d should not change", v)
		} else {
			assert.NotEqual(t, before[v].Hash, a.Hash, "root at %d should change", v)
		}
	}

	assert.Equal(t, fault.ErrInvalidRecordIndex, tree.Replace(6, records[0]), "replace beyond end")
}

func TestFailedAppendLeavesStoreUntouched(t *testing.T) {
	records := fixtures.PrefixRecords(1)
	tree := buildTree(t, records)
	store := tree.Store().(*historytree.MemoryStore)

	count := store.Count()
	size, err := store.Size()
	assert.Nil(t, err, "size")
	root, err := tree.Aggregation()
	assert.Nil(t, err, "root")

	wide := &record.SimpleRecord{
		Categorical: attributes.NewCategorical(8),
		Numerical:   attributes.NewNumerical(2),
	}
	_, err = tree.Append(wide)
	assert.Equal(t, fault.ErrShapeMismatch, err, "append another shape")
	assert.Equal(t, 0, tree.Version(), "version after failed append")
	assert.Equal(t, count, store.Count(), "node count after failed append")
	s, err := store.Size()
	assert.Nil(t, err, "size")
	assert.Equal(t, size, s, "committed size after failed append")

	v, err := tree.Append(fixtures.SimpleRecord(1, 0))
	assert.Nil(t, err, "append after failure")
	assert.Equal(t, 1, v, "version after good append")

	err = tree.Replace(0, wide)
	assert.Equal(t, fault.ErrShapeMismatch, err, "replace with another shape")
	l, err := tree.Leaf(0)
	assert.Nil(t, err, "leaf")
	assert.Equal(t, records[0], l, "leaf kept after failed replace")
	a, err := tree.AggregationAt(0)
	assert.Nil(t, err, "root at 0")
	assert.Equal(t, root.Hash, a.Hash, "root at 0 unchanged")
}
