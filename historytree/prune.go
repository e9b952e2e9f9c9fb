// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package historytree

import (
	"sort"

	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/fault"
)

// Predicate - test applied to aggregations
type Predicate func(a *aggregation.Aggregation) bool

// MakePruned - new tree in store limited to maxVersion
//
// holds the path to maxVersion without its record, everything else
// is a stub, except that leaf 0 is always disclosed since at version 0
// it is the root
func (t *Tree) MakePruned(store Store, maxVersion int) (*Tree, error) {
	if maxVersion < 0 || maxVersion > t.version {
		return nil, fault.ErrMissingTreeData
	}

	pruned := &Tree{
		store:   store,
		version: maxVersion,
	}
	if err := pruned.CopyPath(t, maxVersion, false); nil != err {
		return nil, err
	}
	if err := store.Commit(maxVersion + 1); nil != err {
		return nil, err
	}
	return pruned, nil
}

// CopyPath - splice the path to a leaf from source
//
// nodes on the path become interior and their missing siblings are
// added as stubs, with includeValue the leaf record is disclosed
//
// leaf 0 is the root of version 0 and so is never a stub
func (t *Tree) CopyPath(source *Tree, index int, includeValue bool) error {
	if index < 0 || index > t.version || index > source.version {
		return fault.ErrMissingTreeData
	}
	leaf := uint64(index)
	maxVersion := uint64(t.version)

	p := RootPosition(t.version)
	for {
		n, err := t.store.Get(p)
		if nil != err {
			return err
		}

		if 0 == p.Layer {
			return t.copyLeaf(source, p, n, includeValue, maxVersion)
		}

		if nil == n || n.Stub {
			if err := t.store.Put(p, &Node{}); nil != err {
				return err
			}
		}

		next := p.Left()
		sibling := p.Right()
		if !next.Covers(leaf) {
			next, sibling = sibling, next
		}

		if sibling.First() <= maxVersion {
			s, err := t.store.Get(sibling)
			if nil != err {
				return err
			}
			if nil == s {
				a, err := source.aggregationAt(sibling, maxVersion)
				if nil != err {
					return err
				}
				err = t.store.Put(sibling, &Node{
					Agg:  a,
					Stub: true,
				})
				if nil != err {
					return err
				}
			}
		}
		p = next
	}
}

func (t *Tree) copyLeaf(source *Tree, p Position, n *Node, includeValue bool, maxVersion uint64) error {
	if nil != n && nil != n.Value {
		return nil
	}

	if includeValue || 0 == p.Index {
		r, err := source.Leaf(int(p.Index))
		if nil != err {
			return err
		}
		return t.store.Put(p, &Node{
			Value: r,
		})
	}

	if nil != n {
		return nil
	}
	a, err := source.aggregationAt(p, maxVersion)
	if nil != err {
		return err
	}
	return t.store.Put(p, &Node{
		Agg:  a,
		Stub: true,
	})
}

// CheckStubs - true if the predicate holds for every stub
func (t *Tree) CheckStubs(predicate Predicate) (bool, error) {
	result := true
	err := t.store.Each(func(p Position, n *Node) error {
		if n.Stub && !predicate(n.Agg) {
			result = false
		}
		return nil
	})
	if nil != err {
		return false, err
	}
	return result, nil
}

// MatchingLeafIndices - disclosed leaves satisfying the predicate, ascending
func (t *Tree) MatchingLeafIndices(predicate Predicate) ([]int, error) {
	indices := make([]int, 0)
	err := t.store.Each(func(p Position, n *Node) error {
		if 0 != p.Layer || nil == n.Value || int(p.Index) > t.version {
			return nil
		}
		a, err := aggregation.Leaf(n.Value)
		if nil != err {
			return err
		}
		if predicate(a) {
			indices = append(indices, int(p.Index))
		}
		return nil
	})
	if nil != err {
		return nil, err
	}
	sort.Ints(indices)
	return indices, nil
}
