// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package historytree

import (
	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/record"
)

// Tree - a history tree over a store
//
// not safe for concurrent modification, callers serialise writers
type Tree struct {
	store   Store
	version int
}

// New - empty tree in memory
func New() *Tree {
	return &Tree{
		store:   NewMemoryStore(),
		version: -1,
	}
}

// Open - tree over an existing store
func Open(store Store) (*Tree, error) {
	size, err := store.Size()
	if nil != err {
		return nil, err
	}
	return &Tree{
		store:   store,
		version: size - 1,
	}, nil
}

// Version - index of the last leaf, -1 when empty
func (t *Tree) Version() int {
	return t.version
}

// Store - the underlying node store
func (t *Tree) Store() Store {
	return t.store
}

// Append - add a leaf and return the new version
//
// nothing reaches the store unless every aggregation above the leaf
// could be computed
func (t *Tree) Append(r record.Record) (int, error) {
	v := uint64(t.version + 1)

	leaf, err := aggregation.Leaf(r)
	if nil != err {
		return 0, err
	}

	work, changes := t.stage()
	changes.Put(Position{Layer: 0, Index: v}, &Node{
		Agg:   leaf,
		Value: r,
	})

	root := RootPosition(int(v))
	for layer := uint(1); layer <= root.Layer; layer += 1 {
		p := Position{Layer: layer, Index: v >> layer}
		n, err := changes.Get(p)
		if nil != err {
			return 0, err
		}
		if nil == n {
			n = &Node{}
		}

		// node just became full so its aggregation is now fixed
		if p.Last() == v {
			n.Agg, err = work.combineChildren(p, v)
			if nil != err {
				return 0, err
			}
		}
		changes.Put(p, n)
	}

	if err := changes.flush(int(v) + 1); nil != err {
		return 0, err
	}
	t.version = int(v)
	return t.version, nil
}

// Replace - overwrite an existing leaf and refresh the cached
// aggregations above it
func (t *Tree) Replace(index int, r record.Record) error {
	if index < 0 || index > t.version {
		return fault.ErrInvalidRecordIndex
	}
	v := uint64(index)

	leaf, err := aggregation.Leaf(r)
	if nil != err {
		return err
	}

	work, changes := t.stage()
	changes.Put(Position{Layer: 0, Index: v}, &Node{
		Agg:   leaf,
		Value: r,
	})

	root := RootPosition(t.version)
	for layer := uint(1); layer <= root.Layer; layer += 1 {
		p := Position{Layer: layer, Index: v >> layer}
		n, err := changes.Get(p)
		if nil != err {
			return err
		}
		if nil == n || nil == n.Agg {
			continue
		}
		n.Agg, err = work.combineChildren(p, p.Last())
		if nil != err {
			return err
		}
		changes.Put(p, n)
	}

	// current root must still combine, a leaf of another shape
	// would otherwise only fail at the next append
	if _, err := work.Aggregation(); nil != err {
		return err
	}
	return changes.flush(t.version + 1)
}

// Aggregation - root aggregation at the current version
func (t *Tree) Aggregation() (*aggregation.Aggregation, error) {
	return t.AggregationAt(t.version)
}

// AggregationAt - root aggregation at an earlier version
//
// a root has no parent to bind its attributes to its hash so a stub
// there is never accepted
func (t *Tree) AggregationAt(version int) (*aggregation.Aggregation, error) {
	if version < 0 || version > t.version {
		return nil, fault.ErrMissingTreeData
	}
	root := RootPosition(version)
	n, err := t.store.Get(root)
	if nil != err {
		return nil, err
	}
	if nil != n && n.Stub {
		return nil, fault.ErrInvalidTreeStructure
	}
	return t.aggregationAt(root, uint64(version))
}

// AggregationWithChildren - root aggregation and its two children
//
// a single leaf root has no children
func (t *Tree) AggregationWithChildren(version int) (*aggregation.Aggregation, *aggregation.Aggregation, *aggregation.Aggregation, error) {
	if version < 0 || version > t.version {
		return nil, nil, nil, fault.ErrMissingTreeData
	}
	root := RootPosition(version)
	if 0 == root.Layer {
		return nil, nil, nil, fault.ErrLeafHasNoChildren
	}
	v := uint64(version)

	main, err := t.aggregationAt(root, v)
	if nil != err {
		return nil, nil, nil, err
	}
	left, err := t.aggregationAt(root.Left(), v)
	if nil != err {
		return nil, nil, nil, err
	}
	right, err := t.aggregationAt(root.Right(), v)
	if nil != err {
		return nil, nil, nil, err
	}
	if nil == right {
		right = aggregation.Empty(left.Numerical.Len(), left.Categorical.Len())
	}
	return main, left, right, nil
}

// Leaf - the record at an index
func (t *Tree) Leaf(index int) (record.Record, error) {
	if index < 0 || index > t.version {
		return nil, fault.ErrMissingTreeData
	}
	n, err := t.store.Get(Position{Layer: 0, Index: uint64(index)})
	if nil != err {
		return nil, err
	}
	if nil == n || nil == n.Value {
		return nil, fault.ErrMissingTreeData
	}
	return n.Value, nil
}

// aggregation of node p as seen at version v
//
// nil, nil means the node is absent at v
func (t *Tree) aggregationAt(p Position, v uint64) (*aggregation.Aggregation, error) {
	if p.First() > v {
		return nil, nil
	}
	n, err := t.store.Get(p)
	if nil != err {
		return nil, err
	}
	if nil == n {
		return nil, fault.ErrMissingTreeData
	}

	frozen := p.Last() <= v

	if n.Stub {
		if !frozen || nil == n.Agg {
			return nil, fault.ErrMissingTreeData
		}
		return n.Agg, nil
	}

	if 0 == p.Layer {
		if nil != n.Agg {
			return n.Agg, nil
		}
		if nil == n.Value {
			return nil, fault.ErrMissingTreeData
		}
		return aggregation.Leaf(n.Value)
	}

	if frozen && nil != n.Agg {
		return n.Agg, nil
	}
	return t.combineChildren(p, v)
}

func (t *Tree) combineChildren(p Position, v uint64) (*aggregation.Aggregation, error) {
	left, err := t.aggregationAt(p.Left(), v)
	if nil != err {
		return nil, err
	}
	right, err := t.aggregationAt(p.Right(), v)
	if nil != err {
		return nil, err
	}
	return aggregation.Combine(left, right)
}

// writes held back from a store until flushed in order
type staged struct {
	Store
	nodes map[Position]*Node
	order []Position
}

// view of the tree that reads through the staged writes
func (t *Tree) stage() (*Tree, *staged) {
	changes := &staged{
		Store: t.store,
		nodes: make(map[Position]*Node),
	}
	work := &Tree{
		store:   changes,
		version: t.version,
	}
	return work, changes
}

func (s *staged) Get(p Position) (*Node, error) {
	if n, ok := s.nodes[p]; ok {
		return n.clone(), nil
	}
	return s.Store.Get(p)
}

func (s *staged) Put(p Position, n *Node) error {
	if _, ok := s.nodes[p]; !ok {
		s.order = append(s.order, p)
	}
	s.nodes[p] = n.clone()
	return nil
}

func (s *staged) flush(size int) error {
	for _, p := range s.order {
		if err := s.Store.Put(p, s.nodes[p]); nil != err {
			return err
		}
	}
	return s.Store.Commit(size)
}
