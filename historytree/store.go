// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package historytree

import (
	"sync"
)

// Store - node storage for a tree
//
// Get returns nil, nil for an absent node.  Put may be buffered until
// the next Commit, which also records the number of leaves
type Store interface {
	Get(p Position) (*Node, error)
	Put(p Position, n *Node) error
	Each(f func(p Position, n *Node) error) error
	Size() (int, error)
	Commit(size int) error
}

// MemoryStore - map backed store for pruned and test trees
type MemoryStore struct {
	sync.RWMutex
	nodes map[Position]*Node
	size  int
}

// NewMemoryStore - empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[Position]*Node),
	}
}

// Get - fetch a node
func (m *MemoryStore) Get(p Position) (*Node, error) {
	m.RLock()
	defer m.RUnlock()

	n, ok := m.nodes[p]
	if !ok {
		return nil, nil
	}
	return n.clone(), nil
}

// Put - store a node
func (m *MemoryStore) Put(p Position, n *Node) error {
	m.Lock()
	m.nodes[p] = n.clone()
	m.Unlock()
	return nil
}

// Each - visit every node in no particular order
func (m *MemoryStore) Each(f func(p Position, n *Node) error) error {
	m.RLock()
	nodes := make(map[Position]*Node, len(m.nodes))
	for p, n := range m.nodes {
		nodes[p] = n
	}
	m.RUnlock()

	for p, n := range nodes {
		if err := f(p, n.clone()); nil != err {
			return err
		}
	}
	return nil
}

// Size - leaf count at the last commit
func (m *MemoryStore) Size() (int, error) {
	m.RLock()
	defer m.RUnlock()
	return m.size, nil
}

// Commit - record the leaf count
func (m *MemoryStore) Commit(size int) error {
	m.Lock()
	m.size = size
	m.Unlock()
	return nil
}

// Count - number of stored nodes
func (m *MemoryStore) Count() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.nodes)
}
