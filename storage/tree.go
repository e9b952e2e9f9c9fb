// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/bitmark-inc/bverifyd/historytree"
)

var sizeKey = []byte("size")

// TreeStore - history tree nodes held in the Nodes pool
//
// writes are queued in a batch and become durable together with the
// leaf count at Commit, reads see the queued writes
type TreeStore struct {
	sync.Mutex
	batch   *Batch
	pending map[historytree.Position]*historytree.Node
}

// NewTreeStore - store over the open database
func NewTreeStore() *TreeStore {
	return &TreeStore{
		batch:   NewBatch(),
		pending: make(map[historytree.Position]*historytree.Node),
	}
}

// Get - fetch a node
func (s *TreeStore) Get(p historytree.Position) (*historytree.Node, error) {
	s.Lock()
	n, ok := s.pending[p]
	s.Unlock()
	if ok {
		c := *n
		return &c, nil
	}

	buffer := Pool.Nodes.Get(p.Bytes())
	if nil == buffer {
		return nil, nil
	}
	n, _, err := historytree.UnpackNode(p.Layer, buffer, true)
	if nil != err {
		poolData.log.Errorf("node: %s  unpack error: %s", p, err)
		return nil, err
	}
	return n, nil
}

// Put - queue a node
func (s *TreeStore) Put(p historytree.Position, n *historytree.Node) error {
	packed, err := n.Pack(true)
	if nil != err {
		return err
	}

	c := *n

	s.Lock()
	s.pending[p] = &c
	s.batch.Put(Pool.Nodes, p.Bytes(), packed)
	s.Unlock()
	return nil
}

// Each - visit every committed node then every queued one
func (s *TreeStore) Each(f func(p historytree.Position, n *historytree.Node) error) error {
	s.Lock()
	pending := make(map[historytree.Position]*historytree.Node, len(s.pending))
	for p, n := range s.pending {
		pending[p] = n
	}
	s.Unlock()

	cursor := Pool.Nodes.NewFetchCursor()
	err := cursor.Map(func(key []byte, value []byte) error {
		p, err := historytree.PositionFromBytes(key)
		if nil != err {
			return err
		}
		if _, ok := pending[p]; ok {
			return nil
		}
		n, _, err := historytree.UnpackNode(p.Layer, value, true)
		if nil != err {
			return err
		}
		return f(p, n)
	})
	if nil != err {
		return err
	}

	for p, n := range pending {
		c := *n
		if err := f(p, &c); nil != err {
			return err
		}
	}
	return nil
}

// Size - committed leaf count
func (s *TreeStore) Size() (int, error) {
	n, found := Pool.Metadata.GetN(sizeKey)
	if !found {
		return 0, nil
	}
	return int(n), nil
}

// Commit - write queued nodes and the leaf count
func (s *TreeStore) Commit(size int) error {
	s.Lock()
	defer s.Unlock()

	s.batch.PutN(Pool.Metadata, sizeKey, uint64(size))
	if err := s.batch.Commit(); nil != err {
		poolData.log.Criticalf("tree commit size: %d  error: %s", size, err)
		return err
	}
	s.pending = make(map[historytree.Position]*historytree.Node)
	return nil
}
