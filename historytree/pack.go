// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package historytree

import (
	"sort"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

// smallest possible encoded entry: layer, index and kind
const minimumEntryLength = 3

type entry struct {
	position Position
	node     *Node
}

// Pack - serialise the tree for transmission
//
//   varint(version) varint(count) { varint(layer) varint(index) node }*
//
// entries are ordered root first, only stub aggregations and leaf
// records are sent
func (t *Tree) Pack() ([]byte, error) {
	if t.version < 0 {
		return nil, fault.ErrMissingTreeData
	}

	entries := make([]entry, 0)
	err := t.store.Each(func(p Position, n *Node) error {
		entries = append(entries, entry{position: p, node: n})
		return nil
	})
	if nil != err {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		a := entries[i].position
		b := entries[j].position
		if a.Layer != b.Layer {
			return a.Layer > b.Layer
		}
		return a.Index < b.Index
	})

	buffer := util.AppendVarint(nil, uint64(t.version))
	buffer = util.AppendVarint(buffer, uint64(len(entries)))
	for _, e := range entries {
		buffer = util.AppendVarint(buffer, uint64(e.position.Layer))
		buffer = util.AppendVarint(buffer, e.position.Index)
		packed, err := e.node.Pack(false)
		if nil != err {
			return nil, err
		}
		buffer = append(buffer, packed...)
	}
	return buffer, nil
}

// Unpack - rebuild a tree in store from packed bytes
//
// the structure is validated and the root aggregation recomputed so
// damaged data is rejected here rather than at first use
func Unpack(store Store, buffer []byte) (*Tree, error) {
	u := util.NewUnpacker(buffer)

	version, err := u.Int()
	if nil != err {
		return nil, err
	}
	count, err := u.Int()
	if nil != err {
		return nil, err
	}
	if 0 == count || count > u.Remaining()/minimumEntryLength {
		return nil, fault.ErrInvalidCount
	}

	root := RootPosition(version)
	nodes := make(map[Position]*Node, count)

	for i := 0; i < count; i += 1 {
		layer, err := u.Varint()
		if nil != err {
			return nil, err
		}
		index, err := u.Varint()
		if nil != err {
			return nil, err
		}
		if layer > uint64(root.Layer) {
			return nil, fault.ErrInvalidTreeStructure
		}
		p := Position{Layer: uint(layer), Index: index}
		if index > uint64(version)>>p.Layer {
			return nil, fault.ErrInvalidTreeStructure
		}
		if _, ok := nodes[p]; ok {
			return nil, fault.ErrInvalidTreeStructure
		}

		n, size, err := UnpackNode(p.Layer, buffer[u.Offset():], false)
		if nil != err {
			return nil, err
		}
		if _, err := u.Fixed(size); nil != err {
			return nil, err
		}
		nodes[p] = n
	}
	if 0 != u.Remaining() {
		return nil, fault.ErrTrailingData
	}

	if n, ok := nodes[root]; !ok || n.Stub {
		return nil, fault.ErrInvalidTreeStructure
	}
	for p, n := range nodes {
		if p != root {
			parent, ok := nodes[p.Parent()]
			if !ok || parent.Stub {
				return nil, fault.ErrInvalidTreeStructure
			}
		}
		if err := store.Put(p, n); nil != err {
			return nil, err
		}
	}
	if err := store.Commit(version + 1); nil != err {
		return nil, err
	}

	t := &Tree{
		store:   store,
		version: version,
	}
	if _, err := t.Aggregation(); nil != err {
		return nil, err
	}
	return t, nil
}
