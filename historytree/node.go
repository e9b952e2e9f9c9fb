// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package historytree

import (
	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/bverifyd/util"
)

// Node - one entry in a store
//
//   leaf:     Value set, Agg optionally caches Leaf(Value)
//   stub:     Stub set, Agg is the only content
//   interior: neither, Agg optionally caches the frozen aggregation
type Node struct {
	Agg   *aggregation.Aggregation
	Value record.Record
	Stub  bool
}

// encoded node kinds
const (
	interiorKind = byte(0)
	stubKind     = byte(1)
	leafKind     = byte(2)

	// set when a cached aggregation follows the payload
	cachedFlag = byte(0x80)
)

func (n *Node) kind() byte {
	switch {
	case n.Stub:
		return stubKind
	case nil != n.Value:
		return leafKind
	default:
		return interiorKind
	}
}

// Pack - kind byte followed by the payload
//
// cached aggregations are only written when withCache is set, the
// wire form never carries them
func (n *Node) Pack(withCache bool) ([]byte, error) {
	kind := n.kind()
	cached := withCache && !n.Stub && nil != n.Agg
	if cached {
		kind |= cachedFlag
	}

	buffer := []byte{kind}
	switch kind &^ cachedFlag {
	case stubKind:
		if nil == n.Agg {
			return nil, fault.ErrMissingTreeData
		}
		buffer = append(buffer, n.Agg.Pack()...)
	case leafKind:
		packed, err := n.Value.Pack()
		if nil != err {
			return nil, err
		}
		buffer = util.AppendBytes(buffer, packed)
	}
	if cached {
		buffer = append(buffer, n.Agg.Pack()...)
	}
	return buffer, nil
}

// UnpackNode - read a node at the given layer
//
// returns the node and the number of bytes consumed
func UnpackNode(layer uint, buffer []byte, withCache bool) (*Node, int, error) {
	u := util.NewUnpacker(buffer)
	kind, err := u.Byte()
	if nil != err {
		return nil, 0, err
	}
	cached := 0 != kind&cachedFlag
	if cached && !withCache {
		return nil, 0, fault.ErrInvalidTreeStructure
	}

	n := &Node{}
	offset := u.Offset()

	switch kind &^ cachedFlag {
	case interiorKind:
		if 0 == layer {
			return nil, 0, fault.ErrInvalidTreeStructure
		}

	case stubKind:
		if cached {
			return nil, 0, fault.ErrInvalidTreeStructure
		}
		a, size, err := aggregation.Unpack(buffer[offset:])
		if nil != err {
			return nil, 0, err
		}
		n.Stub = true
		n.Agg = a
		offset += size

	case leafKind:
		if 0 != layer {
			return nil, 0, fault.ErrInvalidTreeStructure
		}
		packed, err := u.Bytes()
		if nil != err {
			return nil, 0, err
		}
		r, err := record.FromBytes(packed)
		if nil != err {
			return nil, 0, err
		}
		n.Value = r
		offset = u.Offset()

	default:
		return nil, 0, fault.ErrInvalidTreeStructure
	}

	if cached {
		a, size, err := aggregation.Unpack(buffer[offset:])
		if nil != err {
			return nil, 0, err
		}
		n.Agg = a
		offset += size
	}
	return n, offset, nil
}

// copy of the node structure, aggregation and record are shared as
// neither is modified in place
func (n *Node) clone() *Node {
	c := *n
	return &c
}
