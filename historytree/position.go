// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package historytree

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/bitmark-inc/bverifyd/fault"
)

// maximum tree height
const maximumLayer = 62

// number of bytes in a position key
const positionKeyLength = 9

// Position - location of a node
type Position struct {
	Layer uint
	Index uint64
}

// RootPosition - root of the tree at a version
func RootPosition(version int) Position {
	return Position{
		Layer: uint(bits.Len64(uint64(version))),
		Index: 0,
	}
}

// First - first leaf covered
func (p Position) First() uint64 {
	return p.Index << p.Layer
}

// Last - last leaf covered
func (p Position) Last() uint64 {
	return ((p.Index + 1) << p.Layer) - 1
}

// Covers - leaf is below this node
func (p Position) Covers(leaf uint64) bool {
	return p.First() <= leaf && leaf <= p.Last()
}

// Left - left child
func (p Position) Left() Position {
	return Position{Layer: p.Layer - 1, Index: p.Index << 1}
}

// Right - right child
func (p Position) Right() Position {
	return Position{Layer: p.Layer - 1, Index: p.Index<<1 | 1}
}

// Parent - node above
func (p Position) Parent() Position {
	return Position{Layer: p.Layer + 1, Index: p.Index >> 1}
}

// Bytes - storage key, layer byte then big endian index so that
// keys sort by layer then index
func (p Position) Bytes() []byte {
	key := make([]byte, positionKeyLength)
	key[0] = byte(p.Layer)
	binary.BigEndian.PutUint64(key[1:], p.Index)
	return key
}

// PositionFromBytes - reverse of Bytes
func PositionFromBytes(key []byte) (Position, error) {
	if positionKeyLength != len(key) || key[0] > maximumLayer {
		return Position{}, fault.ErrInvalidTreeStructure
	}
	return Position{
		Layer: uint(key[0]),
		Index: binary.BigEndian.Uint64(key[1:]),
	}, nil
}

// String - for debugging
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Layer, p.Index)
}
