// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/historytree"
	"github.com/bitmark-inc/bverifyd/util"
)

// TagType - first byte of a packed proof
type TagType byte

// proof types
const (
	RecordTag      = TagType(1)
	ConsistencyTag = TagType(2)
	AggregationTag = TagType(3)
	QueryTag       = TagType(4)
)

// Proof - common operations
type Proof interface {
	Tag() TagType
	Pack() ([]byte, error)
	Size() int
}

// Unpack - decode any proof, caller switches on the type
func Unpack(buffer []byte) (Proof, error) {
	if 0 == len(buffer) {
		return nil, fault.ErrTruncated
	}
	switch TagType(buffer[0]) {
	case RecordTag:
		return UnpackRecordProof(buffer)
	case ConsistencyTag:
		return UnpackConsistencyProof(buffer)
	case AggregationTag:
		return UnpackAggregationProof(buffer)
	case QueryTag:
		return UnpackCategoricalQueryProof(buffer)
	default:
		return nil, fault.ErrInvalidProofType
	}
}

func size(p Proof) int {
	packed, err := p.Pack()
	if nil != err {
		return 0
	}
	return len(packed)
}

// reader positioned after a matching tag byte
func newReader(buffer []byte, tag TagType) (*util.Unpacker, error) {
	u := util.NewUnpacker(buffer)
	b, err := u.Byte()
	if nil != err {
		return nil, err
	}
	if tag != TagType(b) {
		return nil, fault.ErrInvalidProofType
	}
	return u, nil
}

func readTree(u *util.Unpacker) (*historytree.Tree, error) {
	packed, err := u.Bytes()
	if nil != err {
		return nil, err
	}
	return historytree.Unpack(historytree.NewMemoryStore(), packed)
}

func appendTree(buffer []byte, tree *historytree.Tree) ([]byte, error) {
	packed, err := tree.Pack()
	if nil != err {
		return nil, err
	}
	return util.AppendBytes(buffer, packed), nil
}

func readIndices(u *util.Unpacker) ([]int, error) {
	count, err := u.Int()
	if nil != err {
		return nil, err
	}
	if count > u.Remaining() {
		return nil, fault.ErrInvalidCount
	}
	indices := make([]int, count)
	for i := range indices {
		indices[i], err = u.Int()
		if nil != err {
			return nil, err
		}
	}
	return indices, nil
}

func appendIndices(buffer []byte, indices []int) []byte {
	buffer = util.AppendVarint(buffer, uint64(len(indices)))
	for _, i := range indices {
		buffer = util.AppendVarint(buffer, uint64(i))
	}
	return buffer
}

func finished(u *util.Unpacker) error {
	if 0 != u.Remaining() {
		return fault.ErrTrailingData
	}
	return nil
}
