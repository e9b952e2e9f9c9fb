// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/bverifyd/util"
)

// what follows the root aggregation in the packed form
const (
	childrenFollow = byte(0)
	leafFollows    = byte(1)
)

// AggregationProof - root aggregation at a commitment
//
// only the children's hashes are kept, enough to bind the attributes
// to the root hash, a single leaf root has no children so its record
// is sent instead
type AggregationProof struct {
	commitmentNumber int
	main             *aggregation.Aggregation
	leftHash         aggregation.Digest
	rightHash        aggregation.Digest
	leaf             record.Record
}

// NewAggregationProof - from the root and its children
func NewAggregationProof(commitmentNumber int, main *aggregation.Aggregation, left *aggregation.Aggregation, right *aggregation.Aggregation) (*AggregationProof, error) {
	if commitmentNumber < 0 || nil == main || nil == left || nil == right {
		return nil, fault.ErrMissingParameters
	}
	return &AggregationProof{
		commitmentNumber: commitmentNumber,
		main:             main.Copy(),
		leftHash:         left.Hash,
		rightHash:        right.Hash,
	}, nil
}

// NewLeafAggregationProof - for a commitment covering only record 0
func NewLeafAggregationProof(commitmentNumber int, main *aggregation.Aggregation, leaf record.Record) (*AggregationProof, error) {
	if commitmentNumber < 0 || nil == main || nil == leaf {
		return nil, fault.ErrMissingParameters
	}
	return &AggregationProof{
		commitmentNumber: commitmentNumber,
		main:             main.Copy(),
		leaf:             leaf,
	}, nil
}

// Aggregation - copy of the root aggregation
func (p *AggregationProof) Aggregation() *aggregation.Aggregation {
	return p.main.Copy()
}

// CommitmentNumber - commitment the proof is against
func (p *AggregationProof) CommitmentNumber() int {
	return p.commitmentNumber
}

// Check - attributes are bound to the hash and the hash was committed
func (p *AggregationProof) Check(digest aggregation.Digest) bool {
	if nil != p.leaf {
		a, err := aggregation.Leaf(p.leaf)
		if nil != err || !a.Equal(p.main) {
			return false
		}
		return p.main.Hash == digest
	}

	computed := aggregation.ComputeHash(p.main.Numerical, p.main.Categorical, p.leftHash, p.rightHash)
	if computed != p.main.Hash {
		return false
	}
	return p.main.Hash == digest
}

// Tag - proof type
func (p *AggregationProof) Tag() TagType {
	return AggregationTag
}

// Pack - tag, commitment number, root, then either 0, left hash,
// right hash or 1, packed leaf record
func (p *AggregationProof) Pack() ([]byte, error) {
	buffer := []byte{byte(AggregationTag)}
	buffer = util.AppendVarint(buffer, uint64(p.commitmentNumber))
	buffer = append(buffer, p.main.Pack()...)
	if nil != p.leaf {
		packed, err := p.leaf.Pack()
		if nil != err {
			return nil, err
		}
		buffer = append(buffer, leafFollows)
		return util.AppendBytes(buffer, packed), nil
	}
	buffer = append(buffer, childrenFollow)
	buffer = append(buffer, p.leftHash[:]...)
	return append(buffer, p.rightHash[:]...), nil
}

// Size - number of packed bytes
func (p *AggregationProof) Size() int {
	return size(p)
}

// UnpackAggregationProof - decode a packed aggregation proof
func UnpackAggregationProof(buffer []byte) (*AggregationProof, error) {
	u, err := newReader(buffer, AggregationTag)
	if nil != err {
		return nil, err
	}
	commitmentNumber, err := u.Int()
	if nil != err {
		return nil, err
	}
	main, n, err := aggregation.Unpack(buffer[u.Offset():])
	if nil != err {
		return nil, err
	}
	if _, err := u.Fixed(n); nil != err {
		return nil, err
	}
	follows, err := u.Byte()
	if nil != err {
		return nil, err
	}

	if leafFollows == follows {
		packed, err := u.Bytes()
		if nil != err {
			return nil, err
		}
		if err := finished(u); nil != err {
			return nil, err
		}
		leaf, err := record.FromBytes(packed)
		if nil != err {
			return nil, err
		}
		return &AggregationProof{
			commitmentNumber: commitmentNumber,
			main:             main,
			leaf:             leaf,
		}, nil
	}
	if childrenFollow != follows {
		return nil, fault.ErrInvalidProofType
	}

	left, err := u.Fixed(aggregation.DigestLength)
	if nil != err {
		return nil, err
	}
	right, err := u.Fixed(aggregation.DigestLength)
	if nil != err {
		return nil, err
	}
	if err := finished(u); nil != err {
		return nil, err
	}

	p := &AggregationProof{
		commitmentNumber: commitmentNumber,
		main:             main,
	}
	copy(p.leftHash[:], left)
	copy(p.rightHash[:], right)
	return p, nil
}
