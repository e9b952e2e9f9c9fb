// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregation

import (
	"crypto/sha256"
	"fmt"

	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/bverifyd/util"
)

// Aggregation - attributes and hash of a subtree
type Aggregation struct {
	Numerical   *attributes.Numerical   `json:"numerical"`
	Categorical *attributes.Categorical `json:"categorical"`
	Hash        Digest                  `json:"hash"`
}

// Empty - the neutral element: zero attributes and the null hash
func Empty(numericalLength int, categoricalLength int) *Aggregation {
	return &Aggregation{
		Numerical:   attributes.NewNumerical(numericalLength),
		Categorical: attributes.NewCategorical(categoricalLength),
		Hash:        NullDigest,
	}
}

// Leaf - aggregation of a single record
func Leaf(r record.Record) (*Aggregation, error) {
	packed, err := r.Pack()
	if nil != err {
		return nil, err
	}
	return &Aggregation{
		Numerical:   r.NumericalAttributes(),
		Categorical: r.CategoricalAttributes(),
		Hash:        NewDigest(packed),
	}, nil
}

// Combine - aggregation of an interior node
//
// a nil child is the empty aggregation shaped like its sibling
func Combine(left *Aggregation, right *Aggregation) (*Aggregation, error) {
	switch {
	case nil == left && nil == right:
		left = Empty(attributes.DefaultNumericalLength, attributes.DefaultCategoricalLength)
		right = left
	case nil == left:
		left = Empty(right.Numerical.Len(), right.Categorical.Len())
	case nil == right:
		right = Empty(left.Numerical.Len(), left.Categorical.Len())
	}

	numerical, err := left.Numerical.Add(right.Numerical)
	if nil != err {
		return nil, err
	}
	categorical, err := left.Categorical.Or(right.Categorical)
	if nil != err {
		return nil, err
	}

	return &Aggregation{
		Numerical:   numerical,
		Categorical: categorical,
		Hash:        ComputeHash(numerical, categorical, left.Hash, right.Hash),
	}, nil
}

// ComputeHash - the interior node hash rule
func ComputeHash(numerical *attributes.Numerical, categorical *attributes.Categorical, leftHash Digest, rightHash Digest) Digest {
	h := sha256.New()
	h.Write(numerical.Bytes())
	h.Write(categorical.Bytes())
	h.Write(leftHash[:])
	h.Write(rightHash[:])

	var digest Digest
	copy(digest[:], h.Sum(nil))
	return digest
}

// Copy - independent copy
func (a *Aggregation) Copy() *Aggregation {
	return &Aggregation{
		Numerical:   a.Numerical.Copy(),
		Categorical: a.Categorical.Copy(),
		Hash:        a.Hash,
	}
}

// Equal - same attributes and hash
func (a *Aggregation) Equal(other *Aggregation) bool {
	if nil == a || nil == other {
		return a == other
	}
	return a.Hash == other.Hash &&
		a.Numerical.Equal(other.Numerical) &&
		a.Categorical.Equal(other.Categorical)
}

// Pack - numerical ++ categorical ++ hash
func (a *Aggregation) Pack() []byte {
	buffer := a.Numerical.Pack()
	buffer = append(buffer, a.Categorical.Pack()...)
	return append(buffer, a.Hash[:]...)
}

// Unpack - read a packed aggregation
//
// returns the aggregation and the number of bytes consumed
func Unpack(buffer []byte) (*Aggregation, int, error) {
	numerical, n, err := attributes.UnpackNumerical(buffer)
	if nil != err {
		return nil, 0, err
	}
	categorical, c, err := attributes.UnpackCategorical(buffer[n:])
	if nil != err {
		return nil, 0, err
	}
	u := util.NewUnpacker(buffer[n+c:])
	hash, err := u.Fixed(DigestLength)
	if nil != err {
		return nil, 0, err
	}

	a := &Aggregation{
		Numerical:   numerical,
		Categorical: categorical,
	}
	copy(a.Hash[:], hash)
	return a, n + c + DigestLength, nil
}

// String - for debugging
func (a *Aggregation) String() string {
	return fmt.Sprintf("{%s %s %s}", a.Numerical, a.Categorical, a.Hash)
}
