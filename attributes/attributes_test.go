// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package attributes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
)

func TestCategoricalSetGet(t *testing.T) {
	c := attributes.NewCategorical(10)
	assert.Equal(t, 10, c.Len(), "wrong length")

	assert.Nil(t, c.Set(3, true), "set 3")
	assert.Nil(t, c.Set(9, true), "set 9")
	assert.True(t, c.Get(3), "bit 3")
	assert.False(t, c.Get(4), "bit 4")
	assert.Equal(t, 2, c.Count(), "wrong count")

	assert.Equal(t, fault.ErrAttributeIndexOutOfRange, c.Set(10, true), "set beyond length")
	assert.Equal(t, 10, c.Len(), "vector grew")
	assert.False(t, c.Get(64), "out of range read")

	assert.Nil(t, c.Set(3, false), "clear 3")
	assert.False(t, c.Get(3), "bit 3 still set")
}

func TestCategoricalCopyIsIndependent(t *testing.T) {
	c, err := attributes.NewCategoricalWith(8, 1)
	assert.Nil(t, err, "create")

	d := c.Copy()
	assert.Nil(t, d.Set(2, true), "set on copy")
	assert.False(t, c.Get(2), "copy shares storage")
	assert.True(t, d.Get(1), "copy lost bit")
}

func TestCategoricalLogic(t *testing.T) {
	a, _ := attributes.NewCategoricalWith(8, 0, 1)
	b, _ := attributes.NewCategoricalWith(8, 1, 2)

	or, err := a.Or(b)
	assert.Nil(t, err, "or")
	assert.Equal(t, "11100000", or.String(), "wrong or")

	and, err := a.And(b)
	assert.Nil(t, err, "and")
	assert.Equal(t, "01000000", and.String(), "wrong and")

	xor, err := a.Xor(b)
	assert.Nil(t, err, "xor")
	assert.Equal(t, "10100000", xor.String(), "wrong xor")

	assert.Equal(t, "11000000", a.String(), "operand changed")
}

func TestCategoricalShapeMismatch(t *testing.T) {
	a := attributes.NewCategorical(8)
	b := attributes.NewCategorical(9)

	_, err := a.Or(b)
	assert.Equal(t, fault.ErrShapeMismatch, err, "or")
	_, err = a.And(b)
	assert.Equal(t, fault.ErrShapeMismatch, err, "and")
	_, err = a.Xor(b)
	assert.Equal(t, fault.ErrShapeMismatch, err, "xor")
	assert.False(t, a.Equal(b), "different lengths equal")
	assert.False(t, a.Contains(b), "different lengths contain")
}

func TestCategoricalContains(t *testing.T) {
	record, _ := attributes.NewCategoricalWith(10, 0, 1, 2, 6)
	filter, _ := attributes.NewCategoricalWith(10, 0, 6)
	other, _ := attributes.NewCategoricalWith(10, 0, 9)

	assert.True(t, record.Contains(filter), "superset not detected")
	assert.False(t, record.Contains(other), "missing bit ignored")
	assert.True(t, record.Contains(attributes.NewCategorical(10)), "empty filter")
	assert.False(t, filter.Contains(record), "subset contains superset")
}

func TestCategoricalBytes(t *testing.T) {
	c, _ := attributes.NewCategoricalWith(10, 0, 3, 8)
	assert.Equal(t, []byte{0x09, 0x01}, c.Bytes(), "wrong bytes")
	assert.Equal(t, 8, len(attributes.NewCategorical(attributes.DefaultCategoricalLength).Bytes()), "default size")

	packed := c.Pack()
	d, n, err := attributes.UnpackCategorical(append(packed, 0xaa))
	assert.Nil(t, err, "unpack")
	assert.Equal(t, len(packed), n, "wrong count")
	assert.True(t, c.Equal(d), "unpacked differs")
}

func TestCategoricalBadPadding(t *testing.T) {
	_, _, err := attributes.UnpackCategorical([]byte{0x0a, 0x00, 0x04})
	assert.Equal(t, fault.ErrInvalidPadding, err, "padding accepted")

	_, _, err = attributes.UnpackCategorical([]byte{0x0a, 0x00})
	assert.Equal(t, fault.ErrTruncated, err, "truncated accepted")
}

func TestNumerical(t *testing.T) {
	a := attributes.NewNumericalFrom(100, 100)
	b := attributes.NewNumericalFrom(50, 0)

	sum, err := a.Add(b)
	assert.Nil(t, err, "add")
	assert.Equal(t, []int64{150, 100}, sum.Values(), "wrong sum")
	assert.Equal(t, int64(100), a.Get(attributes.TotalAmount), "operand changed")

	values := sum.Values()
	values[0] = 1
	assert.Equal(t, int64(150), sum.Get(0), "values not copied")

	_, err = a.Add(attributes.NewNumerical(3))
	assert.Equal(t, fault.ErrShapeMismatch, err, "shape mismatch")

	assert.Equal(t, fault.ErrAttributeIndexOutOfRange, a.Set(2, 1), "set beyond length")
	assert.Equal(t, int64(0), a.Get(5), "out of range read")
}

func TestNumericalBytes(t *testing.T) {
	n := attributes.NewNumericalFrom(1, -1)
	assert.Equal(t, []byte{
		0, 0, 0, 0, 0, 0, 0, 1,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}, n.Bytes(), "wrong bytes")

	m, count, err := attributes.UnpackNumerical(n.Pack())
	assert.Nil(t, err, "unpack")
	assert.Equal(t, 17, count, "wrong count")
	assert.True(t, n.Equal(m), "unpacked differs")
	assert.False(t, n.Equal(attributes.NewNumericalFrom(1, -1, 0)), "different lengths equal")
}
