// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

var varint64Tests = []struct {
	value   uint64
	encoded []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{255, []byte{0xff, 0x01}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0x7fffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
	{0x8000000000000000, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
}

func TestVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		assert.Equal(t, item.encoded, util.ToVarint64(item.value), "%d: wrong encoding", i)

		buffer := append(append([]byte{}, item.encoded...), 0xff, 0x23)
		value, n := util.FromVarint64(buffer)
		assert.Equal(t, item.value, value, "%d: wrong value", i)
		assert.Equal(t, len(item.encoded), n, "%d: wrong count", i)
	}
}

func TestVarint64Truncated(t *testing.T) {
	for i, b := range [][]byte{{}, {0x80}, {0xff, 0xff}} {
		value, n := util.FromVarint64(b)
		assert.Equal(t, uint64(0), value, "%d: value from truncated", i)
		assert.Equal(t, 0, n, "%d: count from truncated", i)
	}
}

func TestSignedVarint64(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 63, -64, 150, -150, 1 << 40, -(1 << 62)} {
		value, n := util.FromSignedVarint64(util.ToSignedVarint64(v))
		assert.Equal(t, v, value, "wrong signed value")
		assert.NotEqual(t, 0, n, "zero count")
	}
	assert.Equal(t, []byte{0x01}, util.ToSignedVarint64(-1), "-1 is not short")
}

func TestUnpacker(t *testing.T) {
	buffer := util.AppendVarint(nil, 300)
	buffer = util.AppendSigned(buffer, -5)
	buffer = util.AppendString(buffer, "grain")
	buffer = append(buffer, 0x42)

	u := util.NewUnpacker(buffer)

	v, err := u.Varint()
	assert.Nil(t, err, "varint error")
	assert.Equal(t, uint64(300), v, "wrong varint")

	s, err := u.Signed()
	assert.Nil(t, err, "signed error")
	assert.Equal(t, int64(-5), s, "wrong signed")

	str, err := u.String()
	assert.Nil(t, err, "string error")
	assert.Equal(t, "grain", str, "wrong string")

	b, err := u.Byte()
	assert.Nil(t, err, "byte error")
	assert.Equal(t, byte(0x42), b, "wrong byte")
	assert.Equal(t, 0, u.Remaining(), "data left over")

	_, err = u.Byte()
	assert.Equal(t, fault.ErrTruncated, err, "read past end")
}

func TestUnpackerShortBytes(t *testing.T) {
	buffer := util.AppendVarint(nil, 10)
	buffer = append(buffer, 1, 2, 3)

	u := util.NewUnpacker(buffer)
	_, err := u.Bytes()
	assert.Equal(t, fault.ErrTruncated, err, "short bytes accepted")
	assert.Equal(t, 0, u.Offset(), "offset moved on error")
}
