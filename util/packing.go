// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"math"

	"github.com/bitmark-inc/bverifyd/fault"
)

// AppendVarint - append an unsigned varint
func AppendVarint(buffer []byte, value uint64) []byte {
	return append(buffer, ToVarint64(value)...)
}

// AppendSigned - append a zig-zag varint
func AppendSigned(buffer []byte, value int64) []byte {
	return append(buffer, ToSignedVarint64(value)...)
}

// AppendBytes - append a length prefixed byte slice
func AppendBytes(buffer []byte, data []byte) []byte {
	buffer = append(buffer, ToVarint64(uint64(len(data)))...)
	return append(buffer, data...)
}

// AppendString - append a length prefixed string
func AppendString(buffer []byte, s string) []byte {
	return AppendBytes(buffer, []byte(s))
}

// Unpacker - sequential reader over packed data
//
// every read either consumes exactly the bytes of one item or
// returns an error and leaves the position unchanged
type Unpacker struct {
	buffer []byte
	offset int
}

// NewUnpacker - start reading at the beginning of buffer
func NewUnpacker(buffer []byte) *Unpacker {
	return &Unpacker{buffer: buffer}
}

// Offset - number of bytes consumed so far
func (u *Unpacker) Offset() int {
	return u.offset
}

// Remaining - number of unread bytes
func (u *Unpacker) Remaining() int {
	return len(u.buffer) - u.offset
}

// Varint - read an unsigned varint
func (u *Unpacker) Varint() (uint64, error) {
	value, n := FromVarint64(u.buffer[u.offset:])
	if 0 == n {
		return 0, fault.ErrTruncated
	}
	u.offset += n
	return value, nil
}

// Signed - read a zig-zag varint
func (u *Unpacker) Signed() (int64, error) {
	value, n := FromSignedVarint64(u.buffer[u.offset:])
	if 0 == n {
		return 0, fault.ErrTruncated
	}
	u.offset += n
	return value, nil
}

// Int - read an unsigned varint that must fit a non-negative int
func (u *Unpacker) Int() (int, error) {
	start := u.offset
	value, err := u.Varint()
	if nil != err {
		return 0, err
	}
	if value > math.MaxInt32 {
		u.offset = start
		return 0, fault.ErrVarintOverflow
	}
	return int(value), nil
}

// Byte - read a single byte
func (u *Unpacker) Byte() (byte, error) {
	if u.Remaining() < 1 {
		return 0, fault.ErrTruncated
	}
	b := u.buffer[u.offset]
	u.offset += 1
	return b, nil
}

// Fixed - read exactly n bytes, the result is a copy
func (u *Unpacker) Fixed(n int) ([]byte, error) {
	if n < 0 || u.Remaining() < n {
		return nil, fault.ErrTruncated
	}
	result := make([]byte, n)
	copy(result, u.buffer[u.offset:])
	u.offset += n
	return result, nil
}

// Bytes - read a length prefixed byte slice, the result is a copy
func (u *Unpacker) Bytes() ([]byte, error) {
	start := u.offset
	n, err := u.Int()
	if nil != err {
		return nil, err
	}
	data, err := u.Fixed(n)
	if nil != err {
		u.offset = start
		return nil, err
	}
	return data, nil
}

// String - read a length prefixed string
func (u *Unpacker) String() (string, error) {
	data, err := u.Bytes()
	if nil != err {
		return "", err
	}
	return string(data), nil
}
