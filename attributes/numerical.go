// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package attributes

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

// slots used by financial records
const (
	TotalAmount = 0
	NetAmount   = 1

	DefaultNumericalLength = 2
)

// limit on decoded vectors
const maximumNumericalLength = 1 << 12

// Numerical - fixed length vector of signed amounts
type Numerical struct {
	values []int64
}

// NewNumerical - all slots zero
func NewNumerical(length int) *Numerical {
	if length < 0 {
		length = 0
	}
	return &Numerical{
		values: make([]int64, length),
	}
}

// NewNumericalFrom - slots taken from the arguments in order
func NewNumericalFrom(values ...int64) *Numerical {
	n := NewNumerical(len(values))
	copy(n.values, values)
	return n
}

// Len - number of slots
func (n *Numerical) Len() int {
	return len(n.values)
}

// Get - read one slot, out of range slots read as zero
func (n *Numerical) Get(i int) int64 {
	if i < 0 || i >= len(n.values) {
		return 0
	}
	return n.values[i]
}

// Set - change one slot
func (n *Numerical) Set(i int, value int64) error {
	if i < 0 || i >= len(n.values) {
		return fault.ErrAttributeIndexOutOfRange
	}
	n.values[i] = value
	return nil
}

// Values - copy of all slots
func (n *Numerical) Values() []int64 {
	result := make([]int64, len(n.values))
	copy(result, n.values)
	return result
}

// Copy - independent duplicate
func (n *Numerical) Copy() *Numerical {
	return NewNumericalFrom(n.values...)
}

// Add - elementwise sum of two vectors of the same length
func (n *Numerical) Add(other *Numerical) (*Numerical, error) {
	if len(n.values) != len(other.values) {
		return nil, fault.ErrShapeMismatch
	}
	result := NewNumerical(len(n.values))
	for i, v := range n.values {
		result.values[i] = v + other.values[i]
	}
	return result, nil
}

// Equal - same length and same values
func (n *Numerical) Equal(other *Numerical) bool {
	if nil == n || nil == other {
		return n == other
	}
	if len(n.values) != len(other.values) {
		return false
	}
	for i, v := range n.values {
		if v != other.values[i] {
			return false
		}
	}
	return true
}

// Bytes - each slot as 8 byte big endian, slot 0 first
func (n *Numerical) Bytes() []byte {
	result := make([]byte, 8*len(n.values))
	for i, v := range n.values {
		binary.BigEndian.PutUint64(result[8*i:], uint64(v))
	}
	return result
}

// Pack - length ++ bytes
func (n *Numerical) Pack() []byte {
	buffer := util.AppendVarint(nil, uint64(len(n.values)))
	return append(buffer, n.Bytes()...)
}

// UnpackNumerical - read a packed vector
//
// returns the vector and the number of bytes consumed
func UnpackNumerical(buffer []byte) (*Numerical, int, error) {
	u := util.NewUnpacker(buffer)
	length, err := u.Int()
	if nil != err {
		return nil, 0, err
	}
	if length > maximumNumericalLength {
		return nil, 0, fault.ErrVarintOverflow
	}
	data, err := u.Fixed(8 * length)
	if nil != err {
		return nil, 0, err
	}
	n := NewNumerical(length)
	for i := range n.values {
		n.values[i] = int64(binary.BigEndian.Uint64(data[8*i:]))
	}
	return n, u.Offset(), nil
}

// String - values in slot order
func (n *Numerical) String() string {
	return fmt.Sprint(n.values)
}

// MarshalJSON - values as a JSON array
func (n Numerical) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.values)
}
