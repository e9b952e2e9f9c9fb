// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package attributes

import (
	"bytes"

	"github.com/bits-and-blooms/bitset"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

// DefaultCategoricalLength - number of flags on financial records
const DefaultCategoricalLength = 64

// limit on decoded vectors
const maximumCategoricalLength = 1 << 16

// Categorical - fixed length bit vector
type Categorical struct {
	bits *bitset.BitSet
}

// NewCategorical - all flags clear
func NewCategorical(length int) *Categorical {
	if length < 0 {
		length = 0
	}
	return &Categorical{
		bits: bitset.New(uint(length)),
	}
}

// NewCategoricalWith - set the listed flags
func NewCategoricalWith(length int, set ...int) (*Categorical, error) {
	c := NewCategorical(length)
	for _, i := range set {
		if err := c.Set(i, true); nil != err {
			return nil, err
		}
	}
	return c, nil
}

// Len - number of flags
func (c *Categorical) Len() int {
	return int(c.bits.Len())
}

// Get - read one flag, out of range flags read as false
func (c *Categorical) Get(i int) bool {
	if i < 0 || i >= c.Len() {
		return false
	}
	return c.bits.Test(uint(i))
}

// Set - change one flag
//
// the vector never grows
func (c *Categorical) Set(i int, value bool) error {
	if i < 0 || i >= c.Len() {
		return fault.ErrAttributeIndexOutOfRange
	}
	c.bits.SetTo(uint(i), value)
	return nil
}

// Count - number of flags set
func (c *Categorical) Count() int {
	return int(c.bits.Count())
}

// Copy - independent duplicate
func (c *Categorical) Copy() *Categorical {
	return &Categorical{
		bits: c.bits.Clone(),
	}
}

// Or - union of two vectors of the same length
func (c *Categorical) Or(other *Categorical) (*Categorical, error) {
	if c.Len() != other.Len() {
		return nil, fault.ErrShapeMismatch
	}
	return &Categorical{bits: c.bits.Union(other.bits)}, nil
}

// And - intersection of two vectors of the same length
func (c *Categorical) And(other *Categorical) (*Categorical, error) {
	if c.Len() != other.Len() {
		return nil, fault.ErrShapeMismatch
	}
	return &Categorical{bits: c.bits.Intersection(other.bits)}, nil
}

// Xor - symmetric difference of two vectors of the same length
func (c *Categorical) Xor(other *Categorical) (*Categorical, error) {
	if c.Len() != other.Len() {
		return nil, fault.ErrShapeMismatch
	}
	return &Categorical{bits: c.bits.SymmetricDifference(other.bits)}, nil
}

// Contains - true if every flag set in filter is also set here
//
// vectors of different lengths never contain each other
func (c *Categorical) Contains(filter *Categorical) bool {
	if nil == filter || c.Len() != filter.Len() {
		return false
	}
	return c.bits.IsSuperSet(filter.bits)
}

// Equal - same length and same flags
func (c *Categorical) Equal(other *Categorical) bool {
	if nil == c || nil == other {
		return c == other
	}
	return c.Len() == other.Len() && bytes.Equal(c.Bytes(), other.Bytes())
}

// Bytes - fixed length serialisation
//
// ceil(n/8) bytes, flag i is bit (i mod 8) of byte (i div 8)
func (c *Categorical) Bytes() []byte {
	n := c.Len()
	result := make([]byte, (n+7)/8)
	for i, ok := c.bits.NextSet(0); ok && int(i) < n; i, ok = c.bits.NextSet(i + 1) {
		result[i/8] |= 1 << (i % 8)
	}
	return result
}

// Pack - length ++ bytes
func (c *Categorical) Pack() []byte {
	buffer := util.AppendVarint(nil, uint64(c.Len()))
	return append(buffer, c.Bytes()...)
}

// UnpackCategorical - read a packed vector
//
// returns the vector and the number of bytes consumed
func UnpackCategorical(buffer []byte) (*Categorical, int, error) {
	u := util.NewUnpacker(buffer)
	n, err := u.Int()
	if nil != err {
		return nil, 0, err
	}
	if n > maximumCategoricalLength {
		return nil, 0, fault.ErrVarintOverflow
	}
	data, err := u.Fixed((n + 7) / 8)
	if nil != err {
		return nil, 0, err
	}

	c := NewCategorical(n)
	for i := 0; i < n; i += 1 {
		if 0 != data[i/8]&(1<<uint(i%8)) {
			c.bits.Set(uint(i))
		}
	}

	// padding bits must be clear so that each vector has one encoding
	if 0 != n%8 && 0 != data[len(data)-1]>>uint(n%8) {
		return nil, 0, fault.ErrInvalidPadding
	}
	return c, u.Offset(), nil
}

// String - flags as a compact bit string, flag 0 first
func (c *Categorical) String() string {
	b := make([]byte, c.Len())
	for i := range b {
		b[i] = '0'
		if c.Get(i) {
			b[i] = '1'
		}
	}
	return string(b)
}

// MarshalText - the bit string form for JSON output
func (c Categorical) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
