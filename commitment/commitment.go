// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commitment

import (
	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

// Commitment - a sealed log prefix
type Commitment struct {
	Number      int                `json:"number"`
	RecordIndex int                `json:"recordIndex"`
	Digest      aggregation.Digest `json:"digest"`
}

// Pack - number, record index, digest
func (c Commitment) Pack() []byte {
	buffer := util.AppendVarint(nil, uint64(c.Number))
	buffer = util.AppendVarint(buffer, uint64(c.RecordIndex))
	return append(buffer, c.Digest[:]...)
}

// Unpack - reverse of Pack, the whole buffer must be used
func Unpack(buffer []byte) (Commitment, error) {
	u := util.NewUnpacker(buffer)
	number, err := u.Int()
	if nil != err {
		return Commitment{}, err
	}
	recordIndex, err := u.Int()
	if nil != err {
		return Commitment{}, err
	}
	digest, err := u.Fixed(aggregation.DigestLength)
	if nil != err {
		return Commitment{}, err
	}
	if 0 != u.Remaining() {
		return Commitment{}, fault.ErrTrailingData
	}

	c := Commitment{
		Number:      number,
		RecordIndex: recordIndex,
	}
	copy(c.Digest[:], digest)
	return c, nil
}
