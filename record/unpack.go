// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"time"

	"github.com/bitmark-inc/bverifyd/account"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

// FromBytes - unpack a buffer holding exactly one record
func FromBytes(buffer []byte) (Record, error) {
	r, n, err := Packed(buffer).Unpack()
	if nil != err {
		return nil, err
	}
	if n != len(buffer) {
		return nil, fault.ErrTrailingData
	}
	return r, nil
}

// Unpack - turn a byte slice into a record
//
// returns the record and the number of bytes consumed,
// must cast result to correct type
//
// e.g.
//   switch r := result.(type) {
//   case *record.Deposit:
func (record Packed) Unpack() (Record, int, error) {
	u := util.NewUnpacker(record)

	tag, err := u.Varint()
	if nil != err {
		return nil, 0, err
	}

	switch TagType(tag) {

	case SimpleTag:
		categorical, err := unpackCategorical(u, record)
		if nil != err {
			return nil, 0, err
		}
		numerical, n, err := attributes.UnpackNumerical(record[u.Offset():])
		if nil != err {
			return nil, 0, err
		}
		if _, err := u.Fixed(n); nil != err {
			return nil, 0, err
		}
		timestamp, err := unpackTimestamp(u)
		if nil != err {
			return nil, 0, err
		}
		r := &SimpleRecord{
			Categorical: categorical,
			Numerical:   numerical,
			Timestamp:   timestamp,
		}
		return r, u.Offset(), nil

	case DepositTag:
		c, err := unpackChange(u, record)
		if nil != err {
			return nil, 0, err
		}
		r := &Deposit{
			GoodType:           c.goodType,
			Amount:             c.amount,
			Recipient:          c.first,
			Employee:           c.second,
			Timestamp:          c.timestamp,
			Categories:         c.categories,
			RecipientSignature: c.firstSignature,
			EmployeeSignature:  c.secondSignature,
		}
		return r, u.Offset(), nil

	case WithdrawalTag:
		c, err := unpackChange(u, record)
		if nil != err {
			return nil, 0, err
		}
		r := &Withdrawal{
			GoodType:           c.goodType,
			Amount:             c.amount,
			Recipient:          c.first,
			Employee:           c.second,
			Timestamp:          c.timestamp,
			Categories:         c.categories,
			RecipientSignature: c.firstSignature,
			EmployeeSignature:  c.secondSignature,
		}
		return r, u.Offset(), nil

	case TransferTag:
		c, err := unpackChange(u, record)
		if nil != err {
			return nil, 0, err
		}
		r := &Transfer{
			GoodType:           c.goodType,
			Amount:             c.amount,
			Sender:             c.first,
			Recipient:          c.second,
			Timestamp:          c.timestamp,
			Categories:         c.categories,
			SenderSignature:    c.firstSignature,
			RecipientSignature: c.secondSignature,
		}
		return r, u.Offset(), nil

	default:
		return nil, 0, fault.ErrUnknownRecordType
	}
}

type change struct {
	goodType        string
	amount          int64
	first           *account.Account
	second          *account.Account
	timestamp       time.Time
	categories      *attributes.Categorical
	firstSignature  account.Signature
	secondSignature account.Signature
}

func unpackChange(u *util.Unpacker, record Packed) (*change, error) {
	goodType, err := u.String()
	if nil != err {
		return nil, err
	}
	amount, err := u.Signed()
	if nil != err {
		return nil, err
	}
	first, err := unpackAccount(u)
	if nil != err {
		return nil, err
	}
	second, err := unpackAccount(u)
	if nil != err {
		return nil, err
	}
	timestamp, err := unpackTimestamp(u)
	if nil != err {
		return nil, err
	}
	categories, err := unpackCategorical(u, record)
	if nil != err {
		return nil, err
	}
	firstSignature, err := unpackSignature(u)
	if nil != err {
		return nil, err
	}
	secondSignature, err := unpackSignature(u)
	if nil != err {
		return nil, err
	}
	return &change{
		goodType:        goodType,
		amount:          amount,
		first:           first,
		second:          second,
		timestamp:       timestamp,
		categories:      categories,
		firstSignature:  firstSignature,
		secondSignature: secondSignature,
	}, nil
}

func unpackAccount(u *util.Unpacker) (*account.Account, error) {
	data, err := u.Bytes()
	if nil != err {
		return nil, err
	}
	if len(data) > maxAccountLength {
		return nil, fault.ErrInvalidAccount
	}
	return account.AccountFromBytes(data)
}

func unpackSignature(u *util.Unpacker) (account.Signature, error) {
	data, err := u.Bytes()
	if nil != err {
		return nil, err
	}
	if len(data) > maxSignatureLength {
		return nil, fault.ErrSignatureTooLong
	}
	if 0 == len(data) {
		return nil, nil
	}
	return account.Signature(data), nil
}

func unpackCategorical(u *util.Unpacker, record Packed) (*attributes.Categorical, error) {
	c, n, err := attributes.UnpackCategorical(record[u.Offset():])
	if nil != err {
		return nil, err
	}
	if _, err := u.Fixed(n); nil != err {
		return nil, err
	}
	return c, nil
}

func unpackTimestamp(u *util.Unpacker) (time.Time, error) {
	ns, err := u.Signed()
	if nil != err {
		return time.Time{}, err
	}
	return time.Unix(0, ns).UTC(), nil
}
