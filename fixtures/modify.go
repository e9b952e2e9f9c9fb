// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/record"
)

// WithAmount - copy of a record with a different amount, signatures
// are carried over unchanged so a signed record becomes invalid
func WithAmount(r record.Record, amount int64) record.Record {
	switch r := r.(type) {
	case *record.SimpleRecord:
		c := *r
		c.Numerical = attributes.NewNumericalFrom(amount, amount)
		return &c
	case *record.Deposit:
		c := *r
		c.Amount = amount
		return &c
	case *record.Withdrawal:
		c := *r
		c.Amount = amount
		return &c
	case *record.Transfer:
		c := *r
		c.Amount = amount
		return &c
	default:
		return r
	}
}

// WithFlag - copy of a record with one more categorical flag set
func WithFlag(r record.Record, flag int) record.Record {
	categories := r.CategoricalAttributes()
	if err := categories.Set(flag, true); nil != err {
		panic(err)
	}
	switch r := r.(type) {
	case *record.SimpleRecord:
		c := *r
		c.Categorical = categories
		return &c
	case *record.Deposit:
		c := *r
		c.Categories = categories
		return &c
	case *record.Withdrawal:
		c := *r
		c.Categories = categories
		return &c
	case *record.Transfer:
		c := *r
		c.Categories = categories
		return &c
	default:
		return r
	}
}
