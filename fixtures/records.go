// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"time"

	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/record"
)

// fixed keys so that packed records are repeatable between runs
var (
	Alice    = mustKey("60b3c6e20cfff7091a86488b1656b96ec0a2f69907e2c035175918f42c37d72e")
	Bob      = mustKey("10ecf2e0d7d8a7a4a1bb2a6a35c1e05e0fa0aef4db0b3c3dc3e2fd2a4a4fbe51")
	Employee = mustKey("7a8d8a7f0d5bd0c1b1d2dcbcd36e9b3aa3ccde1eb8b1c1bcb1c0d9d5c6f07a11")
)

// Timestamp - creation time of every fixture record
var Timestamp = time.Date(2019, time.November, 5, 10, 30, 0, 0, time.UTC)

// GoodType - the warehouse good used by fixtures
const GoodType = "grain"

// SimpleRecord - record with the listed flags of a length 64 vector
// and amount in both numerical slots
func SimpleRecord(amount int64, flags ...int) *record.SimpleRecord {
	c, err := attributes.NewCategoricalWith(attributes.DefaultCategoricalLength, flags...)
	if nil != err {
		panic(err)
	}
	return &record.SimpleRecord{
		Categorical: c,
		Numerical:   attributes.NewNumericalFrom(amount, amount),
		Timestamp:   Timestamp,
	}
}

// PrefixRecords - count records where record i has flags 0 to i
func PrefixRecords(count int) []record.Record {
	records := make([]record.Record, count)
	for i := range records {
		flags := make([]int, i+1)
		for j := range flags {
			flags[j] = j
		}
		records[i] = SimpleRecord(int64(i+1), flags...)
	}
	return records
}

// Deposit - signed deposit for Alice
func Deposit(amount int64) *record.Deposit {
	d := &record.Deposit{
		GoodType:  GoodType,
		Amount:    amount,
		Recipient: Alice.Account(),
		Employee:  Employee.Account(),
		Timestamp: Timestamp,
	}
	if err := d.Sign(Alice, Employee); nil != err {
		panic(err)
	}
	return d
}

// Withdrawal - signed withdrawal for Alice
func Withdrawal(amount int64) *record.Withdrawal {
	w := &record.Withdrawal{
		GoodType:  GoodType,
		Amount:    amount,
		Recipient: Alice.Account(),
		Employee:  Employee.Account(),
		Timestamp: Timestamp,
	}
	if err := w.Sign(Alice, Employee); nil != err {
		panic(err)
	}
	return w
}

// Transfer - signed transfer from Alice to Bob
func Transfer(amount int64) *record.Transfer {
	t := &record.Transfer{
		GoodType:  GoodType,
		Amount:    amount,
		Sender:    Alice.Account(),
		Recipient: Bob.Account(),
		Timestamp: Timestamp,
	}
	if err := t.Sign(Alice, Bob); nil != err {
		panic(err)
	}
	return t
}
