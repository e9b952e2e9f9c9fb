// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"bytes"
	"time"

	"github.com/bitmark-inc/bverifyd/account"
	"github.com/bitmark-inc/bverifyd/attributes"
)

// TagType - type code for records
type TagType uint64

// enumerate the possible record types
// this is encoded a Varint64 at start of "Packed"
const (
	// null marks beginning of list - not used as a record type
	NullTag = TagType(iota)

	// valid record types
	SimpleTag     = TagType(iota) // caller supplied attributes
	DepositTag    = TagType(iota) // goods received into the warehouse
	WithdrawalTag = TagType(iota) // goods released from the warehouse
	TransferTag   = TagType(iota) // change of owner inside the warehouse

	// this item must be last
	InvalidTag = TagType(iota)
)

// Packed - packed records are just a byte slice
type Packed []byte

// Record - the closed set of log entries
//
// amounts follow a fixed slot layout for the financial records:
// slot 0 is the total amount moved and slot 1 the net change
type Record interface {
	Tag() TagType
	CategoricalAttributes() *attributes.Categorical
	NumericalAttributes() *attributes.Numerical
	CreatedAt() time.Time
	SignedPortion() (Packed, error)
	Pack() (Packed, error)
	Valid() error

	sealed()
}

// byte sizes for various fields
const (
	maxGoodTypeLength  = 64
	maxAccountLength   = 128
	maxSignatureLength = 1024
)

// SimpleRecord - attributes without parties or signatures
type SimpleRecord struct {
	Categorical *attributes.Categorical `json:"categorical"`
	Numerical   *attributes.Numerical   `json:"numerical"`
	Timestamp   time.Time               `json:"timestamp"`
}

// Deposit - goods received, signed by the depositor and the employee
type Deposit struct {
	GoodType           string                  `json:"goodType"`
	Amount             int64                   `json:"amount"`
	Recipient          *account.Account        `json:"recipient"`
	Employee           *account.Account        `json:"employee"`
	Timestamp          time.Time               `json:"timestamp"`
	Categories         *attributes.Categorical `json:"categories,omitempty"`
	RecipientSignature account.Signature       `json:"recipientSignature"`
	EmployeeSignature  account.Signature       `json:"employeeSignature"`
}

// Withdrawal - goods released, signed by the owner and the employee
type Withdrawal struct {
	GoodType           string                  `json:"goodType"`
	Amount             int64                   `json:"amount"`
	Recipient          *account.Account        `json:"recipient"`
	Employee           *account.Account        `json:"employee"`
	Timestamp          time.Time               `json:"timestamp"`
	Categories         *attributes.Categorical `json:"categories,omitempty"`
	RecipientSignature account.Signature       `json:"recipientSignature"`
	EmployeeSignature  account.Signature       `json:"employeeSignature"`
}

// Transfer - ownership moves between two accounts
type Transfer struct {
	GoodType           string                  `json:"goodType"`
	Amount             int64                   `json:"amount"`
	Sender             *account.Account        `json:"sender"`
	Recipient          *account.Account        `json:"recipient"`
	Timestamp          time.Time               `json:"timestamp"`
	Categories         *attributes.Categorical `json:"categories,omitempty"`
	SenderSignature    account.Signature       `json:"senderSignature"`
	RecipientSignature account.Signature       `json:"recipientSignature"`
}

func (*SimpleRecord) sealed() {}
func (*Deposit) sealed()      {}
func (*Withdrawal) sealed()   {}
func (*Transfer) sealed()     {}

// Tag - record type code
func (*SimpleRecord) Tag() TagType { return SimpleTag }
func (*Deposit) Tag() TagType      { return DepositTag }
func (*Withdrawal) Tag() TagType   { return WithdrawalTag }
func (*Transfer) Tag() TagType     { return TransferTag }

// CreatedAt - creation time
func (r *SimpleRecord) CreatedAt() time.Time { return r.Timestamp }
func (r *Deposit) CreatedAt() time.Time      { return r.Timestamp }
func (r *Withdrawal) CreatedAt() time.Time   { return r.Timestamp }
func (r *Transfer) CreatedAt() time.Time     { return r.Timestamp }

// CategoricalAttributes - copy of the flags
func (r *SimpleRecord) CategoricalAttributes() *attributes.Categorical {
	return categoriesOrDefault(r.Categorical)
}

// NumericalAttributes - copy of the amounts
func (r *SimpleRecord) NumericalAttributes() *attributes.Numerical {
	if nil == r.Numerical {
		return attributes.NewNumerical(attributes.DefaultNumericalLength)
	}
	return r.Numerical.Copy()
}

// CategoricalAttributes - copy of the flags
func (r *Deposit) CategoricalAttributes() *attributes.Categorical {
	return categoriesOrDefault(r.Categories)
}

// NumericalAttributes - total and net are both the amount
func (r *Deposit) NumericalAttributes() *attributes.Numerical {
	return attributes.NewNumericalFrom(r.Amount, r.Amount)
}

// CategoricalAttributes - copy of the flags
func (r *Withdrawal) CategoricalAttributes() *attributes.Categorical {
	return categoriesOrDefault(r.Categories)
}

// NumericalAttributes - net change is negative
func (r *Withdrawal) NumericalAttributes() *attributes.Numerical {
	return attributes.NewNumericalFrom(r.Amount, -r.Amount)
}

// CategoricalAttributes - copy of the flags
func (r *Transfer) CategoricalAttributes() *attributes.Categorical {
	return categoriesOrDefault(r.Categories)
}

// NumericalAttributes - goods move but the warehouse total is unchanged
func (r *Transfer) NumericalAttributes() *attributes.Numerical {
	return attributes.NewNumericalFrom(r.Amount, 0)
}

func categoriesOrDefault(c *attributes.Categorical) *attributes.Categorical {
	if nil == c {
		return attributes.NewCategorical(attributes.DefaultCategoricalLength)
	}
	return c.Copy()
}

// RecordName - name of a record for display
func RecordName(r Record) (string, bool) {
	switch r.(type) {
	case *SimpleRecord:
		return "SimpleRecord", true
	case *Deposit:
		return "Deposit", true
	case *Withdrawal:
		return "Withdrawal", true
	case *Transfer:
		return "Transfer", true
	default:
		return "*unknown*", false
	}
}

// Equal - two records have the same canonical bytes
func Equal(a Record, b Record) bool {
	if nil == a || nil == b {
		return a == b
	}
	pa, err := a.Pack()
	if nil != err {
		return false
	}
	pb, err := b.Pack()
	if nil != err {
		return false
	}
	return bytes.Equal(pa, pb)
}
