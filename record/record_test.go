// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/account"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/record"
)

var testTime = time.Date(2019, time.November, 5, 10, 30, 0, 0, time.UTC)

func newKey(t *testing.T, algorithm int) *account.PrivateKey {
	p, err := account.NewPrivateKey(algorithm, nil)
	assert.Nil(t, err, "generate key")
	return p
}

func TestSimpleRecordPackUnpack(t *testing.T) {
	categorical, err := attributes.NewCategoricalWith(10, 1, 9)
	assert.Nil(t, err, "categorical")

	r := &record.SimpleRecord{
		Categorical: categorical,
		Numerical:   attributes.NewNumericalFrom(7, -3, 12),
		Timestamp:   testTime,
	}

	packed, err := r.Pack()
	assert.Nil(t, err, "pack")

	u, n, err := packed.Unpack()
	assert.Nil(t, err, "unpack")
	assert.Equal(t, len(packed), n, "consumed length")

	s, ok := u.(*record.SimpleRecord)
	assert.True(t, ok, "wrong type: %T", u)
	assert.True(t, categorical.Equal(s.Categorical), "categorical differs")
	assert.Equal(t, []int64{7, -3, 12}, s.Numerical.Values(), "numerical differs")
	assert.True(t, testTime.Equal(s.Timestamp), "timestamp differs")
	assert.True(t, record.Equal(r, u), "records differ")
}

func TestDepositSignAndVerify(t *testing.T) {
	recipient := newKey(t, account.ED25519)
	employee := newKey(t, account.ECDSAP256)

	categories, err := attributes.NewCategoricalWith(attributes.DefaultCategoricalLength, 3)
	assert.Nil(t, err, "categories")

	d := &record.Deposit{
		GoodType:   "corn",
		Amount:     100,
		Recipient:  recipient.Account(),
		Employee:   employee.Account(),
		Timestamp:  testTime,
		Categories: categories,
	}
	assert.Equal(t, fault.ErrSignatureMissing, d.Valid(), "unsigned deposit")

	assert.Nil(t, d.Sign(recipient, employee), "sign")
	assert.Nil(t, d.Valid(), "signed deposit")
	assert.Equal(t, []int64{100, 100}, d.NumericalAttributes().Values(), "deposit amounts")

	packed, err := d.Pack()
	assert.Nil(t, err, "pack")

	u, err := record.FromBytes(packed)
	assert.Nil(t, err, "from bytes")
	assert.Nil(t, u.Valid(), "unpacked deposit")
	assert.True(t, record.Equal(d, u), "round trip")

	name, ok := record.RecordName(u)
	assert.True(t, ok, "record name")
	assert.Equal(t, "Deposit", name, "record name")

	// any change to the signed portion invalidates the signatures
	d.Amount = 101
	assert.Equal(t, fault.ErrInvalidSignature, d.Valid(), "altered deposit")
}

func TestWithdrawalAndTransfer(t *testing.T) {
	alice := newKey(t, account.ED25519)
	bob := newKey(t, account.ED25519)
	employee := newKey(t, account.ED25519)

	w := &record.Withdrawal{
		GoodType:  "wheat",
		Amount:    40,
		Recipient: alice.Account(),
		Employee:  employee.Account(),
		Timestamp: testTime,
	}
	assert.Nil(t, w.Sign(alice, employee), "sign withdrawal")
	assert.Nil(t, w.Valid(), "withdrawal")
	assert.Equal(t, []int64{40, -40}, w.NumericalAttributes().Values(), "withdrawal amounts")
	assert.Equal(t, attributes.DefaultCategoricalLength, w.CategoricalAttributes().Len(), "default categories")

	tr := &record.Transfer{
		GoodType:  "wheat",
		Amount:    15,
		Sender:    alice.Account(),
		Recipient: bob.Account(),
		Timestamp: testTime,
	}
	assert.Nil(t, tr.Sign(alice, bob), "sign transfer")
	assert.Nil(t, tr.Valid(), "transfer")
	assert.Equal(t, []int64{15, 0}, tr.NumericalAttributes().Values(), "transfer amounts")

	packed, err := tr.Pack()
	assert.Nil(t, err, "pack transfer")
	u, err := record.FromBytes(packed)
	assert.Nil(t, err, "unpack transfer")
	assert.Nil(t, u.Valid(), "unpacked transfer")

	// signatures in the wrong order
	tr.SenderSignature, tr.RecipientSignature = tr.RecipientSignature, tr.SenderSignature
	assert.Equal(t, fault.ErrInvalidSignature, tr.Valid(), "swapped signatures")
}

func TestInvalidAmounts(t *testing.T) {
	alice := newKey(t, account.ED25519)
	employee := newKey(t, account.ED25519)

	d := &record.Deposit{
		GoodType:  "corn",
		Amount:    0,
		Recipient: alice.Account(),
		Employee:  employee.Account(),
		Timestamp: testTime,
	}
	assert.Equal(t, fault.ErrInvalidAmount, d.Valid(), "zero deposit")

	w := &record.Withdrawal{
		GoodType:  "corn",
		Amount:    -5,
		Recipient: alice.Account(),
		Employee:  employee.Account(),
		Timestamp: testTime,
	}
	assert.Equal(t, fault.ErrInvalidAmount, w.Valid(), "negative withdrawal")
}

func TestPackErrors(t *testing.T) {
	d := &record.Deposit{
		GoodType:  "corn",
		Amount:    1,
		Timestamp: testTime,
	}
	_, err := d.Pack()
	assert.Equal(t, fault.ErrInvalidAccount, err, "missing accounts")

	alice := newKey(t, account.ED25519)
	d.Recipient = alice.Account()
	d.Employee = alice.Account()
	d.GoodType = string(make([]byte, 65))
	_, err = d.Pack()
	assert.Equal(t, fault.ErrInvalidGoodType, err, "long good type")
}

func TestUnpackErrors(t *testing.T) {
	_, _, err := record.Packed{}.Unpack()
	assert.Equal(t, fault.ErrTruncated, err, "empty buffer")

	_, _, err = record.Packed{0x7f}.Unpack()
	assert.Equal(t, fault.ErrUnknownRecordType, err, "unknown tag")

	r := &record.SimpleRecord{
		Categorical: attributes.NewCategorical(4),
		Numerical:   attributes.NewNumerical(1),
		Timestamp:   testTime,
	}
	packed, err := r.Pack()
	assert.Nil(t, err, "pack")

	_, _, err = packed[:len(packed)-1].Unpack()
	assert.Equal(t, fault.ErrTruncated, err, "short buffer")

	_, err = record.FromBytes(append(packed, 0x00))
	assert.Equal(t, fault.ErrTrailingData, err, "trailing byte")
}
