// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"time"
	"unicode/utf8"

	"github.com/bitmark-inc/bverifyd/account"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

// SignedPortion - everything except the signatures
//
// Varint64(tag) followed by fields in order as struct above
func (r *SimpleRecord) SignedPortion() (Packed, error) {
	message := Packed(util.ToVarint64(uint64(SimpleTag)))
	message = appendCategorical(message, r.CategoricalAttributes())
	message = append(message, r.NumericalAttributes().Pack()...)
	return appendTimestamp(message, r.Timestamp), nil
}

// Pack - a simple record has no signatures
func (r *SimpleRecord) Pack() (Packed, error) {
	return r.SignedPortion()
}

// SignedPortion - the message signed by both parties
func (r *Deposit) SignedPortion() (Packed, error) {
	return packChange(DepositTag, r.GoodType, r.Amount, r.Recipient, r.Employee, r.Timestamp, r.CategoricalAttributes())
}

// Pack - signed portion followed by the recipient and employee signatures
func (r *Deposit) Pack() (Packed, error) {
	message, err := r.SignedPortion()
	if nil != err {
		return nil, err
	}
	return appendSignatures(message, r.RecipientSignature, r.EmployeeSignature)
}

// SignedPortion - the message signed by both parties
func (r *Withdrawal) SignedPortion() (Packed, error) {
	return packChange(WithdrawalTag, r.GoodType, r.Amount, r.Recipient, r.Employee, r.Timestamp, r.CategoricalAttributes())
}

// Pack - signed portion followed by the recipient and employee signatures
func (r *Withdrawal) Pack() (Packed, error) {
	message, err := r.SignedPortion()
	if nil != err {
		return nil, err
	}
	return appendSignatures(message, r.RecipientSignature, r.EmployeeSignature)
}

// SignedPortion - the message signed by both parties
func (r *Transfer) SignedPortion() (Packed, error) {
	return packChange(TransferTag, r.GoodType, r.Amount, r.Sender, r.Recipient, r.Timestamp, r.CategoricalAttributes())
}

// Pack - signed portion followed by the sender and recipient signatures
func (r *Transfer) Pack() (Packed, error) {
	message, err := r.SignedPortion()
	if nil != err {
		return nil, err
	}
	return appendSignatures(message, r.SenderSignature, r.RecipientSignature)
}

// the three financial records share one layout
func packChange(tag TagType, goodType string, amount int64, first *account.Account, second *account.Account, timestamp time.Time, categories *attributes.Categorical) (Packed, error) {
	if utf8.RuneCountInString(goodType) > maxGoodTypeLength {
		return nil, fault.ErrInvalidGoodType
	}
	if nil == first || nil == first.AccountInterface || nil == second || nil == second.AccountInterface {
		return nil, fault.ErrInvalidAccount
	}

	message := Packed(util.ToVarint64(uint64(tag)))
	message = append(message, util.AppendString(nil, goodType)...)
	message = append(message, util.ToSignedVarint64(amount)...)
	message = append(message, util.AppendBytes(nil, first.Bytes())...)
	message = append(message, util.AppendBytes(nil, second.Bytes())...)
	message = appendTimestamp(message, timestamp)
	return appendCategorical(message, categories), nil
}

func appendSignatures(message Packed, signatures ...account.Signature) (Packed, error) {
	for _, s := range signatures {
		if len(s) > maxSignatureLength {
			return nil, fault.ErrSignatureTooLong
		}
		message = append(message, util.AppendBytes(nil, s)...)
	}
	return message, nil
}

func appendCategorical(message Packed, c *attributes.Categorical) Packed {
	return append(message, c.Pack()...)
}

// nanoseconds since the Unix epoch, zig-zag encoded
func appendTimestamp(message Packed, t time.Time) Packed {
	return append(message, util.ToSignedVarint64(t.UnixNano())...)
}
