// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitmark-inc/bverifyd/account"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
)

// Valid - a simple record carries no obligations
func (r *SimpleRecord) Valid() error {
	return nil
}

// Valid - positive amount and both parties signed
func (r *Deposit) Valid() error {
	if r.Amount <= 0 {
		return fault.ErrInvalidAmount
	}
	return checkSignatures(r, signer{r.Recipient, r.RecipientSignature}, signer{r.Employee, r.EmployeeSignature})
}

// Valid - goods leave so the net change is negative
func (r *Withdrawal) Valid() error {
	amounts := r.NumericalAttributes()
	if amounts.Get(attributes.TotalAmount) <= 0 {
		return fault.ErrInvalidAmount
	}
	if amounts.Get(attributes.NetAmount) >= 0 {
		return fault.ErrInvalidNetAmount
	}
	return checkSignatures(r, signer{r.Recipient, r.RecipientSignature}, signer{r.Employee, r.EmployeeSignature})
}

// Valid - a transfer moves goods without changing the total held
func (r *Transfer) Valid() error {
	amounts := r.NumericalAttributes()
	if amounts.Get(attributes.TotalAmount) <= 0 {
		return fault.ErrInvalidAmount
	}
	if 0 != amounts.Get(attributes.NetAmount) {
		return fault.ErrInvalidNetAmount
	}
	return checkSignatures(r, signer{r.Sender, r.SenderSignature}, signer{r.Recipient, r.RecipientSignature})
}

type signer struct {
	owner     *account.Account
	signature account.Signature
}

func checkSignatures(r Record, signers ...signer) error {
	message, err := r.SignedPortion()
	if nil != err {
		return err
	}
	for _, s := range signers {
		if 0 == len(s.signature) {
			return fault.ErrSignatureMissing
		}
		if err := s.owner.CheckSignature(message, s.signature); nil != err {
			return err
		}
	}
	return nil
}
