// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitmark-inc/bverifyd/account"
)

// Sign - deposit signed by the recipient and the employee
func (r *Deposit) Sign(recipient *account.PrivateKey, employee *account.PrivateKey) error {
	var err error
	r.RecipientSignature, r.EmployeeSignature, err = signBoth(r, recipient, employee)
	return err
}

// Sign - withdrawal signed by the recipient and the employee
func (r *Withdrawal) Sign(recipient *account.PrivateKey, employee *account.PrivateKey) error {
	var err error
	r.RecipientSignature, r.EmployeeSignature, err = signBoth(r, recipient, employee)
	return err
}

// Sign - transfer signed by the sender and the recipient
func (r *Transfer) Sign(sender *account.PrivateKey, recipient *account.PrivateKey) error {
	var err error
	r.SenderSignature, r.RecipientSignature, err = signBoth(r, sender, recipient)
	return err
}

func signBoth(r Record, first *account.PrivateKey, second *account.PrivateKey) (account.Signature, account.Signature, error) {
	message, err := r.SignedPortion()
	if nil != err {
		return nil, nil, err
	}
	s1, err := first.Sign(message)
	if nil != err {
		return nil, nil, err
	}
	s2, err := second.Sign(message)
	if nil != err {
		return nil, nil, err
	}
	return s1, s2, nil
}
