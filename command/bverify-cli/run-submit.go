// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/bverifyd/account"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/record"
)

// common part of every change record
type change struct {
	goodType   string
	amount     int64
	categories *attributes.Categorical
	timestamp  time.Time
}

func getChange(c *cli.Context) (*change, error) {
	goodType := c.String("good")
	if "" == goodType {
		return nil, fmt.Errorf("good type is required")
	}
	amount := c.Int64("amount")
	if amount <= 0 {
		return nil, fault.ErrInvalidAmount
	}
	categories, err := parseCategories(c.String("flags"))
	if nil != err {
		return nil, err
	}
	return &change{
		goodType:   goodType,
		amount:     amount,
		categories: categories,
		timestamp:  time.Now().UTC(),
	}, nil
}

func getKey(c *cli.Context, name string) (*account.PrivateKey, error) {
	s := c.String(name)
	if "" == s {
		return nil, fmt.Errorf("%s key is required", name)
	}
	return account.PrivateKeyFromBase58(s)
}

func runSubmitDeposit(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	ch, err := getChange(c)
	if nil != err {
		return err
	}
	recipient, err := getKey(c, "recipient")
	if nil != err {
		return err
	}
	employee, err := getKey(c, "employee")
	if nil != err {
		return err
	}

	r := &record.Deposit{
		GoodType:   ch.goodType,
		Amount:     ch.amount,
		Recipient:  recipient.Account(),
		Employee:   employee.Account(),
		Timestamp:  ch.timestamp,
		Categories: ch.categories,
	}
	err = r.Sign(recipient, employee)
	if nil != err {
		return err
	}
	return submit(m, r)
}

func runSubmitWithdrawal(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	ch, err := getChange(c)
	if nil != err {
		return err
	}
	recipient, err := getKey(c, "recipient")
	if nil != err {
		return err
	}
	employee, err := getKey(c, "employee")
	if nil != err {
		return err
	}

	r := &record.Withdrawal{
		GoodType:   ch.goodType,
		Amount:     ch.amount,
		Recipient:  recipient.Account(),
		Employee:   employee.Account(),
		Timestamp:  ch.timestamp,
		Categories: ch.categories,
	}
	err = r.Sign(recipient, employee)
	if nil != err {
		return err
	}
	return submit(m, r)
}

func runSubmitTransfer(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	ch, err := getChange(c)
	if nil != err {
		return err
	}
	sender, err := getKey(c, "sender")
	if nil != err {
		return err
	}
	recipient, err := getKey(c, "recipient")
	if nil != err {
		return err
	}

	r := &record.Transfer{
		GoodType:   ch.goodType,
		Amount:     ch.amount,
		Sender:     sender.Account(),
		Recipient:  recipient.Account(),
		Timestamp:  ch.timestamp,
		Categories: ch.categories,
	}
	err = r.Sign(sender, recipient)
	if nil != err {
		return err
	}
	return submit(m, r)
}

func submit(m *metadata, r record.Record) error {

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	if m.verbose {
		printJson(m.e, r)
	}

	response, err := client.Submit(r)
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}
