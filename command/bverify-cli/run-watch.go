// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/publish"
)

// follow the commitment broadcasts, re-verifying the server history
// each time a new commitment is announced
func runWatch(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, v, err := verifiedClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	subscriber, err := publish.Subscribe(c.String("subscribe"), 0)
	if nil != err {
		return err
	}
	defer subscriber.Close()

	response, err := makeVerifyReply(v)
	if nil != err {
		return err
	}
	printJson(m.w, response)

	for {
		announced, err := subscriber.Receive()
		if nil != err {
			return err
		}
		if m.verbose {
			fmt.Fprintf(m.e, "announced commitment: %d  digest: %s\n", announced.Number, announced.Digest)
		}

		_, err = v.LoadStatements()
		if nil == err {
			err = v.VerifyConsistency()
		}
		if fault.IsErrConsistency(err) {
			return err
		}
		if nil != err {
			fmt.Fprintf(m.e, "verify error: %s\n", err)
			continue
		}

		response, err := makeVerifyReply(v)
		if nil != err {
			return err
		}
		printJson(m.w, response)
	}
}
