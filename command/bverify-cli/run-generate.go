// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/bverifyd/account"
)

func runGenerate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	algorithm := account.ED25519
	if c.Bool("ecdsa") {
		algorithm = account.ECDSAP256
	}

	privateKey, err := account.NewPrivateKey(algorithm, nil)
	if nil != err {
		return err
	}

	type reply struct {
		Account    *account.Account `json:"account"`
		PrivateKey string           `json:"privateKey"`
	}

	return printJson(m.w, reply{
		Account:    privateKey.Account(),
		PrivateKey: privateKey.String(),
	})
}
