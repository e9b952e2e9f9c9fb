// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/bverifyd/account"
)

func mustKey(seedHex string) *account.PrivateKey {
	seed, err := hex.DecodeString(seedHex)
	if nil != err {
		panic(err)
	}
	return &account.PrivateKey{
		PrivateKeyInterface: &account.ED25519PrivateKey{
			PrivateKey: ed25519.NewKeyFromSeed(seed),
		},
	}
}
