// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package client - the commitment verifier
//
// the verifier trusts only the ledger: it loads commitment digests
// from there and checks every proof the server sends against them,
// once a consistency proof fails the server is never trusted again
package client

//go:generate mockgen -destination=mocks/proofsource.go -package=mocks github.com/bitmark-inc/bverifyd/client ProofSource
