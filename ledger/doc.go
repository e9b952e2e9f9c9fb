// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - append only hash chained statement log
//
// stands in for the external immutable ledger that commitment
// digests are published to
//
//   digest(n) = SHA3-256(digest(n-1) ++ BE64(n) ++ data)
//
// with digest(-1) all zero, so any rewrite of an earlier statement
// changes every later digest
//go:generate mockgen -destination=mocks/ledger.go -package=mocks github.com/bitmark-inc/bverifyd/ledger Publisher,Reader

package ledger
