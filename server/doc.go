// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server - the commitment manager
//
// records are appended to a history tree and every CommitInterval
// records the root hash is sealed as a commitment and published to
// the ledger, proofs are constructed against sealed commitments only
//
// one RWMutex guards everything: appends take the write side, proof
// construction takes the read side and sees a consistent snapshot
package server
