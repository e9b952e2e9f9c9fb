// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package aggregation - summaries of history tree subtrees
//
// an aggregation carries the summed numerical attributes, the union
// of the categorical attributes and a SHA-256 hash that binds both to
// the hashes of the two children:
//
//   hash = SHA-256(numerical || categorical || left.hash || right.hash)
//
// a leaf is hashed directly from the packed record bytes
package aggregation
