// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. layer        = single byte tree layer
// 4. index        = big endian uint64 (8 bytes)
// 5. number       = commitment number as big endian uint64 (8 bytes)
//
// History tree:
//
//   N ++ layer ++ index        - tree node
//                                data: kind ++ payload ++ optional cached aggregation
//   M ++ "size"                - number of leaves in the tree
//                                data: big endian uint64
//
// Commitments:
//
//   C ++ number                - sealed commitment
//                                data: varint(number) ++ varint(record index) ++ digest
//
// Testing:
//   Z ++ key                   - testing data
package storage
