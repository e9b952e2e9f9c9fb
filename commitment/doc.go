// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package commitment - sealed log prefixes
//
// commitment n covers records 0 to RecordIndex and its digest is the
// root hash of the history tree at that version, numbers start at
// zero and never have gaps
package commitment
