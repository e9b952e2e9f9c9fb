// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// bverify-cli - submit records to a bverifyd server and verify what
// it returns against the commitments in its ledger
//
// every proof is checked locally, the server is only trusted for
// availability
package main
