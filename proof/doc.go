// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package proof - proofs over a history tree checked against
// published commitment digests
//
// RecordProof           a record is in the log at a commitment
// ConsistencyProof      a sequence of commitments describe one growing log
// AggregationProof      the aggregated attributes at a commitment
// CategoricalQueryProof every record matching a filter was returned
//
// a proof is built once on the server from the full tree, packed for
// transmission and checked once by the client, values the checker can
// recompute are never sent
package proof
