// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client

import (
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/proof"
)

// ProofSource - the server side as seen by a verifier
type ProofSource interface {
	RecordProof(recordIndex int, commitmentNumber int) (*proof.RecordProof, error)
	ConsistencyProof(start int, end int) (*proof.ConsistencyProof, error)
	AggregationProof(commitmentNumber int) (*proof.AggregationProof, error)
	QueryProof(filter *attributes.Categorical, commitmentNumber int) (*proof.CategoricalQueryProof, error)
}
