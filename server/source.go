// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/proof"
)

// Source - proofs from an in process server, each proof is packed and
// unpacked so the caller only ever sees the wire form
type Source struct {
	Server *Server
}

// RecordProof - record proof at a commitment
func (src Source) RecordProof(recordIndex int, commitmentNumber int) (*proof.RecordProof, error) {
	p, err := src.Server.ConstructRecordProof(recordIndex, commitmentNumber)
	if nil != err {
		return nil, err
	}
	packed, err := p.Pack()
	if nil != err {
		return nil, err
	}
	return proof.UnpackRecordProof(packed)
}

// ConsistencyProof - consistency of commitments start..end
func (src Source) ConsistencyProof(start int, end int) (*proof.ConsistencyProof, error) {
	p, err := src.Server.ConstructConsistencyProof(start, end)
	if nil != err {
		return nil, err
	}
	packed, err := p.Pack()
	if nil != err {
		return nil, err
	}
	return proof.UnpackConsistencyProof(packed)
}

// AggregationProof - root aggregation of a commitment
func (src Source) AggregationProof(commitmentNumber int) (*proof.AggregationProof, error) {
	p, err := src.Server.ConstructAggregationProof(commitmentNumber)
	if nil != err {
		return nil, err
	}
	packed, err := p.Pack()
	if nil != err {
		return nil, err
	}
	return proof.UnpackAggregationProof(packed)
}

// QueryProof - filtered records at a commitment
func (src Source) QueryProof(filter *attributes.Categorical, commitmentNumber int) (*proof.CategoricalQueryProof, error) {
	p, err := src.Server.QueryRecordsByFilterAt(filter, commitmentNumber)
	if nil != err {
		return nil, err
	}
	packed, err := p.Pack()
	if nil != err {
		return nil, err
	}
	return proof.UnpackCategoricalQueryProof(packed)
}
