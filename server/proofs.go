// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/proof"
)

// ConstructRecordProof - prove a committed record is part of the log
// as of a commitment
func (s *Server) ConstructRecordProof(recordIndex int, commitmentNumber int) (*proof.RecordProof, error) {
	s.RLock()
	defer s.RUnlock()

	if recordIndex < 0 {
		return nil, fault.ErrInvalidRecordIndex
	}
	if recordIndex >= s.totalCommittedRecords {
		return nil, fault.ErrRecordNotCommitted
	}
	c, err := s.index.Get(commitmentNumber)
	if nil != err {
		return nil, err
	}
	if recordIndex > c.RecordIndex {
		return nil, fault.ErrRecordNotCommitted
	}
	return proof.NewRecordProof(recordIndex, c.Number, c.RecordIndex, s.tree)
}

// ConstructConsistencyProof - prove commitments start..end all
// describe one append only log
func (s *Server) ConstructConsistencyProof(start int, end int) (*proof.ConsistencyProof, error) {
	s.RLock()
	defer s.RUnlock()

	indices, err := s.index.RecordIndices(start, end)
	if nil != err {
		return nil, err
	}
	return proof.NewConsistencyProof(start, indices, s.tree)
}

// ConstructAggregationProof - disclose the root aggregation of a
// commitment
func (s *Server) ConstructAggregationProof(commitmentNumber int) (*proof.AggregationProof, error) {
	s.RLock()
	defer s.RUnlock()

	c, err := s.index.Get(commitmentNumber)
	if nil != err {
		return nil, err
	}
	if 0 == c.RecordIndex {
		main, err := s.tree.AggregationAt(0)
		if nil != err {
			return nil, err
		}
		leaf, err := s.tree.Leaf(0)
		if nil != err {
			return nil, err
		}
		return proof.NewLeafAggregationProof(c.Number, main, leaf)
	}

	main, left, right, err := s.tree.AggregationWithChildren(c.RecordIndex)
	if nil != err {
		return nil, err
	}
	return proof.NewAggregationProof(c.Number, main, left, right)
}

// QueryRecordsByFilter - every record matching the filter as of the
// current commitment
func (s *Server) QueryRecordsByFilter(filter *attributes.Categorical) (*proof.CategoricalQueryProof, error) {
	s.RLock()
	defer s.RUnlock()

	c, err := s.index.Last()
	if nil != err {
		return nil, err
	}
	return proof.NewCategoricalQueryProof(filter, s.tree, c.Number, c.RecordIndex)
}

// QueryRecordsByFilterAt - every record matching the filter as of a
// given commitment
func (s *Server) QueryRecordsByFilterAt(filter *attributes.Categorical, commitmentNumber int) (*proof.CategoricalQueryProof, error) {
	s.RLock()
	defer s.RUnlock()

	c, err := s.index.Get(commitmentNumber)
	if nil != err {
		return nil, err
	}
	return proof.NewCategoricalQueryProof(filter, s.tree, c.Number, c.RecordIndex)
}
