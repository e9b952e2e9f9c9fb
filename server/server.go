// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"sync"

	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/commitment"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/historytree"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/messagebus"
	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/logger"
)

// DefaultCommitInterval - records per commitment
const DefaultCommitInterval = 3

// CommitmentCommand - queue command for a sealed commitment
const CommitmentCommand = "commitment"

// Configuration - commitment policy and record shape
//
// zero lengths take the attribute package defaults
type Configuration struct {
	CommitInterval    int  `gluamapper:"commit_interval" json:"commit_interval"`
	CommitToLedger    bool `gluamapper:"commit_to_ledger" json:"commit_to_ledger"`
	CategoricalLength int  `gluamapper:"categorical_length" json:"categorical_length"`
	NumericalLength   int  `gluamapper:"numerical_length" json:"numerical_length"`
}

// Server - the commitment manager
type Server struct {
	sync.RWMutex

	log    *logger.L
	conf   Configuration
	tree   *historytree.Tree
	index  *commitment.Index
	ledger ledger.Publisher
	queue  *messagebus.Queue

	totalRecords          int
	totalCommittedRecords int

	// changes whenever a previously built proof could differ
	generation uint64
}

// Info - counters for display
type Info struct {
	TotalRecords          int    `json:"totalRecords"`
	TotalCommittedRecords int    `json:"totalCommittedRecords"`
	TotalCommitments      int    `json:"totalCommitments"`
	CommitInterval        int    `json:"commitInterval"`
	Generation            uint64 `json:"generation"`
}

// New - commitment manager over an existing tree and index
//
// a nil tree or index starts empty in memory, a nil publisher is only
// allowed when CommitToLedger is off and a nil queue disables
// notifications
func New(conf Configuration, tree *historytree.Tree, index *commitment.Index, publisher ledger.Publisher, queue *messagebus.Queue) (*Server, error) {

	log := logger.New("server")

	if conf.CommitInterval < 1 {
		log.Errorf("invalid commit interval: %d", conf.CommitInterval)
		return nil, fault.ErrInvalidCommitInterval
	}
	if conf.CommitToLedger && nil == publisher {
		log.Error("commit to ledger without a ledger")
		return nil, fault.ErrMissingParameters
	}

	if 0 == conf.CategoricalLength {
		conf.CategoricalLength = attributes.DefaultCategoricalLength
	}
	if 0 == conf.NumericalLength {
		conf.NumericalLength = attributes.DefaultNumericalLength
	}
	if conf.CategoricalLength < 0 || conf.NumericalLength < 0 {
		log.Errorf("invalid shape: categorical: %d  numerical: %d", conf.CategoricalLength, conf.NumericalLength)
		return nil, fault.ErrShapeMismatch
	}

	if nil == tree {
		tree = historytree.New()
	}
	if nil == index {
		var err error
		index, err = commitment.NewIndex(nil)
		if nil != err {
			return nil, err
		}
	}

	if tree.Version() >= 0 {
		agg, err := tree.Aggregation()
		if nil != err {
			return nil, err
		}
		if agg.Categorical.Len() != conf.CategoricalLength || agg.Numerical.Len() != conf.NumericalLength {
			log.Criticalf("tree shape: categorical: %d  numerical: %d  differs from configuration", agg.Categorical.Len(), agg.Numerical.Len())
			return nil, fault.ErrShapeMismatch
		}
	}

	s := &Server{
		log:          log,
		conf:         conf,
		tree:         tree,
		index:        index,
		ledger:       publisher,
		queue:        queue,
		totalRecords: tree.Version() + 1,
	}

	if last, err := index.Last(); nil == err {
		if last.RecordIndex > tree.Version() {
			log.Criticalf("commitment: %d  record: %d  beyond tree version: %d", last.Number, last.RecordIndex, tree.Version())
			return nil, fault.ErrMissingTreeData
		}
		s.totalCommittedRecords = last.RecordIndex + 1
	}

	log.Infof("records: %d  committed: %d  commitments: %d", s.totalRecords, s.totalCommittedRecords, index.Count())

	// records appended before a restart that were never sealed
	if s.outstanding() >= conf.CommitInterval {
		if _, err := s.seal(); nil != err {
			return nil, err
		}
	}

	return s, nil
}

func (s *Server) outstanding() int {
	return s.totalRecords - s.totalCommittedRecords
}

// every leaf must have the same shape or the tree cannot combine them
func (s *Server) checkShape(r record.Record) error {
	categorical := r.CategoricalAttributes().Len()
	numerical := r.NumericalAttributes().Len()
	if categorical != s.conf.CategoricalLength || numerical != s.conf.NumericalLength {
		s.log.Warnf("rejected record shape: categorical: %d  numerical: %d", categorical, numerical)
		return fault.ErrShapeMismatch
	}
	return nil
}

// AddRecord - validate and append a record, sealing a commitment when
// the interval is reached
//
// returns the index of the new record
func (s *Server) AddRecord(r record.Record) (int, error) {
	if nil == r {
		return 0, fault.ErrMissingParameters
	}
	if err := r.Valid(); nil != err {
		s.log.Warnf("rejected record: %s", err)
		return 0, err
	}
	if err := s.checkShape(r); nil != err {
		return 0, err
	}

	s.Lock()
	defer s.Unlock()

	index, err := s.tree.Append(r)
	if nil != err {
		s.log.Errorf("append error: %s", err)
		return 0, err
	}
	s.totalRecords = index + 1

	name, _ := record.RecordName(r)
	s.log.Debugf("record: %d  type: %s", index, name)

	// a failed publish leaves the records outstanding and the next
	// append retries
	if s.outstanding() >= s.conf.CommitInterval {
		if _, err := s.seal(); nil != err {
			return index, err
		}
	}
	return index, nil
}

// seal the current root, caller holds the write lock
func (s *Server) seal() (commitment.Commitment, error) {
	agg, err := s.tree.Aggregation()
	if nil != err {
		return commitment.Commitment{}, err
	}
	recordIndex := s.totalRecords - 1

	if s.conf.CommitToLedger {
		receipt, err := s.ledger.Publish(agg.Hash[:])
		if nil != err {
			s.log.Errorf("ledger publish error: %s", err)
			return commitment.Commitment{}, err
		}
		s.log.Debugf("ledger sequence: %d  receipt: %s", receipt.Sequence, receipt.Digest)
	}

	c, err := s.index.Add(recordIndex, agg.Hash)
	if nil != err {
		// the ledger already holds the digest
		logger.Panicf("server: commitment record: %d  error: %s", recordIndex, err)
	}
	s.totalCommittedRecords = s.totalRecords
	s.generation += 1

	s.log.Infof("commitment: %d  record: %d  digest: %s", c.Number, c.RecordIndex, c.Digest)

	if nil != s.queue && !s.queue.Send(CommitmentCommand, c.Pack()) {
		s.log.Warnf("commitment: %d  notification dropped", c.Number)
	}
	return c, nil
}

// ChangeRecord - overwrite a record without publishing anything
//
// only for exercising verifiers against a server that rewrites
// history
func (s *Server) ChangeRecord(index int, r record.Record) error {
	if nil == r {
		return fault.ErrMissingParameters
	}
	if err := s.checkShape(r); nil != err {
		return err
	}

	s.Lock()
	defer s.Unlock()

	if err := s.tree.Replace(index, r); nil != err {
		return err
	}
	s.generation += 1

	s.log.Warnf("record: %d  changed", index)
	return nil
}

// Commitment - commitment by number
func (s *Server) Commitment(number int) (commitment.Commitment, error) {
	s.RLock()
	defer s.RUnlock()
	return s.index.Get(number)
}

// CurrentCommitment - most recent commitment
func (s *Server) CurrentCommitment() (commitment.Commitment, error) {
	s.RLock()
	defer s.RUnlock()
	return s.index.Last()
}

// CommitmentByDigest - earliest commitment with the digest
func (s *Server) CommitmentByDigest(digest aggregation.Digest) (commitment.Commitment, error) {
	s.RLock()
	defer s.RUnlock()
	return s.index.ByDigest(digest)
}

// CommitmentDigest - root hash of the prefix covered by a commitment,
// recomputed from the current tree
func (s *Server) CommitmentDigest(number int) (aggregation.Digest, error) {
	s.RLock()
	defer s.RUnlock()

	c, err := s.index.Get(number)
	if nil != err {
		return aggregation.NullDigest, err
	}
	agg, err := s.tree.AggregationAt(c.RecordIndex)
	if nil != err {
		return aggregation.NullDigest, fault.ErrCommitmentDigestUnavailable
	}
	return agg.Hash, nil
}

// TotalRecords - records appended
func (s *Server) TotalRecords() int {
	s.RLock()
	defer s.RUnlock()
	return s.totalRecords
}

// TotalCommittedRecords - records covered by a commitment
func (s *Server) TotalCommittedRecords() int {
	s.RLock()
	defer s.RUnlock()
	return s.totalCommittedRecords
}

// TotalCommitments - commitments sealed
func (s *Server) TotalCommitments() int {
	s.RLock()
	defer s.RUnlock()
	return s.index.Count()
}

// Generation - counter for invalidating cached proofs
func (s *Server) Generation() uint64 {
	s.RLock()
	defer s.RUnlock()
	return s.generation
}

// Info - all counters at once
func (s *Server) Info() Info {
	s.RLock()
	defer s.RUnlock()
	return Info{
		TotalRecords:          s.totalRecords,
		TotalCommittedRecords: s.totalCommittedRecords,
		TotalCommitments:      s.index.Count(),
		CommitInterval:        s.conf.CommitInterval,
		Generation:            s.generation,
	}
}
