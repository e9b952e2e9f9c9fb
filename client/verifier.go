// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client

import (
	"sync"

	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/logger"
)

// Verifier - checks a server against the digests in the ledger
type Verifier struct {
	sync.RWMutex

	log    *logger.L
	reader ledger.Reader
	source ProofSource

	digests    []aggregation.Digest
	verified   []bool
	current    int
	distrusted bool
}

// New - verifier with no commitments loaded
func New(reader ledger.Reader, source ProofSource) *Verifier {
	return &Verifier{
		log:      logger.New("client"),
		reader:   reader,
		source:   source,
		digests:  make([]aggregation.Digest, 0),
		verified: make([]bool, 0),
		current:  -1,
	}
}

// LoadStatements - append any new ledger statements as commitment
// digests, returns the number added
func (v *Verifier) LoadStatements() (int, error) {
	v.Lock()
	defer v.Unlock()

	if v.distrusted {
		return 0, fault.ErrServerDistrusted
	}

	statements, err := v.reader.Statements(len(v.digests))
	if nil != err {
		return 0, err
	}

	for _, s := range statements {
		var d aggregation.Digest
		if err := aggregation.DigestFromBytes(&d, s.Data); nil != err {
			v.log.Errorf("statement: %d  error: %s", s.Sequence, err)
			return 0, err
		}
		v.digests = append(v.digests, d)
		v.verified = append(v.verified, false)
	}

	if len(statements) > 0 {
		v.log.Infof("loaded: %d  commitments: %d", len(statements), len(v.digests))
	}
	return len(statements), nil
}

// VerifyConsistency - check every loaded commitment after the current
// one against a single consistency proof
func (v *Verifier) VerifyConsistency() error {
	v.Lock()
	defer v.Unlock()

	if v.distrusted {
		return fault.ErrServerDistrusted
	}

	n := len(v.digests)
	if 0 == n || v.verified[n-1] {
		return nil
	}

	start := v.current
	if start < 0 {
		start = 0
	}
	end := n - 1

	p, err := v.source.ConsistencyProof(start, end)
	if nil != err {
		return err
	}

	if start != p.StartingCommitmentNumber() || end != p.EndingCommitmentNumber() || !p.Check(v.digests[start:end+1]) {
		v.distrusted = true
		v.log.Criticalf("consistency violation: commitments: %d to %d", start, end)
		return fault.ErrConsistencyViolation
	}

	for i := start; i <= end; i += 1 {
		v.verified[i] = true
	}
	v.current = end

	v.log.Infof("verified commitments: %d to %d", start, end)
	return nil
}

// snapshot of the verified watermark and its digest
func (v *Verifier) watermark() (int, aggregation.Digest, error) {
	v.RLock()
	defer v.RUnlock()

	if v.distrusted {
		return 0, aggregation.NullDigest, fault.ErrServerDistrusted
	}
	if v.current < 0 {
		return 0, aggregation.NullDigest, fault.ErrNoVerifiedCommitment
	}
	return v.current, v.digests[v.current], nil
}

// GetAndVerifyRecord - fetch a record and prove it is in the log as of
// the current verified commitment
func (v *Verifier) GetAndVerifyRecord(recordIndex int) (record.Record, error) {
	current, digest, err := v.watermark()
	if nil != err {
		return nil, err
	}

	p, err := v.source.RecordProof(recordIndex, current)
	if nil != err {
		return nil, err
	}

	if recordIndex != p.RecordIndex() || current != p.CommitmentNumber() || !p.Check(digest) {
		v.log.Warnf("record: %d  commitment: %d  proof failed", recordIndex, current)
		return nil, fault.ErrInvalidRecordProof
	}
	return p.Record(), nil
}

// GetAndCheckAggregation - fetch and check the root aggregation of any
// loaded commitment
func (v *Verifier) GetAndCheckAggregation(commitmentNumber int) (*aggregation.Aggregation, error) {
	v.RLock()
	distrusted := v.distrusted
	loaded := len(v.digests)
	digest := aggregation.NullDigest
	if commitmentNumber >= 0 && commitmentNumber < loaded {
		digest = v.digests[commitmentNumber]
	}
	v.RUnlock()

	if distrusted {
		return nil, fault.ErrServerDistrusted
	}
	if commitmentNumber < 0 || commitmentNumber >= loaded {
		return nil, fault.ErrCommitmentNotFound
	}

	p, err := v.source.AggregationProof(commitmentNumber)
	if nil != err {
		return nil, err
	}

	if commitmentNumber != p.CommitmentNumber() || !p.Check(digest) {
		v.log.Warnf("aggregation: %d  proof failed", commitmentNumber)
		return nil, fault.ErrInvalidAggregationProof
	}
	return p.Aggregation(), nil
}

// QueryByFilter - every record whose categories contain the filter as
// of the current verified commitment, with their indices
func (v *Verifier) QueryByFilter(filter *attributes.Categorical) ([]int, []record.Record, error) {
	if nil == filter {
		return nil, nil, fault.ErrMissingParameters
	}

	current, digest, err := v.watermark()
	if nil != err {
		return nil, nil, err
	}

	p, err := v.source.QueryProof(filter, current)
	if nil != err {
		return nil, nil, err
	}

	if current != p.CommitmentNumber() || !filter.Equal(p.Filter()) || !p.Check(digest) {
		v.log.Warnf("query: %s  commitment: %d  proof failed", filter, current)
		return nil, nil, fault.ErrInvalidQueryProof
	}
	return p.MatchingIndices(), p.Records(), nil
}

// CurrentCommitment - highest verified commitment, -1 if none
func (v *Verifier) CurrentCommitment() int {
	v.RLock()
	defer v.RUnlock()
	return v.current
}

// TotalCommitments - commitments loaded from the ledger
func (v *Verifier) TotalCommitments() int {
	v.RLock()
	defer v.RUnlock()
	return len(v.digests)
}

// Commitment - digest of a loaded commitment
func (v *Verifier) Commitment(number int) (aggregation.Digest, error) {
	v.RLock()
	defer v.RUnlock()
	if number < 0 || number >= len(v.digests) {
		return aggregation.NullDigest, fault.ErrCommitmentNotFound
	}
	return v.digests[number], nil
}

// IsVerified - a commitment has been covered by a consistency proof
func (v *Verifier) IsVerified(number int) bool {
	v.RLock()
	defer v.RUnlock()
	return number >= 0 && number < len(v.verified) && v.verified[number]
}

// Distrusted - a consistency violation has been seen
func (v *Verifier) Distrusted() bool {
	v.RLock()
	defer v.RUnlock()
	return v.distrusted
}
