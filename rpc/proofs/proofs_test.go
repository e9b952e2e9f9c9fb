// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proofs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/counter"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/fixtures"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/proof"
	"github.com/bitmark-inc/bverifyd/rpc/proofs"
	"github.com/bitmark-inc/bverifyd/server"
	"github.com/bitmark-inc/logger"
)

func setup(t *testing.T) (*server.Server, *proofs.Proofs) {
	srv, err := server.New(server.Configuration{CommitInterval: 3, CommitToLedger: true}, nil, nil, ledger.NewMemory(), nil)
	assert.Nil(t, err, "server")
	for _, r := range fixtures.PrefixRecords(6) {
		_, err := srv.AddRecord(r)
		assert.Nil(t, err, "add")
	}
	count := counter.Counter(2)
	return srv, proofs.New(logger.New(fixtures.LogCategory), srv, time.Now(), "0.1", &count)
}

func TestRecord(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	srv, p := setup(t)
	c, err := srv.Commitment(1)
	assert.Nil(t, err, "commitment")

	var reply proofs.ProofReply
	err = p.Record(&proofs.RecordArguments{RecordIndex: 4, Commitment: 1}, &reply)
	assert.Nil(t, err, "record")

	rp, err := proof.UnpackRecordProof(reply.Proof)
	assert.Nil(t, err, "unpack")
	assert.True(t, rp.Check(c.Digest), "check")
	assert.Equal(t, 1, p.Cache.ItemCount(), "cached")

	// served from cache
	var again proofs.ProofReply
	err = p.Record(&proofs.RecordArguments{RecordIndex: 4, Commitment: 1}, &again)
	assert.Nil(t, err, "record again")
	assert.Equal(t, reply.Proof, again.Proof, "same bytes")
	assert.Equal(t, 1, p.Cache.ItemCount(), "still one entry")

	// a changed tree must not be served from the cache
	assert.Nil(t, srv.ChangeRecord(4, fixtures.SimpleRecord(99)), "change")
	var changed proofs.ProofReply
	err = p.Record(&proofs.RecordArguments{RecordIndex: 4, Commitment: 1}, &changed)
	assert.Nil(t, err, "record after change")
	assert.NotEqual(t, reply.Proof, changed.Proof, "rebuilt")
	rp, err = proof.UnpackRecordProof(changed.Proof)
	assert.Nil(t, err, "unpack changed")
	assert.False(t, rp.Check(c.Digest), "changed record fails")

	err = p.Record(&proofs.RecordArguments{RecordIndex: 0, Commitment: 5}, &reply)
	assert.Equal(t, fault.ErrCommitmentNotFound, err, "unknown commitment")
}

func TestConsistencyAndAggregation(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	srv, p := setup(t)

	var reply proofs.ProofReply
	err := p.Consistency(&proofs.ConsistencyArguments{Start: 0, End: 1}, &reply)
	assert.Nil(t, err, "consistency")
	cp, err := proof.UnpackConsistencyProof(reply.Proof)
	assert.Nil(t, err, "unpack consistency")
	assert.Equal(t, []int{2, 5}, cp.RecordIndices(), "indices")

	err = p.Aggregation(&proofs.AggregationArguments{Commitment: 0}, &reply)
	assert.Nil(t, err, "aggregation")
	ap, err := proof.UnpackAggregationProof(reply.Proof)
	assert.Nil(t, err, "unpack aggregation")
	c, err := srv.Commitment(0)
	assert.Nil(t, err, "commitment")
	assert.True(t, ap.Check(c.Digest), "aggregation check")
	assert.Equal(t, int64(6), ap.Aggregation().Numerical.Get(0), "1+2+3")
}

func TestQuery(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	srv, p := setup(t)
	filter, err := attributes.NewCategoricalWith(attributes.DefaultCategoricalLength, 4)
	assert.Nil(t, err, "filter")

	var reply proofs.ProofReply
	err = p.Query(&proofs.QueryArguments{Filter: filter.Pack(), Commitment: -1}, &reply)
	assert.Nil(t, err, "query")
	qp, err := proof.UnpackCategoricalQueryProof(reply.Proof)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, []int{4, 5}, qp.MatchingIndices(), "matches")
	assert.Equal(t, 1, qp.CommitmentNumber(), "current commitment")

	c, err := srv.CurrentCommitment()
	assert.Nil(t, err, "current")
	assert.True(t, qp.Check(c.Digest), "check")

	err = p.Query(&proofs.QueryArguments{Filter: append(filter.Pack(), 1), Commitment: 0}, &reply)
	assert.Equal(t, fault.ErrTrailingData, err, "trailing filter bytes")
}

func TestCommitmentAndInfo(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	srv, p := setup(t)

	var reply proofs.CommitmentReply
	err := p.Commitment(&proofs.CommitmentArguments{Number: -1}, &reply)
	assert.Nil(t, err, "current")
	assert.Equal(t, 1, reply.Number, "number")
	assert.Equal(t, 5, reply.RecordIndex, "record index")

	c, err := srv.Commitment(1)
	assert.Nil(t, err, "commitment")
	assert.Equal(t, c.Digest, reply.Digest, "digest")

	err = p.Commitment(&proofs.CommitmentArguments{Number: 7}, &reply)
	assert.Equal(t, fault.ErrCommitmentNotFound, err, "unknown")

	var info proofs.InfoReply
	err = p.Info(&proofs.InfoArguments{}, &info)
	assert.Nil(t, err, "info")
	assert.Equal(t, 6, info.TotalRecords, "records")
	assert.Equal(t, 2, info.TotalCommitments, "commitments")
	assert.Equal(t, uint64(2), info.RPCs, "connections")
	assert.Equal(t, "0.1", info.Version, "version")
}
