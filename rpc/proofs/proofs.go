// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package proofs - RPC service returning packed proofs
package proofs

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/commitment"
	"github.com/bitmark-inc/bverifyd/counter"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/proof"
	"github.com/bitmark-inc/bverifyd/rpc/ratelimit"
	"github.com/bitmark-inc/bverifyd/server"
	"github.com/bitmark-inc/logger"
)

const (
	rateLimitProofs = 200
	rateBurstProofs = 100

	cacheExpiry  = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Proofs - type for RPC calls
type Proofs struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Server  *server.Server
	Cache   *cache.Cache
	Start   time.Time
	Version string
	counter *counter.Counter
}

// New - proofs service over a commitment manager
func New(log *logger.L, srv *server.Server, start time.Time, version string, count *counter.Counter) *Proofs {
	return &Proofs{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitProofs, rateBurstProofs),
		Server:  srv,
		Cache:   cache.New(cacheExpiry, cacheCleanup),
		Start:   start,
		Version: version,
		counter: count,
	}
}

// ProofReply - a packed proof
type ProofReply struct {
	Proof []byte `json:"proof"`
}

// packed proof from cache or freshly built
//
// keys include the server generation so a changed tree never serves
// an old proof
func (p *Proofs) cached(key string, build func() (proof.Proof, error)) ([]byte, error) {
	key = fmt.Sprintf("%d/%s", p.Server.Generation(), key)

	if item, found := p.Cache.Get(key); found {
		return item.([]byte), nil
	}

	pr, err := build()
	if nil != err {
		return nil, err
	}
	packed, err := pr.Pack()
	if nil != err {
		return nil, err
	}
	p.Cache.SetDefault(key, packed)

	p.Log.Debugf("cached: %s  size: %d", key, len(packed))
	return packed, nil
}

// ---

// RecordArguments - which record at which commitment
type RecordArguments struct {
	RecordIndex int `json:"recordIndex"`
	Commitment  int `json:"commitment"`
}

// Record - proof that a record is in the log
func (p *Proofs) Record(arguments *RecordArguments, reply *ProofReply) error {

	if err := ratelimit.Limit(p.Limiter); nil != err {
		return err
	}

	p.Log.Infof("Proofs.Record: %+v", arguments)

	key := fmt.Sprintf("record/%d/%d", arguments.RecordIndex, arguments.Commitment)
	packed, err := p.cached(key, func() (proof.Proof, error) {
		return p.Server.ConstructRecordProof(arguments.RecordIndex, arguments.Commitment)
	})
	if nil != err {
		return err
	}
	reply.Proof = packed
	return nil
}

// ---

// ConsistencyArguments - inclusive commitment range
type ConsistencyArguments struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Consistency - proof that a range of commitments share one history
func (p *Proofs) Consistency(arguments *ConsistencyArguments, reply *ProofReply) error {

	if err := ratelimit.Limit(p.Limiter); nil != err {
		return err
	}

	p.Log.Infof("Proofs.Consistency: %+v", arguments)

	key := fmt.Sprintf("consistency/%d/%d", arguments.Start, arguments.End)
	packed, err := p.cached(key, func() (proof.Proof, error) {
		return p.Server.ConstructConsistencyProof(arguments.Start, arguments.End)
	})
	if nil != err {
		return err
	}
	reply.Proof = packed
	return nil
}

// ---

// AggregationArguments - which commitment
type AggregationArguments struct {
	Commitment int `json:"commitment"`
}

// Aggregation - root aggregation of a commitment
func (p *Proofs) Aggregation(arguments *AggregationArguments, reply *ProofReply) error {

	if err := ratelimit.Limit(p.Limiter); nil != err {
		return err
	}

	p.Log.Infof("Proofs.Aggregation: %+v", arguments)

	key := fmt.Sprintf("aggregation/%d", arguments.Commitment)
	packed, err := p.cached(key, func() (proof.Proof, error) {
		return p.Server.ConstructAggregationProof(arguments.Commitment)
	})
	if nil != err {
		return err
	}
	reply.Proof = packed
	return nil
}

// ---

// QueryArguments - packed categorical filter, a negative commitment
// selects the current one
type QueryArguments struct {
	Filter     []byte `json:"filter"`
	Commitment int    `json:"commitment"`
}

// Query - every record matching a filter
func (p *Proofs) Query(arguments *QueryArguments, reply *ProofReply) error {

	if err := ratelimit.Limit(p.Limiter); nil != err {
		return err
	}

	filter, n, err := attributes.UnpackCategorical(arguments.Filter)
	if nil != err {
		return err
	}
	if n != len(arguments.Filter) {
		return fault.ErrTrailingData
	}

	number := arguments.Commitment
	if number < 0 {
		c, err := p.Server.CurrentCommitment()
		if nil != err {
			return err
		}
		number = c.Number
	}

	p.Log.Infof("Proofs.Query: %s  commitment: %d", filter, number)

	key := fmt.Sprintf("query/%x/%d", arguments.Filter, number)
	packed, err := p.cached(key, func() (proof.Proof, error) {
		return p.Server.QueryRecordsByFilterAt(filter, number)
	})
	if nil != err {
		return err
	}
	reply.Proof = packed
	return nil
}

// ---

// CommitmentArguments - a negative number selects the current one
type CommitmentArguments struct {
	Number int `json:"number"`
}

// CommitmentReply - a sealed commitment
type CommitmentReply struct {
	Number      int                `json:"number"`
	RecordIndex int                `json:"recordIndex"`
	Digest      aggregation.Digest `json:"digest"`
}

// Commitment - look up a commitment
func (p *Proofs) Commitment(arguments *CommitmentArguments, reply *CommitmentReply) error {

	if err := ratelimit.Limit(p.Limiter); nil != err {
		return err
	}

	var c commitment.Commitment
	var err error
	if arguments.Number < 0 {
		c, err = p.Server.CurrentCommitment()
	} else {
		c, err = p.Server.Commitment(arguments.Number)
	}
	if nil != err {
		return err
	}

	reply.Number = c.Number
	reply.RecordIndex = c.RecordIndex
	reply.Digest = c.Digest
	return nil
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	server.Info
	RPCs    uint64 `json:"rpcs"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Info - counters and version
func (p *Proofs) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(p.Limiter); nil != err {
		return err
	}

	reply.Info = p.Server.Info()
	if nil != p.counter {
		reply.RPCs = p.counter.Uint64()
	}
	reply.Version = p.Version
	reply.Uptime = time.Since(p.Start).String()
	return nil
}
