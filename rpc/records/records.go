// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package records - RPC service accepting new records
package records

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/bverifyd/rpc/ratelimit"
	"github.com/bitmark-inc/bverifyd/server"
	"github.com/bitmark-inc/logger"
)

const (
	rateLimitRecords = 100
	rateBurstRecords = 50
)

// Records - type for RPC calls
type Records struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Server  *server.Server
}

// New - records service over a commitment manager
func New(log *logger.L, srv *server.Server) *Records {
	return &Records{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitRecords, rateBurstRecords),
		Server:  srv,
	}
}

// SubmitArguments - a packed record
type SubmitArguments struct {
	Record []byte `json:"record"`
}

// SubmitReply - where the record went
type SubmitReply struct {
	Type             string `json:"type"`
	RecordIndex      int    `json:"recordIndex"`
	TotalCommitments int    `json:"totalCommitments"`
}

// Submit - validate and append a record
func (r *Records) Submit(arguments *SubmitArguments, reply *SubmitReply) error {

	if err := ratelimit.Limit(r.Limiter); nil != err {
		return err
	}

	rec, err := record.FromBytes(arguments.Record)
	if nil != err {
		r.Log.Warnf("Records.Submit: unpack error: %s", err)
		return err
	}

	index, err := r.Server.AddRecord(rec)
	if nil != err {
		return err
	}

	reply.Type, _ = record.RecordName(rec)
	reply.RecordIndex = index
	reply.TotalCommitments = r.Server.TotalCommitments()

	r.Log.Infof("Records.Submit: %s  index: %d", reply.Type, index)
	return nil
}
