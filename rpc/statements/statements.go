// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package statements - RPC service serving a copy of the ledger
//
// clients must check the hash chain themselves, see
// ledger.CheckedReader
package statements

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/rpc/ratelimit"
	"github.com/bitmark-inc/logger"
)

const (
	rateLimitStatements = 100
	rateBurstStatements = 200

	// MaximumCount - largest number of statements in one reply
	MaximumCount = 100
)

// Statements - type for RPC calls
type Statements struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Reader  ledger.Reader
}

// New - statements service over a ledger
func New(log *logger.L, reader ledger.Reader) *Statements {
	return &Statements{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitStatements, rateBurstStatements),
		Reader:  reader,
	}
}

// ReadArguments - start and count
type ReadArguments struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

// ReadReply - statements oldest first
type ReadReply struct {
	Statements []ledger.Statement `json:"statements"`
}

// Read - a batch of statements from start
func (s *Statements) Read(arguments *ReadArguments, reply *ReadReply) error {

	if err := ratelimit.LimitN(s.Limiter, arguments.Count, MaximumCount); nil != err {
		return err
	}

	statements, err := s.Reader.Statements(arguments.Start)
	if nil != err {
		return err
	}
	if len(statements) > arguments.Count {
		statements = statements[:arguments.Count]
	}

	s.Log.Debugf("Statements.Read: start: %d  count: %d", arguments.Start, len(statements))

	reply.Statements = statements
	return nil
}
