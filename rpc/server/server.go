// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server - assemble the RPC services for a commitment manager
package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/bverifyd/counter"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/rpc/proofs"
	"github.com/bitmark-inc/bverifyd/rpc/records"
	"github.com/bitmark-inc/bverifyd/rpc/statements"
	"github.com/bitmark-inc/bverifyd/server"
	"github.com/bitmark-inc/logger"
)

// Create - an RPC server with the Proofs and Records services, and
// Statements when a ledger reader is given
func Create(log *logger.L, srv *server.Server, reader ledger.Reader, version string, rpcCount *counter.Counter) *rpc.Server {

	start := time.Now().UTC()

	s := rpc.NewServer()

	_ = s.Register(proofs.New(log, srv, start, version, rpcCount))
	_ = s.Register(records.New(log, srv))
	if nil != reader {
		_ = s.Register(statements.New(log, reader))
	}

	return s
}
