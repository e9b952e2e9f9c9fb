// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"crypto/tls"
	"net"
	netrpc "net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/client"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/proof"
	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/bverifyd/rpc/proofs"
	"github.com/bitmark-inc/bverifyd/rpc/records"
	"github.com/bitmark-inc/bverifyd/rpc/statements"
)

const dialTimeout = 10 * time.Second

// Client - JSON RPC connection to a commitment manager
type Client struct {
	rpc *netrpc.Client
}

var _ client.ProofSource = (*Client)(nil)
var _ ledger.Reader = (*Client)(nil)

// Dial - connect to a client_rpc listener, TLS when tlsConfig is set
func Dial(address string, tlsConfig *tls.Config) (*Client, error) {
	dialer := &net.Dialer{Timeout: dialTimeout}

	var conn net.Conn
	var err error
	if nil == tlsConfig {
		conn, err = dialer.Dial("tcp", address)
	} else {
		conn, err = tls.DialWithDialer(dialer, "tcp", address, tlsConfig)
	}
	if nil != err {
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient - wrap an existing connection
func NewClient(conn net.Conn) *Client {
	return &Client{
		rpc: jsonrpc.NewClient(conn),
	}
}

// Close - drop the connection
func (c *Client) Close() error {
	return c.rpc.Close()
}

// RecordProof - fetch a record proof
func (c *Client) RecordProof(recordIndex int, commitmentNumber int) (*proof.RecordProof, error) {
	var reply proofs.ProofReply
	err := c.rpc.Call("Proofs.Record", &proofs.RecordArguments{RecordIndex: recordIndex, Commitment: commitmentNumber}, &reply)
	if nil != err {
		return nil, err
	}
	return proof.UnpackRecordProof(reply.Proof)
}

// ConsistencyProof - fetch a consistency proof
func (c *Client) ConsistencyProof(start int, end int) (*proof.ConsistencyProof, error) {
	var reply proofs.ProofReply
	err := c.rpc.Call("Proofs.Consistency", &proofs.ConsistencyArguments{Start: start, End: end}, &reply)
	if nil != err {
		return nil, err
	}
	return proof.UnpackConsistencyProof(reply.Proof)
}

// AggregationProof - fetch an aggregation proof
func (c *Client) AggregationProof(commitmentNumber int) (*proof.AggregationProof, error) {
	var reply proofs.ProofReply
	err := c.rpc.Call("Proofs.Aggregation", &proofs.AggregationArguments{Commitment: commitmentNumber}, &reply)
	if nil != err {
		return nil, err
	}
	return proof.UnpackAggregationProof(reply.Proof)
}

// QueryProof - fetch a categorical query proof
func (c *Client) QueryProof(filter *attributes.Categorical, commitmentNumber int) (*proof.CategoricalQueryProof, error) {
	var reply proofs.ProofReply
	err := c.rpc.Call("Proofs.Query", &proofs.QueryArguments{Filter: filter.Pack(), Commitment: commitmentNumber}, &reply)
	if nil != err {
		return nil, err
	}
	return proof.UnpackCategoricalQueryProof(reply.Proof)
}

// Commitment - commitment details, negative number for the current one
func (c *Client) Commitment(number int) (*proofs.CommitmentReply, error) {
	var reply proofs.CommitmentReply
	err := c.rpc.Call("Proofs.Commitment", &proofs.CommitmentArguments{Number: number}, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}

// Info - server counters
func (c *Client) Info() (*proofs.InfoReply, error) {
	var reply proofs.InfoReply
	err := c.rpc.Call("Proofs.Info", &proofs.InfoArguments{}, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}

// Submit - append a record to the log
func (c *Client) Submit(r record.Record) (*records.SubmitReply, error) {
	packed, err := r.Pack()
	if nil != err {
		return nil, err
	}
	var reply records.SubmitReply
	err = c.rpc.Call("Records.Submit", &records.SubmitArguments{Record: packed}, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}

// Statements - the server's copy of the ledger from start, wrap the
// client in ledger.NewCheckedReader before trusting it
func (c *Client) Statements(start int) ([]ledger.Statement, error) {
	result := make([]ledger.Statement, 0)
	for {
		var reply statements.ReadReply
		arguments := statements.ReadArguments{
			Start: start + len(result),
			Count: statements.MaximumCount,
		}
		err := c.rpc.Call("Statements.Read", &arguments, &reply)
		if nil != err {
			return nil, err
		}
		result = append(result, reply.Statements...)
		if len(reply.Statements) < statements.MaximumCount {
			return result, nil
		}
	}
}
