// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/counter"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/fixtures"
	"github.com/bitmark-inc/bverifyd/rpc/certificate"
	"github.com/bitmark-inc/bverifyd/rpc/listeners"
	"github.com/bitmark-inc/logger"
)

type Add struct{}
type AddArg struct {
	A, B int
}

func (a Add) Add(arg *AddArg, reply *int) error {
	*reply = arg.A + arg.B
	return nil
}

func newServer(t *testing.T) *rpc.Server {
	s := rpc.NewServer()
	assert.Nil(t, s.Register(Add{}), "register")
	return s
}

func TestRpcListenerServe(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	con := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Listen:             []string{"127.0.0.1:0"},
	}
	_, err := listeners.NewRPC(&con, logger.New(fixtures.LogCategory), new(counter.Counter), newServer(t), nil)
	assert.Equal(t, fault.ErrInvalidPortNumber, err, "port zero is not configurable")

	con.Listen = []string{"127.0.0.1:22150"}
	count := counter.Counter(0)
	l, err := listeners.NewRPC(&con, logger.New(fixtures.LogCategory), &count, newServer(t), nil)
	assert.Nil(t, err, "wrong NewRPC")

	err = l.Serve()
	assert.Nil(t, err, "wrong Serve")
	defer l.Close()

	assert.Equal(t, []string{"127.0.0.1:22150"}, l.Addresses(), "addresses")

	conn, err := net.Dial("tcp", "127.0.0.1:22150")
	assert.Nil(t, err, "dial")

	arg := AddArg{A: 2, B: 5}
	var reply int

	client := jsonrpc.NewClient(conn)
	defer client.Close()
	err = client.Call("Add.Add", &arg, &reply)
	assert.Nil(t, err, "wrong client Call")
	assert.Equal(t, arg.A+arg.B, reply, "wrong result")
	assert.Equal(t, uint64(1), count.Uint64(), "one connection")
}

func TestRpcListenerTLS(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)

	cer := filepath.Join(fixtures.TestDirectory(), "rpc.crt")
	key := filepath.Join(fixtures.TestDirectory(), "rpc.key")
	assert.Nil(t, certificate.Generate("test", cer, key, nil), "generate")
	tlsConfig, _, err := certificate.Get(log, "test", cer, key)
	assert.Nil(t, err, "certificate")

	con := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Listen:             []string{"127.0.0.1:22151"},
	}
	l, err := listeners.NewRPC(&con, log, new(counter.Counter), newServer(t), tlsConfig)
	assert.Nil(t, err, "wrong NewRPC")
	assert.Nil(t, l.Serve(), "wrong Serve")
	defer l.Close()

	conn, err := tls.Dial("tcp", "127.0.0.1:22151", &tls.Config{InsecureSkipVerify: true})
	assert.Nil(t, err, "dial")

	var reply int
	client := jsonrpc.NewClient(conn)
	defer client.Close()
	assert.Nil(t, client.Call("Add.Add", &AddArg{A: 3, B: 4}, &reply), "call")
	assert.Equal(t, 7, reply, "result")
}

func TestRpcListenerConnectionLimit(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	con := listeners.RPCConfiguration{
		MaximumConnections: 1,
		Listen:             []string{"127.0.0.1:22152"},
	}
	count := counter.Counter(0)
	l, err := listeners.NewRPC(&con, logger.New(fixtures.LogCategory), &count, newServer(t), nil)
	assert.Nil(t, err, "wrong NewRPC")
	assert.Nil(t, l.Serve(), "wrong Serve")
	defer l.Close()

	first, err := net.Dial("tcp", "127.0.0.1:22152")
	assert.Nil(t, err, "first dial")
	c1 := jsonrpc.NewClient(first)
	defer c1.Close()
	var reply int
	assert.Nil(t, c1.Call("Add.Add", &AddArg{A: 1, B: 1}, &reply), "first call")

	second, err := net.Dial("tcp", "127.0.0.1:22152")
	assert.Nil(t, err, "second dial")
	c2 := jsonrpc.NewClient(second)
	defer c2.Close()

	done := make(chan error, 1)
	go func() {
		done <- c2.Call("Add.Add", &AddArg{A: 1, B: 1}, &reply)
	}()
	select {
	case err := <-done:
		assert.NotNil(t, err, "second connection rejected")
	case <-time.After(5 * time.Second):
		t.Error("second connection was not closed")
	}
	assert.Equal(t, uint64(1), count.Uint64(), "still one connection")
}

func TestRpcListenerBadConfiguration(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)
	s := newServer(t)

	testData := []struct {
		con listeners.RPCConfiguration
		err error
	}{
		{listeners.RPCConfiguration{MaximumConnections: 0, Listen: []string{"127.0.0.1:1234"}}, fault.ErrMissingParameters},
		{listeners.RPCConfiguration{MaximumConnections: 1, Listen: []string{}}, fault.ErrMissingParameters},
		{listeners.RPCConfiguration{MaximumConnections: 1, Listen: []string{"localhost:1234"}}, fault.ErrInvalidIPAddress},
	}

	for i, item := range testData {
		_, err := listeners.NewRPC(&item.con, log, new(counter.Counter), s, nil)
		assert.Equal(t, item.err, err, "%d: error", i)
	}
}
