// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"strings"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/bverifyd/commitment"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

// Subscriber - receive side of the commitment broadcast
type Subscriber struct {
	socket *zmq.Socket
}

// Subscribe - connect to a broadcaster, address is "IP:port" and a
// zero timeout waits forever
func Subscribe(address string, timeout time.Duration) (*Subscriber, error) {

	c, err := util.NewConnection(address)
	if nil != err {
		return nil, err
	}
	connectTo, v6 := c.CanonicalIPandPort("tcp://")

	socket, err := zmq.NewSocket(zmq.SUB)
	if nil != err {
		return nil, err
	}

	socket.SetLinger(0)
	socket.SetIpv6(v6)

	// keep-alive settings
	socket.SetTcpKeepalive(1)
	socket.SetTcpKeepaliveCnt(5)
	socket.SetTcpKeepaliveIdle(60)
	socket.SetTcpKeepaliveIntvl(60)

	if timeout > 0 {
		socket.SetRcvtimeo(timeout)
	}

	if err := socket.SetSubscribe(CommitmentCommand); nil != err {
		socket.Close()
		return nil, err
	}

	if err := socket.Connect(connectTo); nil != err {
		socket.Close()
		return nil, err
	}

	return &Subscriber{
		socket: socket,
	}, nil
}

// Receive - wait for the next broadcast commitment
func (s *Subscriber) Receive() (commitment.Commitment, error) {
	data, err := s.socket.RecvMessageBytes(0)
	if nil != err {
		return commitment.Commitment{}, err
	}
	if 2 != len(data) || CommitmentCommand != strings.TrimSpace(string(data[0])) {
		return commitment.Commitment{}, fault.ErrInvalidCount
	}
	return commitment.Unpack(data[1])
}

// Close - release the socket
func (s *Subscriber) Close() error {
	return s.socket.Close()
}
