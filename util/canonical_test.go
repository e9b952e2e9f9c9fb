// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/util"
)

func TestCanonical(t *testing.T) {

	testData := []struct {
		in  string
		out string
		v6  bool
	}{
		{"127.0.0.1:1234", "127.0.0.1:1234", false},
		{" 127.0.0.1:1 ", "127.0.0.1:1", false},
		{"127.0.0.1:65535", "127.0.0.1:65535", false},
		{"0.0.0.0:1234", "0.0.0.0:1234", false},
		{"*:2150", "0.0.0.0:2150", false},
		{"[::1]:1234", "[::1]:1234", true},
		{"[0:0::1]:1234", "[::1]:1234", true},
		{"[2404:6800:4008:0c07::66]:443", "[2404:6800:4008:c07::66]:443", true},
	}

	for i, item := range testData {
		c, err := util.NewConnection(item.in)
		if !assert.Nil(t, err, "%d: %q", i, item.in) {
			continue
		}
		s, v6 := c.CanonicalIPandPort("")
		assert.Equal(t, item.out, s, "%d: canonical", i)
		assert.Equal(t, item.v6, v6, "%d: v6", i)
		assert.Equal(t, item.out, c.String(), "%d: string", i)
	}
}

func TestCanonicalPrefix(t *testing.T) {
	c, err := util.NewConnection("[::1]:2140")
	assert.Nil(t, err, "connection")
	s, v6 := c.CanonicalIPandPort("tcp://")
	assert.Equal(t, "tcp://[::1]:2140", s, "prefixed")
	assert.True(t, v6, "v6")
}

func TestCanonicalErrors(t *testing.T) {

	testData := []struct {
		in  string
		err error
	}{
		{"", fault.ErrInvalidIPAddress},
		{"localhost:1234", fault.ErrInvalidIPAddress},
		{"256.0.0.0:1234", fault.ErrInvalidIPAddress},
		{"::1:1234", fault.ErrInvalidIPAddress},
		{"127.0.0.1:0", fault.ErrInvalidPortNumber},
		{"127.0.0.1:65536", fault.ErrInvalidPortNumber},
		{"127.0.0.1:-1", fault.ErrInvalidPortNumber},
		{"127.0.0.1:port", fault.ErrInvalidPortNumber},
	}

	for i, item := range testData {
		_, err := util.NewConnection(item.in)
		assert.Equal(t, item.err, err, "%d: %q", i, item.in)
	}

	_, err := util.NewConnections(nil)
	assert.Equal(t, fault.ErrInvalidCount, err, "empty list")
}
