// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitmark-inc/bverifyd/counter"
	"github.com/bitmark-inc/bverifyd/server"
)

const metricsNamespace = "bverifyd"

// gauges read from the commitment manager on each scrape
func newRegistry(srv *server.Server, rpcCount *counter.Counter, httpsCount *counter.Counter) *prometheus.Registry {
	gauge := func(subsystem string, name string, help string, value func() float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, value)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		gauge("log", "records", "Number of records in the log", func() float64 {
			return float64(srv.TotalRecords())
		}),
		gauge("log", "committed_records", "Number of records covered by a commitment", func() float64 {
			return float64(srv.TotalCommittedRecords())
		}),
		gauge("log", "commitments", "Number of sealed commitments", func() float64 {
			return float64(srv.TotalCommitments())
		}),
		gauge("log", "generation", "Tree generation, changes on every seal or rewrite", func() float64 {
			return float64(srv.Generation())
		}),
		gauge("rpc", "connections", "Open JSON RPC connections", func() float64 {
			return float64(rpcCount.Uint64())
		}),
		gauge("https", "connections", "HTTPS requests in progress", func() float64 {
			return float64(httpsCount.Uint64())
		}),
	)
	return registry
}
