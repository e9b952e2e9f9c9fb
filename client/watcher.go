// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client

import (
	"time"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/logger"
)

// DefaultWatchInterval - time between ledger polls
const DefaultWatchInterval = 10 * time.Second

// Watcher - background process that keeps a verifier up to date
//
// stops for good after a consistency violation
type Watcher struct {
	Verifier *Verifier
	Interval time.Duration
}

// Run - poll the ledger and verify until shutdown
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {

	log := logger.New("watcher")

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	log.Info("starting…")

loop:
	for {
		if !w.poll(log) {
			break loop
		}

		select {
		case <-shutdown:
			break loop
		case <-time.After(interval):
		}
	}

	log.Info("stopped")
}

// one round, returns false if the server can no longer be trusted
func (w *Watcher) poll(log *logger.L) bool {
	n, err := w.Verifier.LoadStatements()
	if nil != err {
		log.Errorf("load statements error: %s", err)
		return !fault.IsErrConsistency(err)
	}
	if 0 == n {
		return true
	}

	err = w.Verifier.VerifyConsistency()
	if fault.IsErrConsistency(err) {
		log.Criticalf("server distrusted: %s", err)
		return false
	}
	if nil != err {
		log.Errorf("verify error: %s", err)
		return true
	}

	log.Infof("verified up to commitment: %d", w.Verifier.CurrentCommitment())
	return true
}
