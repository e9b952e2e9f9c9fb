// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"time"

	"github.com/bitmark-inc/bverifyd/server"
	"github.com/bitmark-inc/logger"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

func stats(srv *server.Server) {

	log := logger.New("stats")

	for {
		info := srv.Info()
		log.Infof("records: %d  committed: %d  commitments: %d  generation: %d", info.TotalRecords, info.TotalCommittedRecords, info.TotalCommitments, info.Generation)

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M", m.Alloc/mega, m.TotalAlloc/mega, m.Sys/mega)

		time.Sleep(statsDelay)
	}
}
