// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/rpc/ratelimit"
)

func TestLimit(t *testing.T) {
	limiter := rate.NewLimiter(1000, 5)

	start := time.Now()
	for i := 0; i < 5; i += 1 {
		assert.Nil(t, ratelimit.Limit(limiter), "burst: %d", i)
	}
	assert.True(t, time.Since(start) < 100*time.Millisecond, "burst does not wait")
}

func TestLimitZeroBurst(t *testing.T) {
	limiter := rate.NewLimiter(10, 0)
	assert.Equal(t, fault.ErrRateLimiting, ratelimit.Limit(limiter), "no burst")
}

func TestLimitN(t *testing.T) {
	limiter := rate.NewLimiter(1000, 10)

	assert.Nil(t, ratelimit.LimitN(limiter, 3, 5), "within maximum")
	assert.Equal(t, fault.ErrInvalidCount, ratelimit.LimitN(limiter, 0, 5), "zero count")
	assert.Equal(t, fault.ErrInvalidCount, ratelimit.LimitN(limiter, 6, 5), "above maximum")
	assert.Equal(t, fault.ErrRateLimiting, ratelimit.LimitN(limiter, 15, 20), "above burst")
}
