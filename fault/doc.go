// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches
//
// errors are grouped in classes so that callers can decide how to
// react without enumerating every instance:
//
//   LengthError      - attribute vectors of different shapes were combined
//   InvalidError     - malformed input or a proof that failed its check
//   NotFoundError    - tree data or a commitment that does not exist yet
//   ConsistencyError - the server rewrote history, stop trusting it
package fault
