// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package attributes - fixed shape attribute vectors carried by records
//
// Categorical is a bit vector of flags, aggregated by union.
// Numerical is a vector of signed amounts, aggregated by sum.
//
// Both shapes are fixed at construction; combining vectors of
// different lengths returns fault.ErrShapeMismatch.
//
// Values handed out by accessors are independent copies so that a
// record's attributes cannot be changed through them.
package attributes
