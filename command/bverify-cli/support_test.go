// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/x509"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/rpc/certificate"
)

func TestParseCategories(t *testing.T) {
	c, err := parseCategories(" 1, 5,7")
	assert.Nil(t, err, "wrong parse error")
	assert.Equal(t, attributes.DefaultCategoricalLength, c.Len(), "wrong length")
	assert.Equal(t, 3, c.Count(), "wrong count")
	assert.True(t, c.Get(1), "bit 1 not set")
	assert.True(t, c.Get(5), "bit 5 not set")
	assert.True(t, c.Get(7), "bit 7 not set")
	assert.False(t, c.Get(2), "bit 2 set")

	c, err = parseCategories("")
	assert.Nil(t, err, "wrong empty parse error")
	assert.Equal(t, 0, c.Count(), "empty flags set bits")

	_, err = parseCategories("1,x")
	assert.NotNil(t, err, "non-number accepted")

	_, err = parseCategories("64")
	assert.NotNil(t, err, "out of range bit accepted")
}

func TestTLSFingerprint(t *testing.T) {
	config, err := makeTLSConfig("")
	assert.Nil(t, err, "wrong plain tls error")
	assert.True(t, config.InsecureSkipVerify, "self signed certificates rejected")
	assert.Nil(t, config.VerifyPeerCertificate, "unexpected peer check")

	_, err = makeTLSConfig("abcd")
	assert.Equal(t, fault.ErrInvalidFingerprint, err, "short fingerprint accepted")

	_, err = makeTLSConfig("zz")
	assert.Equal(t, fault.ErrInvalidFingerprint, err, "non hex fingerprint accepted")

	der := []byte("certificate bytes")
	fingerprint := certificate.Fingerprint(der)

	config, err = makeTLSConfig(hex.EncodeToString(fingerprint[:]))
	assert.Nil(t, err, "wrong fingerprint error")
	assert.Nil(t, config.VerifyPeerCertificate([][]byte{der}, [][]*x509.Certificate{}), "matching certificate rejected")
	assert.Equal(t, fault.ErrInvalidFingerprint, config.VerifyPeerCertificate([][]byte{[]byte("other")}, nil), "other certificate accepted")
	assert.Equal(t, fault.ErrInvalidFingerprint, config.VerifyPeerCertificate(nil, nil), "missing certificate accepted")
}
