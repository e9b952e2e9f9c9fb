// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/client"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/rpc"
	"github.com/bitmark-inc/bverifyd/rpc/certificate"
)

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

// verifier warnings go to a log file in the temporary directory and,
// with --verbose, to the console as well
func setupLogging(verbose bool) error {
	level := "error"
	if verbose {
		level = "info"
	}

	directory := filepath.Join(os.TempDir(), "bverify-cli")
	err := os.MkdirAll(directory, 0700)
	if nil != err {
		return err
	}

	logging := logger.Configuration{
		Directory: directory,
		File:      "bverify-cli.log",
		Size:      1048576,
		Count:     5,
		Console:   verbose,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	}
	return logger.Initialise(logging)
}

// connect to the configured server
func connect(m *metadata) (*rpc.Client, error) {
	if m.verbose {
		fmt.Fprintf(m.e, "connecting to: %s  tls: %t\n", m.connect, m.useTLS)
	}
	if !m.useTLS {
		return rpc.Dial(m.connect, nil)
	}

	tlsConfig, err := makeTLSConfig(m.fingerprint)
	if nil != err {
		return nil, err
	}
	return rpc.Dial(m.connect, tlsConfig)
}

// bverifyd certificates are self signed so the only check possible
// is the fingerprint, if one was given
func makeTLSConfig(fingerprint string) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}
	if "" == fingerprint {
		return tlsConfig, nil
	}

	expected, err := hex.DecodeString(fingerprint)
	if nil != err || 32 != len(expected) {
		return nil, fault.ErrInvalidFingerprint
	}

	tlsConfig.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if 0 == len(rawCerts) {
			return fault.ErrInvalidFingerprint
		}
		actual := certificate.Fingerprint(rawCerts[0])
		if !bytes.Equal(expected, actual[:]) {
			return fault.ErrInvalidFingerprint
		}
		return nil
	}
	return tlsConfig, nil
}

// a verifier whose ledger copy is checked as it is read, with every
// commitment in the ledger verified
func verifiedClient(m *metadata) (*rpc.Client, *client.Verifier, error) {
	c, err := connect(m)
	if nil != err {
		return nil, nil, err
	}

	v := client.New(ledger.NewCheckedReader(c), c)
	n, err := v.LoadStatements()
	if nil != err {
		c.Close()
		return nil, nil, err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "loaded commitments: %d\n", n)
	}

	err = v.VerifyConsistency()
	if nil != err {
		c.Close()
		return nil, nil, err
	}
	return c, v, nil
}

// parse "1,5,7" into a categorical vector of the default length
func parseCategories(s string) (*attributes.Categorical, error) {
	s = strings.TrimSpace(s)
	if "" == s {
		return attributes.NewCategorical(attributes.DefaultCategoricalLength), nil
	}

	var set []int
	for _, item := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(item))
		if nil != err {
			return nil, fmt.Errorf("flag: %q is not a number", item)
		}
		set = append(set, n)
	}
	return attributes.NewCategoricalWith(attributes.DefaultCategoricalLength, set...)
}
