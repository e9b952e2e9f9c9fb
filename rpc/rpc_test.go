// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc_test

import (
	"crypto/tls"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/attributes"
	"github.com/bitmark-inc/bverifyd/client"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/fixtures"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/record"
	"github.com/bitmark-inc/bverifyd/rpc"
	"github.com/bitmark-inc/bverifyd/rpc/certificate"
	"github.com/bitmark-inc/bverifyd/rpc/listeners"
	"github.com/bitmark-inc/bverifyd/server"
)

const (
	rpcAddress   = "127.0.0.1:22160"
	httpsAddress = "127.0.0.1:22161"
)

func TestEndToEnd(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	certificateFile := filepath.Join(fixtures.TestDirectory(), "rpc.crt")
	keyFile := filepath.Join(fixtures.TestDirectory(), "rpc.key")
	err := certificate.Generate("test", certificateFile, keyFile, []string{"127.0.0.1"})
	assert.Nil(t, err, "generate certificate")

	l := ledger.NewMemory()
	srv, err := server.New(server.Configuration{CommitInterval: 3, CommitToLedger: true}, nil, nil, l, nil)
	assert.Nil(t, err, "server")

	rpcConfiguration := listeners.RPCConfiguration{
		MaximumConnections: 10,
		Listen:             []string{rpcAddress},
	}
	httpsConfiguration := rpc.HTTPSConfiguration{
		MaximumConnections: 10,
		Listen:             []string{httpsAddress},
		Certificate:        certificateFile,
		PrivateKey:         keyFile,
		Allow: map[string][]string{
			"details": {"127.0.0.0/8"},
		},
	}

	err = rpc.Initialise(&rpcConfiguration, &httpsConfiguration, srv, l, "test")
	assert.Nil(t, err, "initialise")
	defer func() {
		assert.Nil(t, rpc.Finalise(), "finalise")
	}()

	err = rpc.Initialise(&rpcConfiguration, &httpsConfiguration, srv, l, "test")
	assert.Equal(t, fault.ErrAlreadyInitialised, err, "second initialise")

	c, err := rpc.Dial(rpcAddress, nil)
	assert.Nil(t, err, "dial")
	defer c.Close()

	for i, r := range []record.Record{fixtures.Deposit(100), fixtures.Deposit(100), fixtures.Transfer(50)} {
		reply, err := c.Submit(r)
		assert.Nil(t, err, "submit: %d", i)
		assert.Equal(t, i, reply.RecordIndex, "index: %d", i)
	}

	info, err := c.Info()
	assert.Nil(t, err, "info")
	assert.Equal(t, 3, info.TotalRecords, "records")
	assert.Equal(t, 1, info.TotalCommitments, "commitments")

	current, err := c.Commitment(-1)
	assert.Nil(t, err, "current commitment")
	assert.Equal(t, 2, current.RecordIndex, "record index")

	remote := ledger.NewCheckedReader(c)
	v := client.New(remote, c)
	n, err := v.LoadStatements()
	assert.Nil(t, err, "load statements")
	assert.Equal(t, 1, n, "one statement")
	assert.Nil(t, v.VerifyConsistency(), "consistency")
	assert.Equal(t, 1, remote.Count(), "chain checked")

	r, err := v.GetAndVerifyRecord(2)
	assert.Nil(t, err, "verify record")
	assert.True(t, record.Equal(fixtures.Transfer(50), r), "transfer returned")

	a, err := v.GetAndCheckAggregation(0)
	assert.Nil(t, err, "aggregation")
	assert.Equal(t, int64(250), a.Numerical.Get(0), "total")
	assert.Equal(t, current.Digest, a.Hash, "published digest")

	filter := attributes.NewCategorical(attributes.DefaultCategoricalLength)
	indices, _, err := v.QueryByFilter(filter)
	assert.Nil(t, err, "query")
	assert.Equal(t, []int{0, 1, 2}, indices, "empty filter matches all")

	_, err = c.RecordProof(0, 4)
	assert.NotNil(t, err, "unknown commitment")
	assert.True(t, strings.Contains(err.Error(), fault.ErrCommitmentNotFound.Error()), "remote error text")

	// https side
	h := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	response, err := h.Get("https://" + httpsAddress + "/bverifyd/details")
	assert.Nil(t, err, "details")
	body, err := ioutil.ReadAll(response.Body)
	response.Body.Close()
	assert.Nil(t, err, "details body")
	assert.Equal(t, http.StatusOK, response.StatusCode, "details status")

	var details struct {
		TotalRecords int    `json:"totalRecords"`
		Version      string `json:"version"`
	}
	assert.Nil(t, json.Unmarshal(body, &details), "details json")
	assert.Equal(t, 3, details.TotalRecords, "details records")
	assert.Equal(t, "test", details.Version, "details version")

	response, err = h.Get("https://" + httpsAddress + "/bverifyd/metrics")
	assert.Nil(t, err, "metrics")
	response.Body.Close()
	assert.Equal(t, http.StatusForbidden, response.StatusCode, "metrics not allowed")

	response, err = h.Get("https://" + httpsAddress + "/bverifyd/rpc")
	assert.Nil(t, err, "rpc by get")
	response.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, response.StatusCode, "rpc requires post")

	request := `{"method":"Proofs.Info","params":[{}],"id":1}`
	response, err = h.Post("https://"+httpsAddress+"/bverifyd/rpc", "application/json", strings.NewReader(request))
	assert.Nil(t, err, "rpc by post")
	body, err = ioutil.ReadAll(response.Body)
	response.Body.Close()
	assert.Nil(t, err, "rpc body")
	assert.Contains(t, string(body), `"totalCommitments":1`, "rpc reply")
}

func TestFinaliseNotInitialised(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	assert.Equal(t, fault.ErrNotInitialised, rpc.Finalise(), "not initialised")
}
