// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/bverifyd/aggregation"
	"github.com/bitmark-inc/bverifyd/client"
	"github.com/bitmark-inc/bverifyd/record"
)

type verifyReply struct {
	TotalCommitments  int                `json:"totalCommitments"`
	CurrentCommitment int                `json:"currentCommitment"`
	Digest            aggregation.Digest `json:"digest"`
}

func makeVerifyReply(v *client.Verifier) (*verifyReply, error) {
	current := v.CurrentCommitment()
	if current < 0 {
		return &verifyReply{
			TotalCommitments:  v.TotalCommitments(),
			CurrentCommitment: current,
			Digest:            aggregation.NullDigest,
		}, nil
	}
	digest, err := v.Commitment(current)
	if nil != err {
		return nil, err
	}
	return &verifyReply{
		TotalCommitments:  v.TotalCommitments(),
		CurrentCommitment: current,
		Digest:            digest,
	}, nil
}

func runVerify(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, v, err := verifiedClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := makeVerifyReply(v)
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}

type recordReply struct {
	Index  int           `json:"index"`
	Type   string        `json:"type"`
	Record record.Record `json:"record"`
}

func runRecord(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	index := c.Int("index")

	client, v, err := verifiedClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	r, err := v.GetAndVerifyRecord(index)
	if nil != err {
		return err
	}

	name, _ := record.RecordName(r)
	return printJson(m.w, recordReply{
		Index:  index,
		Type:   name,
		Record: r,
	})
}

type aggregationReply struct {
	Commitment  int                      `json:"commitment"`
	Aggregation *aggregation.Aggregation `json:"aggregation"`
}

func runAggregation(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, v, err := verifiedClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	n := c.Int("commitment")
	if n < 0 {
		n = v.CurrentCommitment()
	}

	a, err := v.GetAndCheckAggregation(n)
	if nil != err {
		return err
	}
	return printJson(m.w, aggregationReply{
		Commitment:  n,
		Aggregation: a,
	})
}

type queryReply struct {
	Commitment int           `json:"commitment"`
	Filter     string        `json:"filter"`
	Matches    []recordReply `json:"matches"`
}

func runQuery(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	filter, err := parseCategories(c.String("flags"))
	if nil != err {
		return err
	}

	client, v, err := verifiedClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	indices, records, err := v.QueryByFilter(filter)
	if nil != err {
		return err
	}

	response := queryReply{
		Commitment: v.CurrentCommitment(),
		Filter:     filter.String(),
		Matches:    make([]recordReply, len(indices)),
	}
	for i, index := range indices {
		name, _ := record.RecordName(records[i])
		response.Matches[i] = recordReply{
			Index:  index,
			Type:   name,
			Record: records[i],
		}
	}
	return printJson(m.w, response)
}
