// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"
)

type metadata struct {
	connect     string
	useTLS      bool
	fingerprint string
	verbose     bool
	e           io.Writer
	w           io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "bverify-cli"
	app.Usage = "submit and verify records of a bverifyd log"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: "127.0.0.1:2130",
			Usage: " bverifyd client_rpc `HOST:PORT`",
		},
		cli.BoolFlag{
			Name:  "tls, t",
			Usage: " connect using TLS",
		},
		cli.StringFlag{
			Name:  "fingerprint, f",
			Value: "",
			Usage: " expected SHA3-256 certificate `HEX` fingerprint, implies --tls",
		},
	}

	recordFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "good, g",
			Value: "",
			Usage: "*type of good `NAME`",
		},
		cli.Int64Flag{
			Name:  "amount, a",
			Value: 0,
			Usage: "*amount of goods `COUNT`",
		},
		cli.StringFlag{
			Name:  "flags",
			Value: "",
			Usage: " categorical flags to set `N,N,...`",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate a private key and account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "ecdsa, e",
					Usage: " ECDSA P-256 key instead of Ed25519",
				},
			},
			Action: runGenerate,
		},
		{
			Name:      "info",
			Usage:     "display bverifyd counters",
			ArgsUsage: " ",
			Flags:     []cli.Flag{},
			Action:    runInfo,
		},
		{
			Name:      "submit-deposit",
			Usage:     "sign and submit a deposit",
			ArgsUsage: "\n   (* = required)",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "recipient, r",
					Value: "",
					Usage: "*depositor private `KEY`",
				},
				cli.StringFlag{
					Name:  "employee, e",
					Value: "",
					Usage: "*warehouse employee private `KEY`",
				},
			}, recordFlags...),
			Action: runSubmitDeposit,
		},
		{
			Name:      "submit-withdrawal",
			Usage:     "sign and submit a withdrawal",
			ArgsUsage: "\n   (* = required)",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "recipient, r",
					Value: "",
					Usage: "*owner private `KEY`",
				},
				cli.StringFlag{
					Name:  "employee, e",
					Value: "",
					Usage: "*warehouse employee private `KEY`",
				},
			}, recordFlags...),
			Action: runSubmitWithdrawal,
		},
		{
			Name:      "submit-transfer",
			Usage:     "sign and submit a transfer",
			ArgsUsage: "\n   (* = required)",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "sender, s",
					Value: "",
					Usage: "*current owner private `KEY`",
				},
				cli.StringFlag{
					Name:  "recipient, r",
					Value: "",
					Usage: "*new owner private `KEY`",
				},
			}, recordFlags...),
			Action: runSubmitTransfer,
		},
		{
			Name:      "verify",
			Usage:     "load the ledger and check the consistency of every commitment",
			ArgsUsage: " ",
			Flags:     []cli.Flag{},
			Action:    runVerify,
		},
		{
			Name:      "record",
			Usage:     "fetch a record and verify it against the current commitment",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "index, i",
					Value: -1,
					Usage: "*record `INDEX`",
				},
			},
			Action: runRecord,
		},
		{
			Name:      "aggregation",
			Usage:     "fetch and check the totals of a commitment",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "commitment, n",
					Value: -1,
					Usage: " commitment `NUMBER` [current]",
				},
			},
			Action: runAggregation,
		},
		{
			Name:      "query",
			Usage:     "all records having every flag, verified complete",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "flags",
					Value: "",
					Usage: "*categorical flags to match `N,N,...`",
				},
			},
			Action: runQuery,
		},
		{
			Name:      "watch",
			Usage:     "verify each commitment as it is broadcast",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "subscribe, s",
					Value: "127.0.0.1:2135",
					Usage: " bverifyd broadcast `HOST:PORT`",
				},
			},
			Action: runWatch,
		},
		{
			Name:      "version",
			Usage:     "display bverify-cli version",
			ArgsUsage: " ",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		fingerprint := c.GlobalString("fingerprint")
		c.App.Metadata["config"] = &metadata{
			connect:     c.GlobalString("connect"),
			useTLS:      c.GlobalBool("tls") || "" != fingerprint,
			fingerprint: fingerprint,
			verbose:     c.GlobalBool("verbose"),
			e:           c.App.ErrWriter,
			w:           c.App.Writer,
		}
		return setupLogging(c.GlobalBool("verbose"))
	}
	app.After = func(c *cli.Context) error {
		logger.Finalise()
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
