// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bitmark-inc/bverifyd/account"
	"github.com/bitmark-inc/bverifyd/commitment"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/rpc/certificate"
	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
)

const (
	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "generate-account", "account":
		algorithm := account.ED25519
		if len(arguments) > 0 {
			switch arguments[0] {
			case "ed25519":
			case "ecdsa", "p256":
				algorithm = account.ECDSAP256
			default:
				exitwithstatus.Message("error: unsupported key type: %q", arguments[0])
			}
		}

		privateKey, err := account.NewPrivateKey(algorithm, nil)
		if nil != err {
			exitwithstatus.Message("generate account error: %s", err)
		}
		printJSON(struct {
			Account    *account.Account `json:"account"`
			PrivateKey string           `json:"privateKey"`
		}{
			Account:    privateKey.Account(),
			PrivateKey: privateKey.String(),
		})

	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := certificate.Generate("rpc", certificateFilename, privateKeyFilename, addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "start", "run":
		return false // continue processing

	case "commitments", "c", "verify-ledger", "vl":
		return false // defer processing until database is loaded

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  generate-account [TYPE]    (account) - new private key and account, TYPE: ed25519 or ecdsa\n")
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...] (rpc)   - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  commitments [S [N]]        (c)      - dump N commitments from S as JSON to stdout\n")
		fmt.Printf("\n")

		fmt.Printf("  verify-ledger              (vl)     - check the ledger hash chain\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		_ = json.Indent(&out, b, "", "  ")
		_, _ = out.WriteTo(os.Stdout)
		_, _ = os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the commitment index and ledger are open so these commands can
// inspect them
func processDataCommand(log *logger.L, arguments []string, index *commitment.Index, l ledger.Ledger) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "commitments", "c":
		start := 0
		count := index.Count()
		var err error
		if len(arguments) > 0 {
			start, err = strconv.Atoi(arguments[0])
			if nil != err || start < 0 {
				exitwithstatus.Message("error in starting commitment: %q", arguments[0])
			}
		}
		if len(arguments) > 1 {
			count, err = strconv.Atoi(arguments[1])
			if nil != err || count < 1 {
				exitwithstatus.Message("error in commitment count: %q", arguments[1])
			}
		}

		commitments := make([]commitment.Commitment, 0)
		for n := start; n < start+count && n < index.Count(); n += 1 {
			c, err := index.Get(n)
			if nil != err {
				exitwithstatus.Message("commitment: %d  error: %s", n, err)
			}
			commitments = append(commitments, c)
		}
		printJSON(commitments)

	case "verify-ledger", "vl":
		err := l.Verify()
		if nil != err {
			log.Errorf("ledger verify error: %s", err)
			exitwithstatus.Message("ledger verify error: %s", err)
		}
		fmt.Printf("ledger: %d statements verified\n", l.Count())

	default:
		exitwithstatus.Message("error: no such command: %q", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}

func printJSON(data interface{}) {
	b, err := json.MarshalIndent(data, "", "  ")
	if nil != err {
		exitwithstatus.Message("error: %s", err)
	}
	fmt.Printf("%s\n", b)
}
