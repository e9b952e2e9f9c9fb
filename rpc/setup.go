// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/bverifyd/counter"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/ledger"
	"github.com/bitmark-inc/bverifyd/rpc/certificate"
	"github.com/bitmark-inc/bverifyd/rpc/listeners"
	rpcserver "github.com/bitmark-inc/bverifyd/rpc/server"
	"github.com/bitmark-inc/bverifyd/server"
	"github.com/bitmark-inc/logger"
)

const (
	rpcName   = "client_rpc"
	httpsName = "https_rpc"
)

// HTTPSConfiguration - configuration file data for HTTPS setup
type HTTPSConfiguration struct {
	MaximumConnections uint64              `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string            `gluamapper:"listen" json:"listen"`
	Certificate        string              `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string              `gluamapper:"private_key" json:"private_key"`
	Allow              map[string][]string `gluamapper:"allow" json:"allow"`
}

// globals
type rpcData struct {
	sync.RWMutex // to allow locking

	log *logger.L // logger

	listener listeners.Listener
	servers  []*http.Server

	connectionCountRPC   counter.Counter
	connectionCountHTTPS counter.Counter

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// Initialise - start the JSON RPC and HTTPS listeners
//
// a nil reader leaves the Statements service unregistered
func Initialise(rpcConfiguration *listeners.RPCConfiguration, httpsConfiguration *HTTPSConfiguration, srv *server.Server, reader ledger.Reader, version string) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to Start if already started
	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	var tlsConfig *tls.Config
	if "" != rpcConfiguration.Certificate && "" != rpcConfiguration.PrivateKey {
		c, fingerprint, err := certificate.Get(log, rpcName, rpcConfiguration.Certificate, rpcConfiguration.PrivateKey)
		if nil != err {
			return err
		}
		log.Infof("%s: SHA3-256 fingerprint: %x", rpcName, fingerprint)
		tlsConfig = c
	}

	rpcListener, err := listeners.NewRPC(
		rpcConfiguration,
		log,
		&globalData.connectionCountRPC,
		rpcserver.Create(log, srv, reader, version, &globalData.connectionCountRPC),
		tlsConfig,
	)
	if nil != err {
		return err
	}
	err = rpcListener.Serve()
	if nil != err {
		_ = rpcListener.Close()
		return err
	}
	globalData.listener = rpcListener

	if nil != httpsConfiguration {
		err = initialiseHTTPS(httpsConfiguration, srv, reader, version)
		if nil != err {
			_ = rpcListener.Close()
			globalData.listener = nil
			return err
		}
	}

	// all data initialised
	globalData.initialised = true

	return nil
}

// Finalise - stop all listeners
func Finalise() error {

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	if err := globalData.listener.Close(); nil != err {
		globalData.log.Errorf("rpc close error: %s", err)
	}
	globalData.listener = nil

	for _, s := range globalData.servers {
		if err := s.Close(); nil != err {
			globalData.log.Errorf("https close error: %s", err)
		}
	}
	globalData.servers = nil

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// Start the HTTPS server, JSON RPC by POST and details by GET
func initialiseHTTPS(configuration *HTTPSConfiguration, srv *server.Server, reader ledger.Reader, version string) error {

	log := globalData.log

	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", httpsName)
		return nil
	}

	if configuration.MaximumConnections < 1 {
		log.Errorf("invalid %s maximum connection limit: %d", httpsName, configuration.MaximumConnections)
		return fault.ErrMissingParameters
	}

	tlsConfiguration, fingerprint, err := certificate.Get(log, httpsName, configuration.Certificate, configuration.PrivateKey)
	if nil != err {
		return err
	}

	log.Infof("%s: SHA3-256 fingerprint: %x", httpsName, fingerprint)

	allow, err := parseAllow(configuration.Allow)
	if nil != err {
		return err
	}

	handler := &httpHandler{
		log:                log,
		server:             rpcserver.Create(log, srv, reader, version, &globalData.connectionCountRPC),
		manager:            srv,
		count:              &globalData.connectionCountHTTPS,
		rpcCount:           &globalData.connectionCountRPC,
		version:            version,
		start:              time.Now(),
		allow:              allow,
		maximumConnections: configuration.MaximumConnections,
	}
	mux := handler.mux()

	for _, listen := range configuration.Listen {
		log.Infof("starting server: %s on: %q", httpsName, listen)
		if '*' == listen[0] {
			// change "*:PORT" to "[::]:PORT"
			// on the assumption that this will listen on tcp4 and tcp6
			listen = "[::]" + ":" + strings.Split(listen, ":")[1]
		}
		s, ln, err := listenTLS(listen, mux, tlsConfiguration)
		if nil != err {
			log.Errorf("%s listen: %q  error: %s", httpsName, listen, err)
			return err
		}
		globalData.servers = append(globalData.servers, s)
		go func() {
			err := s.Serve(ln)
			if http.ErrServerClosed != err {
				log.Errorf("%s serve error: %s", httpsName, err)
			}
		}()
	}

	return nil
}

// create access control matching http.Request.RemoteAddr
func parseAllow(allow map[string][]string) (map[string][]*net.IPNet, error) {
	local := make(map[string][]*net.IPNet)
	for path, addresses := range allow {
		set := make([]*net.IPNet, len(addresses))
		local[path] = set
		for i, ip := range addresses {
			_, cidr, err := net.ParseCIDR(strings.Trim(ip, " "))
			if nil != err {
				return nil, err
			}
			set[i] = cidr
		}
	}
	return local, nil
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if nil != err {
		return nil, err
	}
	_ = tc.SetKeepAlive(true)
	_ = tc.SetKeepAlivePeriod(3 * time.Minute)
	return tc, nil
}

// HTTPS server using an in-memory TLS key pair
func listenTLS(addr string, handler http.Handler, cfg *tls.Config) (*http.Server, net.Listener, error) {
	s := &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	cfg.NextProtos = []string{"http/1.1"}

	ln, err := net.Listen("tcp", addr)
	if nil != err {
		return nil, nil, err
	}

	return s, tls.NewListener(tcpKeepAliveListener{ln.(*net.TCPListener)}, cfg), nil
}
