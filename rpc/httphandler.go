// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/bverifyd/counter"
	"github.com/bitmark-inc/bverifyd/server"
	"github.com/bitmark-inc/logger"
)

// InternalConnection - type to allow rpc system to interface to http request
type InternalConnection struct {
	in  io.Reader
	out io.Writer
}

func (c *InternalConnection) Read(p []byte) (n int, err error) {
	return c.in.Read(p)
}
func (c *InternalConnection) Write(d []byte) (n int, err error) {
	return c.out.Write(d)
}
func (c *InternalConnection) Close() error {
	return nil
}

// the argument passed to the handlers
type httpHandler struct {
	log                *logger.L
	server             *rpc.Server
	manager            *server.Server
	count              *counter.Counter
	rpcCount           *counter.Counter
	start              time.Time
	version            string
	allow              map[string][]*net.IPNet
	maximumConnections uint64
}

// routes for the https listener
func (s *httpHandler) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/bverifyd/rpc", s.rpc)
	mux.HandleFunc("/bverifyd/details", s.details)
	mux.Handle("/bverifyd/metrics", s.restricted("metrics", promhttp.HandlerFor(newRegistry(s.manager, s.rpcCount, s.count), promhttp.HandlerOpts{})))
	mux.HandleFunc("/", s.root)
	return mux
}

// this matches anything not matched and returns error
func (s *httpHandler) root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// performs a call to any normal RPC
func (s *httpHandler) rpc(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !s.count.Reserve(s.maximumConnections) {
		sendServiceUnavailable(w)
		return
	}
	defer s.count.Decrement()

	serverCodec := jsonrpc.NewServerCodec(&InternalConnection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	err := s.server.ServeRequest(serverCodec)
	if nil != err {
		s.log.Warnf("rpc request error: %s", err)
	}
}

// to allow a GET for the same response as Proofs.Info
func (s *httpHandler) details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}
	if !s.allowed("details", r) {
		sendForbidden(w)
		return
	}

	type theReply struct {
		server.Info
		RPCs    uint64 `json:"rpcs"`
		Version string `json:"version"`
		Uptime  string `json:"uptime"`
	}

	reply := theReply{
		Info:    s.manager.Info(),
		RPCs:    s.rpcCount.Uint64(),
		Version: s.version,
		Uptime:  time.Since(s.start).String(),
	}

	sendReply(w, reply)
}

// wrap a handler with the access list for a path
func (s *httpHandler) restricted(path string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if http.MethodGet != r.Method {
			sendMethodNotAllowed(w)
			return
		}
		if !s.allowed(path, r) {
			sendForbidden(w)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

// check the remote address against the allow list for a path
func (s *httpHandler) allowed(path string, r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if nil == err {
		ip := net.ParseIP(host)
		for _, network := range s.allow[path] {
			if nil != ip && network.Contains(ip) {
				return true
			}
		}
	}
	s.log.Warnf("Deny access: %q to: %s", r.RemoteAddr, path)
	return false
}

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendForbidden(w http.ResponseWriter) {
	sendError(w, "forbidden", http.StatusForbidden)
}
func sendServiceUnavailable(w http.ResponseWriter) {
	sendError(w, "too many connections", http.StatusServiceUnavailable)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(text)
}
