/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package statussrv serves the agent's loopback health/stats HTTP endpoint,
// routed with gorilla/mux the way ap.httpd routes its own handlers. Unlike
// ap.httpd this server has exactly two routes and no access logging: the
// agent-kali original silenced its BaseHTTPRequestHandler.log_message, and
// the Go equivalent is simply never installing a logging middleware.
package statussrv

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"netwatch/status"
)

// Server wraps the status HTTP listener.
type Server struct {
	Status *status.Status
	httpSrv *http.Server
}

// New builds a Server bound to host:port. It does not start listening until
// ListenAndServe is called.
func New(host string, port int, st *status.Status) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	router.HandleFunc("/stats", statsHandler(st)).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	return &Server{
		Status: st,
		httpSrv: &http.Server{
			Addr:    addr,
			Handler: router,
		},
	}
}

// ListenAndServe blocks, serving until the listener fails. It never
// restarts on failure; the supervisor does not retry it, per spec.
func (s *Server) ListenAndServe() error {
	return s.httpSrv.ListenAndServe()
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func statsHandler(st *status.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(st.Snapshot())
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}
