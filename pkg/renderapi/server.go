// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package renderapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

type ServerOpts struct {
	ListenAddr string
	RenderFunc func([]byte) ([]byte, error)
	ErrorFunc  func(error) ([]byte, error)
}

type Server struct {
	opts ServerOpts
}

func NewServer(opts ServerOpts) *Server {
	if opts.RenderFunc == nil {
		opts.RenderFunc = RenderJSON
	}
	if opts.ErrorFunc == nil {
		opts.ErrorFunc = ErrorJSON
	}
	return &Server{opts}
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	// no need for caching as it's a POST
	mux.HandleFunc("/render", s.corsHandler(s.renderHandler))
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

func (s *Server) Run() error {
	server := &http.Server{
		Addr:    s.opts.ListenAddr,
		Handler: s.Mux(),
	}
	fmt.Printf("Listening on http://%s\n", server.Addr)
	return server.ListenAndServe()
}

func (s *Server) renderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		s.write(w, []byte(`{"error":{"kind":"MethodNotAllowed","msg":"expected POST"}}`))
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.logError(w, err)
		return
	}

	resp, err := s.opts.RenderFunc(data)
	if err != nil {
		s.logError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	s.write(w, resp)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.write(w, []byte("ok"))
}

func (s *Server) logError(w http.ResponseWriter, err error) {
	log.Print(err.Error())

	resp, err := s.opts.ErrorFunc(err)
	if err != nil {
		fmt.Fprintf(w, "generation error: %s", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	s.write(w, resp)
}

func (s *Server) write(w http.ResponseWriter, data []byte) {
	w.Write(data) // not fmt.Fprintf!
}

func (s *Server) corsHandler(wrappedFunc func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		wrappedFunc(w, r)
	}
}

// ErrorJSON encodes err in the same envelope renderHandler uses for
// successful responses.
func ErrorJSON(err error) ([]byte, error) {
	return json.Marshal(errorResponse{Error: errorBody(err)})
}
