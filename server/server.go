// Package server serves a finished report directory over HTTP so the
// embedded viewer can be browsed locally.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// ReportServer serves one output directory on a free local port for a
// bounded amount of time.
type ReportServer struct {
	dir      string
	listener net.Listener
}

func New(dir string) *ReportServer {
	return &ReportServer{dir: dir}
}

// Listen claims a free port. Call this before Serve so callers can log
// the URL first.
func (s *ReportServer) Listen() error {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("could not listen on a local port: %w", err)
	}
	s.listener = l
	return nil
}

// URL returns the address the server will serve on. Only valid after
// Listen.
func (s *ReportServer) URL() string {
	if s.listener == nil {
		return ""
	}
	return fmt.Sprintf("http://%s/", s.listener.Addr())
}

// Serve blocks serving the report directory until uptime has elapsed,
// then shuts down gracefully.
func (s *ReportServer) Serve(uptime time.Duration) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	router := mux.NewRouter()
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.dir)))
	srv := &http.Server{Handler: router}

	done := make(chan error, 1)
	go func() {
		if err := srv.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			done <- err
			return
		}
		done <- nil
	}()

	timer := time.NewTimer(uptime)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		return <-done
	}
}
