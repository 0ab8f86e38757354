package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/w1xm/skytrack/track"
)

// Server publishes the latest tracking status over HTTP: a JSON snapshot,
// a websocket pushed on every tick, and prometheus metrics.
type Server struct {
	statusMu   sync.RWMutex
	statusCond *sync.Cond
	status     track.Status

	connsMu sync.Mutex
	conns   map[*websocket.Conn]struct{}
}

func NewServer() *Server {
	s := &Server{conns: make(map[*websocket.Conn]struct{})}
	s.statusCond = sync.NewCond(s.statusMu.RLocker())
	return s
}

func (s *Server) addConn(conn *websocket.Conn) {
	s.connsMu.Lock()
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()
}

func (s *Server) removeConn(conn *websocket.Conn) {
	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
}

// closeConns tears down live websocket connections so their handlers
// return instead of waiting for the next status broadcast.
func (s *Server) closeConns() {
	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) statusCallback(status track.Status) {
	s.statusMu.Lock()
	s.status = status
	s.statusMu.Unlock()
	s.statusCond.Broadcast()
}

func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	s.statusMu.RLock()
	status := s.status
	s.statusMu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(status)
	if err != nil {
		log.Print(err)
		return
	}
	w.Write(data)
}

func (s *Server) StatusSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	s.addConn(conn)
	defer s.removeConn(conn)

	// Drain incoming messages to observe disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	send := func(status track.Status) error {
		data, err := json.Marshal(status)
		if err != nil {
			return err
		}
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	s.statusMu.RLock()
	status := s.status
	s.statusMu.RUnlock()
	if err := send(status); err != nil {
		log.Print(err)
		return
	}

	for {
		select {
		case <-done:
			return
		default:
		}
		s.statusMu.RLock()
		s.statusCond.Wait()
		status := s.status
		s.statusMu.RUnlock()
		if err := send(status); err != nil {
			log.Print(err)
			return
		}
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	r := mux.NewRouter()
	r.Handle("/api/status", http.HandlerFunc(s.StatusHandler))
	r.Handle("/api/ws", http.HandlerFunc(s.StatusSocketHandler))
	r.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Handler:           r,
		Addr:              addr,
		ReadHeaderTimeout: 15 * time.Second,
	}
	go func() {
		<-ctx.Done()
		// Hijacked websocket connections outlive srv.Close; close them
		// explicitly, then wake their writers so the handlers return.
		s.closeConns()
		s.statusCond.Broadcast()
		srv.Close()
	}()
	log.Printf("status server listening on %v", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed || ctx.Err() != nil {
		return nil
	}
	return err
}
