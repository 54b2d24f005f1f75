// Package server hosts the simulation over HTTP. Frames stream to browsers
// on /ws; clients push parameter changes back on the same socket.
//
//	GET  /ws         frame stream, accepts params/reset messages
//	GET  /equations  equations for the current parameters
//	POST /reset      restore default inputs
//	GET  /metrics    Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/equations"
	"github.com/san-kum/orbitsim/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Addr         string
	ClientBuffer int
	// Metrics may be nil to disable /metrics.
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

type Server struct {
	opts     Options
	live     *driver.LiveInputs
	hub      *Hub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func New(live *driver.LiveInputs, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		opts: opts,
		live: live,
		hub:  NewHub(live, opts.ClientBuffer, log),
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/equations", s.handleEquations)
	mux.HandleFunc("/reset", s.handleReset)
	if s.opts.Metrics != nil {
		mux.Handle("/metrics", s.opts.Metrics.Handler())
	}
	return mux
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{hub: s.hub, conn: conn, send: make(chan []byte, s.hub.buffer)}
	if !s.hub.add(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	s.log.Info("client connected", zap.String("remote", r.RemoteAddr))

	go c.writePump()
	go c.readPump()
}

// EquationsResponse is the body of GET /equations.
type EquationsResponse struct {
	Law   string   `json:"law"`
	LaTeX []string `json:"latex"`
	Plain []string `json:"plain"`
}

func (s *Server) handleEquations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p := s.live.Snapshot().Params
	writeJSON(w, http.StatusOK, EquationsResponse{
		Law:   p.Law.String(),
		LaTeX: equations.LaTeX(p),
		Plain: equations.Plain(p),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	in := s.live.Reset()
	s.log.Info("inputs reset over http", zap.Uint64("epoch", in.Epoch))
	writeJSON(w, http.StatusOK, in)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Run listens on the configured address and serves until ctx is cancelled
// or the driver stops.
func (s *Server) Run(ctx context.Context, d *driver.Driver, sched driver.Scheduler) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, d, sched)
}

// Serve runs the driver loop and the HTTP server together. Both stop when
// either fails, ctx is cancelled or the driver is stopped. A clean
// shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener, d *driver.Driver, sched driver.Scheduler) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		err := d.Run(gctx, sched, s.hub.Publish)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		s.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.hub.Close()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		err := srv.Shutdown(shutdownCtx)
		s.log.Info("http server stopped", zap.Uint64("dropped_frames", s.hub.Dropped()))
		return err
	})

	return g.Wait()
}
