// Package stream publishes engine frames to websocket subscribers, for
// browser-side presentation adapters. Subscribers only ever receive
// fully computed ticks.
package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/okaryn/plife/internal/engine"
	"github.com/okaryn/plife/internal/plife"
)

// hello is sent once per connection, before any frames.
type hello struct {
	Seed      int64    `json:"seed"`
	Beta      float64  `json:"beta"`
	Friction  float64  `json:"friction"`
	Dt        float64  `json:"dt"`
	Palette   []string `json:"palette"`
	Colors    []int    `json:"colors"`
	Particles int      `json:"particles"`
}

// framePayload is one published tick.
type framePayload struct {
	Tick      int          `json:"tick"`
	Time      float64      `json:"time"`
	Positions [][3]float64 `json:"positions"`
}

// Server steps an engine on a fixed cadence and broadcasts the result.
type Server struct {
	eng      *engine.Engine
	palette  plife.Palette
	tickRate time.Duration

	upgrader websocket.Upgrader

	// engMu serializes Step against connection-time snapshots, so a
	// subscriber joining mid-run never reads a half-written buffer.
	engMu sync.Mutex

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// New wraps eng for streaming at ticksPerSecond.
func New(eng *engine.Engine, palette plife.Palette, ticksPerSecond int) *Server {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 30
	}
	return &Server{
		eng:      eng,
		palette:  palette,
		tickRate: time.Second / time.Duration(ticksPerSecond),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// ListenAndServe runs the tick loop and the websocket endpoint at /ws
// until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	go s.loop(ctx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errc:
		return err
	}
}

func (s *Server) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.engMu.Lock()
			s.eng.Step()
			frame := s.payload()
			s.engMu.Unlock()
			s.broadcast(frame)
		}
	}
}

func (s *Server) payload() framePayload {
	ps := s.eng.Particles()
	out := framePayload{
		Tick:      s.eng.Tick(),
		Time:      s.eng.Time(),
		Positions: make([][3]float64, len(ps)),
	}
	for i := range ps {
		out.Positions[i] = [3]float64{ps[i].Pos.X, ps[i].Pos.Y, ps[i].Pos.Z}
	}
	return out
}

// greeting snapshots the run setup between ticks.
func (s *Server) greeting() hello {
	s.engMu.Lock()
	defer s.engMu.Unlock()

	params := s.eng.Params()
	ps := s.eng.Particles()
	out := hello{
		Seed:      params.Seed,
		Beta:      params.Beta,
		Friction:  params.Friction,
		Dt:        params.Dt,
		Palette:   make([]string, params.Colors),
		Colors:    make([]int, len(ps)),
		Particles: params.Particles,
	}
	for c := 0; c < params.Colors; c++ {
		out.Palette[c] = s.palette.Hex(c)
	}
	for i := range ps {
		out.Colors[i] = ps[i].Color
	}
	return out
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	if err := conn.WriteJSON(s.greeting()); err != nil {
		conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// Drain reads so pings and close frames are processed; the client
	// is dropped on its first read error.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcast(frame framePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(frame); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[conn] {
		delete(s.clients, conn)
		conn.Close()
	}
}

// ClientCount reports connected subscribers.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
