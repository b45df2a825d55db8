// Package server streams an ensemble to websocket clients and accepts
// mutation commands from them.
//
// A single goroutine, Run, owns the Manager: it drains queued commands,
// advances one tick and broadcasts the frame. Client goroutines never touch
// the Manager directly.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/particlebox/internal/command"
	"github.com/san-kum/particlebox/internal/ensemble"
)

const (
	commandQueue = 64
	sendQueue    = 16
	writeWait    = 5 * time.Second
)

type ParticleMessage struct {
	Handle ensemble.Handle `json:"handle"`
	Color  [3]uint8        `json:"color"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Radius int             `json:"radius"`
}

type FrameMessage struct {
	Tick      int               `json:"tick"`
	Count     int               `json:"count"`
	Particles []ParticleMessage `json:"particles"`
	Errors    []string          `json:"errors,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	mgr      *ensemble.Manager
	interval time.Duration
	commands chan command.Command
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	tick int
}

func New(mgr *ensemble.Manager, fps int) *Server {
	if fps <= 0 {
		fps = 60
	}
	return &Server{
		mgr:      mgr,
		interval: time.Second / time.Duration(fps),
		commands: make(chan command.Command, commandQueue),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	return mux
}

// Enqueue queues a command for the next tick. It reports false if the queue
// is full.
func (s *Server) Enqueue(c command.Command) bool {
	select {
	case s.commands <- c:
		return true
	default:
		return false
	}
}

// Run ticks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.closeClients()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			data, err := json.Marshal(s.Step())
			if err != nil {
				return err
			}
			s.broadcast(data)
		}
	}
}

// Step applies pending commands, advances one tick and returns the frame.
func (s *Server) Step() FrameMessage {
	var errs []string
	for {
		select {
		case c := <-s.commands:
			if err := c.Apply(s.mgr); err != nil {
				errs = append(errs, err.Error())
			}
			continue
		default:
		}
		break
	}

	s.mgr.Update()
	s.tick++

	info := s.mgr.Info()
	msg := FrameMessage{
		Tick:      s.tick,
		Count:     len(info),
		Particles: make([]ParticleMessage, len(info)),
		Errors:    errs,
	}
	for i, in := range info {
		msg.Particles[i] = ParticleMessage{
			Handle: in.Handle,
			Color:  [3]uint8{in.Color.R, in.Color.G, in.Color.B},
			X:      in.Pos.X,
			Y:      in.Pos.Y,
			Radius: in.Radius,
		}
	}
	return msg
}

// ListenAndServe serves the websocket endpoint on addr and runs the tick
// loop until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errc := make(chan error, 1)
	go func() {
		log.Printf("serving ensemble on ws://%s/ws", addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errc <- err
		cancel()
	}()

	runErr := s.Run(ctx)

	shutdownCtx, stop := context.WithTimeout(context.Background(), writeWait)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil {
		return err
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.Println(err)
		}
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendQueue)}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	log.Printf("%s connected", r.RemoteAddr)

	go s.writePump(c)
	go s.readPump(c)
}

// readPump parses text commands and queues them for the tick goroutine.
func (s *Server) readPump(c *client) {
	defer s.drop(c)

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("error: %v", err)
			}
			return
		}

		cmd, err := command.Parse(string(msg))
		if err != nil {
			log.Printf("bad command %q: %v", msg, err)
			continue
		}
		if !s.Enqueue(cmd) {
			log.Printf("command queue full, dropping %q", msg)
		}
	}
}

func (s *Server) writePump(c *client) {
	defer c.conn.Close()

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// broadcast drops the frame for clients that are not keeping up.
func (s *Server) broadcast(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// closeClients disconnects everyone and refuses later upgrades.
func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}
