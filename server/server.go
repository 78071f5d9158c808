package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/cellarium/runner"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The host serves a local viewer; any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server streams runner snapshots to websocket clients and feeds their
// control messages back to the runner.
type Server struct {
	hub       *Hub
	handle    *runner.Handle
	addr      string
	cadence   time.Duration
	lastFrame int
}

// New wires a server to a running simulation. broadcastMillis is the frame
// cadence.
func New(handle *runner.Handle, addr string, broadcastMillis int) *Server {
	return &Server{
		hub:       NewHub(),
		handle:    handle,
		addr:      addr,
		cadence:   time.Duration(broadcastMillis) * time.Millisecond,
		lastFrame: -1,
	}
}

// ListenAndServe runs the hub, the broadcast loop and the HTTP listener. It
// blocks until the listener fails.
func (s *Server) ListenAndServe() error {
	go s.hub.Run()
	go s.broadcastLoop()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebsocket)

	slog.Info("serving", "addr", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:    s.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		handle: s.handle,
	}
	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(s.cadence)
	defer ticker.Stop()

	for range ticker.C {
		snap := s.handle.Poll()
		if snap == nil {
			continue
		}
		// A paused sim still rebroadcasts so late joiners get a frame.
		frame, err := encodeSnapshot(snap)
		if err != nil {
			slog.Error("encoding frame", "error", err)
			continue
		}
		s.hub.broadcast <- frame
	}
}

// encodeSnapshot flattens a snapshot into a wire frame. Only occupied cells
// are listed; the viewer infers the rest as void.
func encodeSnapshot(snap *runner.Snapshot) ([]byte, error) {
	frame := wireSnapshot{
		Iterations: snap.Iterations,
		TPS:        snap.TPS,
		TargetTPS:  snap.TargetTPS,
		Paused:     snap.Paused,
		Width:      snap.Grid.Width(),
		Height:     snap.Grid.Height(),
		Selected:   snap.Selected,
	}

	for x := 0; x < frame.Width; x++ {
		for y := 0; y < frame.Height; y++ {
			bot, _ := snap.Grid.Get(x, y)
			if bot.Empty {
				continue
			}
			frame.Cells = append(frame.Cells, wireCell{
				X:      x,
				Y:      y,
				Alive:  bot.Alive,
				Color:  bot.Color,
				Energy: bot.Energy,
			})
		}
	}

	return json.Marshal(frame)
}
