// Package observer serves live simulation frames over WebSocket and feeds
// remote commands back into the run. One server watches one session; slow
// clients are never allowed to stall the tick loop, they just miss frames.
package observer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/terrarium/telemetry"
)

// ProtocolVersion gates the subscribe handshake.
const ProtocolVersion = 1

// Controls is the command surface a connected client may drive.
// *sim.Runner satisfies it.
type Controls interface {
	Pause()
	Resume()
	Stop()
	Click(id string)
}

// RunInfo is the immutable run metadata sent in the welcome message.
type RunInfo struct {
	RunID       string  `json:"run_id"`
	Seed        int64   `json:"seed"`
	WorldWidth  float64 `json:"world_width"`
	WorldHeight float64 `json:"world_height"`
	Biome       string  `json:"biome"`
	TickLimit   int     `json:"tick_limit"`
}

// Frame is one published simulation update.
type Frame struct {
	Type      string                    `json:"type"` // "tick" or "complete"
	Tick      int                       `json:"tick"`
	Mode      string                    `json:"mode"`
	Organisms []telemetry.OrganismState `json:"organisms,omitempty"`
	Particles int                       `json:"particles"`
}

type welcomeMsg struct {
	Type            string  `json:"type"` // "WELCOME"
	ProtocolVersion int     `json:"protocol_version"`
	Run             RunInfo `json:"run"`
}

type commandMsg struct {
	Type            string `json:"type"` // SUBSCRIBE, PAUSE, RESUME, STOP, CLICK
	ProtocolVersion int    `json:"protocol_version,omitempty"`
	OrganismID      string `json:"organism_id,omitempty"`
}

const (
	handshakeTimeout = 5 * time.Second
	readTimeout      = 60 * time.Second
	writeTimeout     = 5 * time.Second
)

// client is one connected observer. The frame channel holds exactly one
// pending frame; Publish replaces it when the writer falls behind.
type client struct {
	frames chan []byte
}

// Server upgrades observer connections and fans published frames out to
// them.
type Server struct {
	info     RunInfo
	controls Controls
	log      *slog.Logger

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer builds an observer server for one run. A nil logger uses the
// process default.
func NewServer(info RunInfo, controls Controls, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		info:     info,
		controls: controls,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving observer connections until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		errc <- s.httpSrv.ListenAndServe()
	}()
	s.log.Info("observer listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Publish fans a frame out to every connected client. A client whose
// buffered frame was never written loses it: latest state wins, and
// Publish never blocks on a slow connection.
func (s *Server) Publish(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		s.log.Warn("frame marshal failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.frames <- b:
		default:
			select {
			case <-c.frames:
			default:
			}
			select {
			case c.frames <- b:
			default:
			}
		}
	}
}

func (s *Server) handleWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Handshake: the first message must be SUBSCRIBE at our protocol
	// version.
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}
	var sub commandMsg
	if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != "SUBSCRIBE" || sub.ProtocolVersion != ProtocolVersion {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"),
			time.Now().Add(time.Second))
		return
	}

	welcome, err := json.Marshal(welcomeMsg{
		Type:            "WELCOME",
		ProtocolVersion: ProtocolVersion,
		Run:             s.info,
	})
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, welcome); err != nil {
		return
	}

	c := &client{frames: make(chan []byte, 1)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	writeErr := make(chan error, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				writeErr <- ctx.Err()
				return
			case b := <-c.frames:
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
		}
	}()

	// Reader loop: commands until the client hangs up.
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var cmd commandMsg
		if err := json.Unmarshal(msg, &cmd); err != nil {
			continue
		}
		switch cmd.Type {
		case "PAUSE":
			s.controls.Pause()
		case "RESUME":
			s.controls.Resume()
		case "STOP":
			s.controls.Stop()
		case "CLICK":
			if cmd.OrganismID != "" {
				s.controls.Click(cmd.OrganismID)
			}
		case "SUBSCRIBE":
			// Already subscribed; re-subscribes are harmless.
		default:
			s.log.Debug("unknown observer command", "type", cmd.Type)
		}
	}

	cancel()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
		time.Now().Add(time.Second))

	select {
	case <-writeErr:
	case <-time.After(500 * time.Millisecond):
	}
}
