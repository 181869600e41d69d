package sim

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// Viewer fans rendered frames out to websocket clients.
type Viewer struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	up      websocket.Upgrader
}

func NewViewer() *Viewer {
	return &Viewer{
		clients: map[*websocket.Conn]bool{},
		up:      websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Frame is the websocket message: one hex color per globe, per string.
type Frame struct {
	T       int64      `json:"t"`
	FrameID uint64     `json:"frame_id"`
	Strings [][]string `json:"strings"`
}

func NewFrame(id uint64, strs [][]model.Color) Frame {
	f := Frame{T: time.Now().UnixNano(), FrameID: id, Strings: make([][]string, len(strs))}
	for i, globes := range strs {
		hex := make([]string, len(globes))
		for j, g := range globes {
			hex[j] = g.Hex()
		}
		f.Strings[i] = hex
	}
	return f
}

func (v *Viewer) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := v.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	v.mu.Lock()
	v.clients[conn] = true
	v.mu.Unlock()

	go func() {
		defer func() {
			v.mu.Lock()
			delete(v.clients, conn)
			v.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (v *Viewer) Clients() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.clients)
}

func (v *Viewer) Broadcast(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		log.Debug().Err(err).Msg("marshal frame")
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for c := range v.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// Close hangs up on every client.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for c := range v.clients {
		c.Close()
		delete(v.clients, c)
	}
}
