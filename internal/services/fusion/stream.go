package fusion

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/davideconti/worksafe_project/internal/model/entities"
)

// scoreUpdate è il frame inviato ai consumer esterni (dashboard) sul /stream.
type scoreUpdate struct {
	CIS       int              `json:"cis"`
	Command   entities.Command `json:"command"`
	Timestamp time.Time        `json:"timestamp"`
}

// Hub mantiene le connessioni WebSocket dei consumer del punteggio.
// La dashboard è un collaboratore esterno: riceve solo lo stato derivato,
// mai i reading grezzi.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader

	lastSent scoreUpdate
	hasLast  bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// il fusion node non è esposto fuori dalla rete di impianto
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS aggiorna la richiesta a WebSocket e registra il client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream: upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	if h.hasLast {
		// il nuovo client riceve subito l'ultimo stato noto
		_ = conn.WriteJSON(h.lastSent)
	}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("stream: client connected (%d total)", n)

	// reader loop solo per rilevare la chiusura
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast invia lo stato a tutti i client; i client in errore vengono chiusi.
func (h *Hub) Broadcast(st CISState) {
	upd := scoreUpdate{CIS: st.CIS, Command: st.Command, Timestamp: st.UpdatedAt}

	h.mu.Lock()
	h.lastSent = upd
	h.hasLast = true
	var dead []*websocket.Conn
	for conn := range h.clients {
		if err := conn.WriteJSON(upd); err != nil {
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	_ = conn.Close()
}

// Close chiude tutte le connessioni registrate.
func (h *Hub) Close() {
	h.mu.Lock()
	for conn := range h.clients {
		_ = conn.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()
}
