package ws

import (
    "encoding/json"
    "log"
    "time"

    "github.com/gorilla/websocket"
)

const (
    writeWait      = 10 * time.Second
    pongWait       = 60 * time.Second
    pingPeriod     = (pongWait * 9) / 10
    sendBufferSize = 256
)

// AuditEvent is pushed to dashboard clients as actions happen.
type AuditEvent struct {
    ID        uint      `json:"id"`
    Action    string    `json:"action"`
    Details   string    `json:"details"`
    CreatedAt time.Time `json:"created_at"`
}

// AuditHub fans audit entries out to connected websocket clients.
type AuditHub struct {
    register   chan *auditClient
    unregister chan *auditClient
    broadcast  chan []byte
    clients    map[*auditClient]struct{}
}

func NewAuditHub() *AuditHub {
    return &AuditHub{
        register:   make(chan *auditClient),
        unregister: make(chan *auditClient),
        broadcast:  make(chan []byte, 256),
        clients:    make(map[*auditClient]struct{}),
    }
}

func (h *AuditHub) Run() {
    for {
        select {
        case client := <-h.register:
            h.clients[client] = struct{}{}
        case client := <-h.unregister:
            if _, ok := h.clients[client]; ok {
                delete(h.clients, client)
                close(client.send)
                client.conn.Close()
            }
        case msg := <-h.broadcast:
            for client := range h.clients {
                select {
                case client.send <- msg:
                default:
                    delete(h.clients, client)
                    close(client.send)
                    client.conn.Close()
                }
            }
        }
    }
}

// Broadcast pushes an audit event to every connected client.
func (h *AuditHub) Broadcast(event AuditEvent) {
    if h == nil {
        return
    }
    data, err := json.Marshal(event)
    if err != nil {
        log.Printf("ws: failed to marshal audit event: %v", err)
        return
    }
    h.broadcast <- data
}

type auditClient struct {
    hub  *AuditHub
    conn *websocket.Conn
    send chan []byte
}

func newAuditClient(hub *AuditHub, conn *websocket.Conn) *auditClient {
    return &auditClient{
        hub:  hub,
        conn: conn,
        send: make(chan []byte, sendBufferSize),
    }
}

// readPump discards inbound frames; the feed is one-way. It exists to
// process control messages and notice closed connections.
func (c *auditClient) readPump() {
    defer func() {
        c.hub.unregister <- c
    }()
    c.conn.SetReadLimit(512)
    c.conn.SetReadDeadline(time.Now().Add(pongWait))
    c.conn.SetPongHandler(func(string) error {
        c.conn.SetReadDeadline(time.Now().Add(pongWait))
        return nil
    })
    for {
        if _, _, err := c.conn.ReadMessage(); err != nil {
            return
        }
    }
}

func (c *auditClient) writePump() {
    ticker := time.NewTicker(pingPeriod)
    defer func() {
        ticker.Stop()
        c.conn.Close()
    }()
    for {
        select {
        case msg, ok := <-c.send:
            c.conn.SetWriteDeadline(time.Now().Add(writeWait))
            if !ok {
                c.conn.WriteMessage(websocket.CloseMessage, []byte{})
                return
            }
            w, err := c.conn.NextWriter(websocket.TextMessage)
            if err != nil {
                return
            }
            if _, err := w.Write(msg); err != nil {
                return
            }
            if err := w.Close(); err != nil {
                return
            }
        case <-ticker.C:
            c.conn.SetWriteDeadline(time.Now().Add(writeWait))
            if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
                return
            }
        }
    }
}
