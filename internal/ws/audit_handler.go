package ws

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
    CheckOrigin: func(r *http.Request) bool {
        // Allow all origins; rely on JWT auth.
        return true
    },
}

// AuditFeedHandler upgrades the connection and streams audit events.
// Role gating happens in the route middleware.
func AuditFeedHandler(hub *AuditHub) gin.HandlerFunc {
    return func(c *gin.Context) {
        conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
        if err != nil {
            return
        }
        client := newAuditClient(hub, conn)
        hub.register <- client

        go client.writePump()
        client.readPump()
    }
}
