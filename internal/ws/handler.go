package ws

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin is enforced by the CORS middleware wrapping this endpoint.
		return true
	},
}

// Handle authenticates via the token query parameter (browsers cannot set
// headers on websocket upgrades) and starts the connection's pumps. Rooms
// are joined later through joinRoom events.
func Handle(h *Hub, jwt *auth.JWT, w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.Parse(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(h, claims.UserID, conn)
	go c.writePump()
	go c.readPump()
}
