package api

import (
	"net/http"

	"stonefire/internal/auth"
	"stonefire/internal/ws"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Admin dashboard and API share an origin in production; the
		// connection still requires a valid token below.
		return true
	},
}

// wsHandler upgrades an authenticated admin connection to the live
// submission feed. Anonymous connections are rejected before the upgrade.
func (d Dependencies) wsHandler(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if userID == "" {
		// Browsers cannot set headers on WebSocket dials, so the token may
		// arrive as a query parameter instead.
		if token := r.URL.Query().Get("token"); token != "" {
			var err error
			userID, _, err = d.JWT.VerifyToken(token)
			if err != nil {
				userID = ""
			}
		}
	}
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", d.Log)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.Log.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	d.Log.Info("Admin feed connected", zap.String("user_id", userID))

	wsConn := ws.NewConn(conn, d.Hub, userID)
	d.Hub.Register(wsConn)

	go wsConn.WritePump()
	go wsConn.ReadPump()
}
