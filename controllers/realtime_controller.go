package controllers

import (
	"net/http"
	"time"

	"github.com/AndyyVasquez/nutweb-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	Hub *services.DeviceHub
}

func NewRealtimeController(hub *services.DeviceHub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// DevicesWS attaches a client device to the hub. Telemetry frames are not
// processed here; the read loop only detects disconnects so the registry
// stays accurate.
func (rc *RealtimeController) DevicesWS(c *gin.Context) {
	clientID := c.GetUint("accountID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	dev := &services.DeviceConn{ClientID: clientID, Conn: conn}
	rc.Hub.Register(dev)

	// keep connections alive through proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				rc.Hub.Unregister(dev)
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.Hub.Unregister(dev)
			return
		}
	}
}
