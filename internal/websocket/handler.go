package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs handles a websocket connection for a paired device.
func ServeWs(hub *Hub, c *websocket.Conn, deviceID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, DeviceID: deviceID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
