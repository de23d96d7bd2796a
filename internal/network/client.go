package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/holobarista/server/internal/domain/order"
	"github.com/holobarista/server/internal/engine"
	"github.com/holobarista/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// PlayerAction represents an incoming command from the AR frontend.
type PlayerAction struct {
	Type    string          `json:"type"` // "DELIVER_ITEM", "COLLECT_PAYMENT", etc.
	Payload json.RawMessage `json:"payload"`
}

// Client represents an active WebSocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.tuning.ClientSendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket read error: " + err.Error())
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket: " + err.Error())
			continue
		}

		c.handlePlayerAction(action)
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	// Rate limiting check
	minInterval := time.Second / time.Duration(c.hub.tuning.MaxMessagesPerSecond)
	if time.Since(c.lastActionTime) < minInterval {
		c.hub.logger.Warn("Rate limit exceeded for client action " + action.Type)
		return
	}
	c.lastActionTime = time.Now()

	switch action.Type {
	case "OPEN_SHOP":
		c.hub.engine.Open()
		c.hub.logger.Event("PLAYER_ACTION_OPEN", "player", "Opened the shop")
	case "START_GAME":
		c.hub.engine.StartGame()
		c.hub.logger.Event("PLAYER_ACTION_START", "player", "Started game mode")
	case "DELIVER_ITEM":
		c.handleDeliver(action.Payload)
	case "COLLECT_PAYMENT":
		c.handleCollect(action.Payload)
	case "TRASH_ITEM":
		c.handleTrash(action.Payload)
	case "MOVE_OBJECT":
		c.handleMove(action.Payload)
	case "PLACE_PROP":
		c.handlePlace(action.Payload)
	case "PURCHASE":
		c.handlePurchase(action.Payload)
	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
	}
}

func (c *Client) handleDeliver(rawPayload []byte) {
	var parsed struct {
		ItemKind string `json:"item_kind"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("Failed to parse deliver payload")
		return
	}
	kind := order.ItemKind(parsed.ItemKind)
	if kind != order.ItemCoffee && kind != order.ItemWater {
		c.hub.logger.Warn("Deliver with unknown item kind: " + parsed.ItemKind)
		return
	}
	c.hub.engine.DeliverItem(kind)
	c.hub.logger.Event("PLAYER_ACTION_DELIVER", "player", "Delivered "+parsed.ItemKind)
}

func (c *Client) handleCollect(rawPayload []byte) {
	var parsed struct {
		CustomerID string `json:"customer_id"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("Failed to parse collect payload")
		return
	}
	c.hub.engine.CollectPayment(parsed.CustomerID)
	c.hub.logger.Event("PLAYER_ACTION_COLLECT", "player", "Collected payment from "+parsed.CustomerID)
}

func (c *Client) handleTrash(rawPayload []byte) {
	var parsed struct {
		PropID string `json:"prop_id"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("Failed to parse trash payload")
		return
	}
	c.hub.engine.TrashItem(parsed.PropID)
}

func (c *Client) handleMove(rawPayload []byte) {
	var parsed struct {
		PropID string      `json:"prop_id"`
		Pos    engine.Vec3 `json:"pos"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("Failed to parse move payload")
		return
	}
	c.hub.engine.MoveProp(parsed.PropID, parsed.Pos)
}

func (c *Client) handlePlace(rawPayload []byte) {
	var parsed struct {
		PropID string      `json:"prop_id"`
		Role   string      `json:"role"`
		Kind   string      `json:"kind"`
		Pos    engine.Vec3 `json:"pos"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("Failed to parse place payload")
		return
	}
	c.hub.engine.RegisterProp(&engine.Prop{
		ID:   parsed.PropID,
		Role: engine.PropRole(parsed.Role),
		Kind: parsed.Kind,
		Pos:  parsed.Pos,
	})
	c.hub.logger.Event("PLAYER_ACTION_PLACE", "player", "Placed "+parsed.Role+" "+parsed.PropID)
}

func (c *Client) handlePurchase(rawPayload []byte) {
	var parsed struct {
		DecorID string      `json:"decor_id"`
		Cost    int         `json:"cost"`
		Pos     engine.Vec3 `json:"pos"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("Failed to parse purchase payload")
		return
	}
	c.hub.engine.Purchase(parsed.DecorID, parsed.Cost, parsed.Pos)
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
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
