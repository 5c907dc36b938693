package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Frank-III/PixeLana-further/internal/roomid"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	pubKey      string
	roomID      string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	gameService *GameService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, gameService *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		gameService: gameService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player's public key
func (c *Connection) SetPlayer(pubKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pubKey = pubKey
}

// GetPlayer returns the associated public key
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pubKey
}

// SetRoom associates this connection with a room
func (c *Connection) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// GetRoom returns the associated room ID
func (c *Connection) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Drawings travel as data
	// URLs, so this needs to be generous.
	maxMessageSize = 1 << 20
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	switch msg.Type {
	case MessageTypeCreateRoom:
		var data CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse create room data")
			return
		}
		c.handleCreateRoom(data)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join room data")
			return
		}
		c.handleJoinRoom(data)

	case MessageTypeStartGame:
		var data StartGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse start game data")
			return
		}
		c.handleStartGame(data)

	case MessageTypeSubmitContent:
		var data SubmitContentData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse submit content data")
			return
		}
		c.handleSubmitContent(data)

	case MessageTypeGetRoundInfo:
		var data GetRoundInfoData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse round info request")
			return
		}
		c.handleGetRoundInfo(data)

	case MessageTypeGetSubmissions:
		var data GetSubmissionsData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse submissions request")
			return
		}
		c.handleGetSubmissions(data)

	case MessageTypeLikeDrawing:
		var data LikeDrawingData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse like drawing data")
			return
		}
		c.handleLikeDrawing(data)

	case MessageTypeGetLeaderboard:
		var data GetLeaderboardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse leaderboard request")
			return
		}
		c.handleGetLeaderboard(data)

	case MessageTypeResetRoom:
		var data ResetRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse reset room data")
			return
		}
		c.handleResetRoom(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}

// sendOpError reports a failed operation using the error taxonomy mapping.
func (c *Connection) sendOpError(err error) {
	c.sendError(errorCode(err), err.Error())
}

func (c *Connection) handleCreateRoom(data CreateRoomData) {
	c.logger.Info("Create room request", "player", data.Player.Name)

	roomID, roster, err := c.gameService.CreateRoom(data.Player)
	if err != nil {
		c.sendOpError(err)
		return
	}

	c.SetPlayer(data.Player.PubKey)
	c.SetRoom(roomID)

	response, _ := NewMessage(MessageTypeRoomCreated, RoomCreatedData{
		RoomID:  roomID,
		Players: roster,
	})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleJoinRoom(data JoinRoomData) {
	c.logger.Info("Join room request", "room", data.RoomID, "player", data.Player.Name)

	if err := roomid.Validate(data.RoomID); err != nil {
		c.sendError("invalid_room_code", err.Error())
		return
	}

	roster, err := c.gameService.JoinRoom(data.RoomID, data.Player)
	if err != nil {
		c.sendOpError(err)
		return
	}

	c.SetPlayer(data.Player.PubKey)
	c.SetRoom(data.RoomID)

	response, _ := NewMessage(MessageTypeRoomJoined, RoomJoinedData{
		RoomID:  data.RoomID,
		Slot:    len(roster) - 1,
		Players: roster,
	})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleStartGame(data StartGameData) {
	c.logger.Info("Start game request", "room", data.RoomID, "player", c.GetPlayer())

	if err := c.gameService.StartGame(data.RoomID); err != nil {
		c.sendOpError(err)
	}
	// No direct response, the game_started broadcast covers the caller too
}

func (c *Connection) handleSubmitContent(data SubmitContentData) {
	c.logger.Debug("Submit content", "room", data.RoomID, "slot", data.Slot)

	if _, err := c.gameService.SubmitContent(data.RoomID, data.Slot, data.Content); err != nil {
		c.sendOpError(err)
	}
}

func (c *Connection) handleGetRoundInfo(data GetRoundInfoData) {
	info, err := c.gameService.RoundInfo(data.RoomID, data.Slot)
	if err != nil {
		c.sendOpError(err)
		return
	}

	response, _ := NewMessage(MessageTypeRoundInfo, info)
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleGetSubmissions(data GetSubmissionsData) {
	chain, err := c.gameService.Submissions(data.RoomID, data.Round)
	if err != nil {
		c.sendOpError(err)
		return
	}

	response, _ := NewMessage(MessageTypeSubmissions, SubmissionsData{
		Round:   data.Round,
		Content: chain,
	})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleLikeDrawing(data LikeDrawingData) {
	c.logger.Info("Like drawing", "room", data.RoomID, "voter", data.VoterSlot, "liked", data.LikedSlot)

	if err := c.gameService.LikeDrawing(data.RoomID, data.VoterSlot, data.LikedSlot); err != nil {
		c.sendOpError(err)
	}
}

func (c *Connection) handleGetLeaderboard(data GetLeaderboardData) {
	scores, err := c.gameService.Leaderboard(data.RoomID)
	if err != nil {
		c.sendOpError(err)
		return
	}

	response, _ := NewMessage(MessageTypeLeaderboard, LeaderboardData{Scores: scores})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleResetRoom(data ResetRoomData) {
	c.logger.Info("Reset room request", "room", data.RoomID, "player", c.GetPlayer())

	if err := c.gameService.ResetRoom(data.RoomID); err != nil {
		c.sendOpError(err)
	}
}
