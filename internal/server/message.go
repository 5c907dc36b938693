package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Frank-III/PixeLana-further/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type CreateRoomData struct {
	Player game.PlayerInfo `json:"player"`
}

type JoinRoomData struct {
	RoomID string          `json:"roomId"`
	Player game.PlayerInfo `json:"player"`
}

type StartGameData struct {
	RoomID string `json:"roomId"`
}

type SubmitContentData struct {
	RoomID  string `json:"roomId"`
	Slot    int    `json:"slot"`
	Content string `json:"content"`
}

type GetRoundInfoData struct {
	RoomID string `json:"roomId"`
	Slot   int    `json:"slot"`
}

type GetSubmissionsData struct {
	RoomID string `json:"roomId"`
	Round  int    `json:"round"`
}

type LikeDrawingData struct {
	RoomID    string `json:"roomId"`
	VoterSlot int    `json:"voterSlot"`
	LikedSlot int    `json:"likedSlot"`
}

type GetLeaderboardData struct {
	RoomID string `json:"roomId"`
}

type ResetRoomData struct {
	RoomID string `json:"roomId"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RoomCreatedData struct {
	RoomID  string         `json:"roomId"`
	Players []*game.Player `json:"players"`
}

type RoomJoinedData struct {
	RoomID  string         `json:"roomId"`
	Slot    int            `json:"slot"`
	Players []*game.Player `json:"players"`
}

type PlayerListData struct {
	Players []*game.Player `json:"players"`
}

type RoundFinishedData struct {
	Round int `json:"round"`
}

type GameFinishedData struct {
	Rounds int `json:"rounds"`
}

type SubmissionsData struct {
	Round   int            `json:"round"`
	Content []game.Content `json:"content"`
}

type BestDrawingData struct {
	Slot    int    `json:"slot"`
	Content string `json:"content"`
}

type LeaderboardData struct {
	Scores []game.Score `json:"scores"`
}

// errorCode maps a session or registry error onto the wire-level error
// code sent back to the offending client.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, game.ErrGameFull):
		return "game_full"
	case errors.Is(err, game.ErrPlayerAlreadyExists):
		return "player_already_exists"
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, game.ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, game.ErrGameNotStarted):
		return "game_not_started"
	case errors.Is(err, game.ErrGameAlreadyStarted):
		return "game_already_started"
	case errors.Is(err, game.ErrInvalidRound):
		return "invalid_round"
	default:
		return "internal_error"
	}
}
