package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeCreateRoom     MessageType = "create_room"
	MessageTypeJoinRoom       MessageType = "join_room"
	MessageTypeStartGame      MessageType = "start_game"
	MessageTypeSubmitContent  MessageType = "submit_content"
	MessageTypeGetRoundInfo   MessageType = "get_round_info"
	MessageTypeGetSubmissions MessageType = "get_all_submissions"
	MessageTypeLikeDrawing    MessageType = "like_drawing"
	MessageTypeGetLeaderboard MessageType = "get_leaderboard"
	MessageTypeResetRoom      MessageType = "reset_room"

	// Server to client messages
	MessageTypeError         MessageType = "error"
	MessageTypeRoomCreated   MessageType = "room_created"
	MessageTypeRoomJoined    MessageType = "room_joined"
	MessageTypePlayerList    MessageType = "player_list"
	MessageTypeGameStarted   MessageType = "game_started"
	MessageTypeRoundInfo     MessageType = "round_info"
	MessageTypeRoundFinished MessageType = "round_finished"
	MessageTypeGameFinished  MessageType = "game_finished"
	MessageTypeSubmissions   MessageType = "all_submissions"
	MessageTypeBestDrawing   MessageType = "best_drawing"
	MessageTypeLeaderboard   MessageType = "leaderboard"
	MessageTypeBackToLobby   MessageType = "back_to_lobby"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
