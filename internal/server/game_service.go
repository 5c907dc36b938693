package server

import (
	"github.com/charmbracelet/log"

	"github.com/Frank-III/PixeLana-further/internal/game"
)

// GameService bridges connections to the room registry: it runs each
// inbound action against the right session and fans the results out to
// the affected room. The service itself holds no game state.
type GameService struct {
	registry *Registry
	server   *Server
	logger   *log.Logger
}

// NewGameService creates a new game service
func NewGameService(server *Server, registry *Registry, logger *log.Logger) *GameService {
	return &GameService{
		registry: registry,
		server:   server,
		logger:   logger.WithPrefix("game-service"),
	}
}

// CreateRoom creates a room with the given player as host.
func (gs *GameService) CreateRoom(info game.PlayerInfo) (string, []*game.Player, error) {
	return gs.registry.CreateRoom(info)
}

// JoinRoom adds a player to an existing room and broadcasts the new
// roster and leaderboard to everyone in it.
func (gs *GameService) JoinRoom(roomID string, info game.PlayerInfo) ([]*game.Player, error) {
	var (
		roster []*game.Player
		scores []game.Score
	)
	err := gs.registry.WithRoom(roomID, func(s *game.Session) error {
		var err error
		roster, err = s.Join(info)
		if err != nil {
			return err
		}
		scores = s.Leaderboard()
		return nil
	})
	if err != nil {
		return nil, err
	}

	gs.logger.Info("Player joined room", "room", roomID, "player", info.Name, "players", len(roster))
	gs.broadcast(roomID, MessageTypePlayerList, PlayerListData{Players: roster})
	gs.broadcast(roomID, MessageTypeLeaderboard, LeaderboardData{Scores: scores})
	return roster, nil
}

// StartGame starts the game and notifies the room.
func (gs *GameService) StartGame(roomID string) error {
	err := gs.registry.WithRoom(roomID, func(s *game.Session) error {
		return s.Start()
	})
	if err != nil {
		return err
	}

	gs.logger.Info("Game started", "room", roomID)
	gs.broadcast(roomID, MessageTypeGameStarted, struct{}{})
	return nil
}

// assignment pairs a player with the content handed to them for the
// next round.
type assignment struct {
	pubKey string
	info   game.Content
}

// roundAssignments collects each seated player's next assignment.
// Called with the room lock held.
func roundAssignments(s *game.Session) []assignment {
	out := make([]assignment, 0, s.PlayerCount())
	for i, p := range s.Players() {
		info, err := s.RoundInfo(i)
		if err != nil {
			continue
		}
		out = append(out, assignment{pubKey: p.PubKey, info: info})
	}
	return out
}

// announceRound tells the room a round completed. Mid-game each player
// is also pushed their next assignment directly; clients may still
// fetch it themselves via get_round_info.
func (gs *GameService) announceRound(roomID string, finished bool, round int, pushes []assignment) {
	if finished {
		gs.logger.Info("Game finished", "room", roomID, "rounds", round)
		gs.broadcast(roomID, MessageTypeGameFinished, GameFinishedData{Rounds: round})
		return
	}

	gs.logger.Debug("Round finished", "room", roomID, "round", round)
	gs.broadcast(roomID, MessageTypeRoundFinished, RoundFinishedData{Round: round})
	for _, a := range pushes {
		msg, err := NewMessage(MessageTypeRoundInfo, a.info)
		if err != nil {
			gs.logger.Error("Failed to create assignment message", "error", err)
			continue
		}
		if err := gs.server.SendToPlayer(a.pubKey, msg); err != nil {
			gs.logger.Debug("Assignment not delivered", "player", a.pubKey, "error", err)
		}
	}
}

// SubmitContent records a submission. When it completes the round the
// room hears either round_finished followed by per-player round_info
// pushes, or, after the final round, game_finished. Returns whether
// the round just completed.
func (gs *GameService) SubmitContent(roomID string, slot int, content string) (bool, error) {
	var (
		completed bool
		finished  bool
		round     int
		pushes    []assignment
	)
	err := gs.registry.WithRoom(roomID, func(s *game.Session) error {
		completed = s.Submit(slot, content)
		finished = s.IsFinished()
		round = s.Round()
		if completed && !finished {
			pushes = roundAssignments(s)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if completed {
		gs.announceRound(roomID, finished, round, pushes)
	}
	return completed, nil
}

// RoundInfo returns the content assigned to a slot for the current round.
func (gs *GameService) RoundInfo(roomID string, slot int) (game.Content, error) {
	var info game.Content
	err := gs.registry.WithRoom(roomID, func(s *game.Session) error {
		var err error
		info, err = s.RoundInfo(slot)
		return err
	})
	return info, err
}

// Submissions returns the storybook chain for the given round index.
func (gs *GameService) Submissions(roomID string, round int) ([]game.Content, error) {
	var chain []game.Content
	err := gs.registry.WithRoom(roomID, func(s *game.Session) error {
		var err error
		chain, err = s.Submissions(round)
		return err
	})
	return chain, err
}

// LikeDrawing records a vote, broadcasts the winning content, and on
// the round's final vote also broadcasts the leaderboard.
func (gs *GameService) LikeDrawing(roomID string, voterSlot, likedSlot int) error {
	var (
		best   string
		last   bool
		scores []game.Score
	)
	err := gs.registry.WithRoom(roomID, func(s *game.Session) error {
		var err error
		best, last, err = s.Like(voterSlot, likedSlot)
		if err != nil {
			return err
		}
		if last {
			scores = s.Leaderboard()
		}
		return nil
	})
	if err != nil {
		return err
	}

	gs.broadcast(roomID, MessageTypeBestDrawing, BestDrawingData{Slot: likedSlot, Content: best})
	if last {
		gs.broadcast(roomID, MessageTypeLeaderboard, LeaderboardData{Scores: scores})
	}
	return nil
}

// Leaderboard returns the room's ranked scores.
func (gs *GameService) Leaderboard(roomID string) ([]game.Score, error) {
	var scores []game.Score
	err := gs.registry.WithRoom(roomID, func(s *game.Session) error {
		scores = s.Leaderboard()
		return nil
	})
	return scores, err
}

// ResetRoom returns the room to the lobby, keeping roster and scores.
func (gs *GameService) ResetRoom(roomID string) error {
	var roster []*game.Player
	err := gs.registry.WithRoom(roomID, func(s *game.Session) error {
		s.Reset()
		roster = s.Players()
		return nil
	})
	if err != nil {
		return err
	}

	gs.logger.Info("Room reset", "room", roomID)
	gs.broadcast(roomID, MessageTypeBackToLobby, struct{}{})
	gs.broadcast(roomID, MessageTypePlayerList, PlayerListData{Players: roster})
	return nil
}

// PlayerDisconnected removes a dropped player from their room and
// tells the remaining players. A departure can complete the round the
// room was waiting on; that is announced the same way a submission
// would. Unknown rooms and players are ignored; disconnect cleanup
// must not fail.
func (gs *GameService) PlayerDisconnected(roomID, pubKey string) {
	var (
		roster    []*game.Player
		found     bool
		completed bool
		finished  bool
		round     int
		pushes    []assignment
	)
	err := gs.registry.WithRoom(roomID, func(s *game.Session) error {
		roster, found, completed = s.Remove(pubKey)
		if completed {
			finished = s.IsFinished()
			round = s.Round()
			if !finished {
				pushes = roundAssignments(s)
			}
		}
		return nil
	})
	if err != nil || !found {
		return
	}

	gs.logger.Info("Player disconnected", "room", roomID, "remaining", len(roster))
	gs.broadcast(roomID, MessageTypePlayerList, PlayerListData{Players: roster})
	if completed {
		gs.announceRound(roomID, finished, round, pushes)
	}
}

// broadcast wraps payloads in the message envelope and fans out to the room.
func (gs *GameService) broadcast(roomID string, messageType MessageType, data interface{}) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		gs.logger.Error("Failed to create broadcast message", "type", messageType, "error", err)
		return
	}
	gs.server.BroadcastToRoom(roomID, msg)
}
