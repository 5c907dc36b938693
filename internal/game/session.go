package game

import "sort"

// State represents where a session is in its lifecycle
type State int

const (
	Lobby State = iota
	InProgress
	Finished
)

// String returns the string representation of a session state
func (s State) String() string {
	switch s {
	case Lobby:
		return "Lobby"
	case InProgress:
		return "In Progress"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Kind tags submitted content. The two kinds alternate every round to
// implement the draw/caption relay: even rounds produce stories, odd
// rounds produce images.
type Kind string

const (
	KindStory Kind = "story"
	KindImage Kind = "image"
)

func kindForRound(round int) Kind {
	if round%2 == 0 {
		return KindStory
	}
	return KindImage
}

// Content is a piece of submitted content together with its kind and
// the slot it belongs to.
type Content struct {
	Kind Kind   `json:"type"`
	Data string `json:"content"`
	Slot int    `json:"slot"`
}

// Score is one leaderboard row.
type Score struct {
	PubKey string `json:"pubKey"`
	Likes  int    `json:"likes"`
}

// Config holds the roster limits for a session.
type Config struct {
	MaxPlayers int
	MinPlayers int
}

// DefaultConfig returns the standard party-game limits.
func DefaultConfig() Config {
	return Config{MaxPlayers: 8, MinPlayers: 3}
}

// Session owns one room's full mutable game state: roster, round
// counter, per-round submission tables, the rotation mapping and the
// leaderboard. It does no locking of its own; the registry serialises
// access per room, so every operation runs to completion while that
// room's lock is held.
type Session struct {
	cfg     Config
	players []*Player
	round   int
	started bool
	rounds  []map[int]string // round index -> slot -> content
	rotated map[int]string   // slot -> content assigned for the current round
	scores  map[string]int   // public key -> likes
}

// NewSession creates an empty session in the lobby state.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:    cfg,
		scores: make(map[string]int),
	}
}

// Join appends a player to the roster and returns the new roster
// snapshot. The first joiner becomes the host. A leaderboard entry is
// created immediately so later likes always find one.
func (s *Session) Join(info PlayerInfo) ([]*Player, error) {
	if len(s.players) >= s.cfg.MaxPlayers {
		return nil, ErrGameFull
	}
	if s.started {
		return nil, ErrGameAlreadyStarted
	}
	for _, p := range s.players {
		if p.PubKey == info.PubKey {
			return nil, ErrPlayerAlreadyExists
		}
	}

	s.players = append(s.players, &Player{
		ID:     info.ID,
		PubKey: info.PubKey,
		Name:   info.Name,
		Avatar: info.Avatar,
		Host:   len(s.players) == 0,
	})
	s.scores[info.PubKey] = 0
	return s.Players(), nil
}

// Remove drops the player with the given public key from the roster
// and the leaderboard. Removing the host sends the room back to the
// lobby. Returns the new roster, whether the player was found, and
// whether their departure completed the current round.
func (s *Session) Remove(pubKey string) ([]*Player, bool, bool) {
	for i, p := range s.players {
		if p.PubKey != pubKey {
			continue
		}
		s.players = append(s.players[:i], s.players[i+1:]...)
		delete(s.scores, pubKey)
		if p.Host {
			s.started = false
		}
		return s.Players(), true, s.compactRound(i)
	}
	return s.Players(), false, false
}

// compactRound drops the departed slot from the in-progress round's
// submission table and re-indexes the slots above it. When everyone
// still seated has already submitted, the round completes here;
// otherwise it would wait forever for a submission that cannot come.
func (s *Session) compactRound(slot int) bool {
	if !s.started || len(s.rounds) <= s.round {
		return false
	}
	table := s.rounds[s.round]
	next := make(map[int]string, len(table))
	for k, v := range table {
		switch {
		case k < slot:
			next[k] = v
		case k > slot:
			next[k-1] = v
		}
	}
	s.rounds[s.round] = next

	if len(s.players) > 0 && len(next) == len(s.players) {
		s.rotated = rotate(next)
		s.round++
		return true
	}
	return false
}

// Start flips the session into the in-progress state.
func (s *Session) Start() error {
	if s.started {
		return ErrGameAlreadyStarted
	}
	if len(s.players) < s.cfg.MinPlayers {
		return ErrNotEnoughPlayers
	}
	s.started = true
	return nil
}

// Submit stores content for the given slot in the current round, last
// write wins. Once every slot has submitted, the round advances and
// the completed table is rotated into the next round's assignments in
// the same step, so completion fires exactly once per round. Returns
// whether this submission completed the round.
func (s *Session) Submit(slot int, content string) bool {
	if len(s.rounds) == s.round {
		s.rounds = append(s.rounds, make(map[int]string))
	}
	table := s.rounds[s.round]
	table[slot] = content

	if len(table) == len(s.players) {
		s.rotated = rotate(table)
		s.round++
		return true
	}
	return false
}

// RoundInfo returns the content assigned to a slot for the current
// round: whatever the slot's preceding neighbour submitted last round.
func (s *Session) RoundInfo(slot int) (Content, error) {
	if s.rotated == nil {
		return Content{}, ErrGameNotStarted
	}
	data, ok := s.rotated[slot]
	if !ok {
		return Content{}, ErrPlayerNotFound
	}
	return Content{Kind: kindForRound(s.round), Data: data, Slot: slot}, nil
}

// Submissions replays the content chain that began with the prompt
// submitted by the given slot: round r's link in that chain lives at
// slot (r + chain) mod N. Used for the end-of-game storybook.
func (s *Session) Submissions(chain int) ([]Content, error) {
	if len(s.rounds) == 0 || len(s.players) == 0 {
		return nil, ErrInvalidRound
	}

	n := len(s.players)
	out := make([]Content, 0, len(s.rounds))
	for r, table := range s.rounds {
		slot := (r + chain) % n
		data, ok := table[slot]
		if !ok {
			return nil, ErrInvalidRound
		}
		out = append(out, Content{Kind: kindForRound(r), Data: data, Slot: slot})
	}
	return out, nil
}

// Like records a vote for the chain currently held by likedSlot. The
// circular distance between voter and liked slot locates the round
// whose table holds the original submission the vote refers to. The
// liked player's score is keyed by public key, which survives resets
// where slot indices do not. Returns the winning content and whether
// this was the final vote of the round.
func (s *Session) Like(voterSlot, likedSlot int) (string, bool, error) {
	if likedSlot < 0 || likedSlot >= len(s.players) {
		return "", false, ErrPlayerNotFound
	}

	n := len(s.players)
	delta := voterSlot - likedSlot
	if delta < 0 {
		delta = -delta
	}
	delta %= n

	if delta >= len(s.rounds) {
		return "", false, ErrInvalidRound
	}
	best, ok := s.rounds[delta][likedSlot]
	if !ok {
		return "", false, ErrInvalidRound
	}

	s.scores[s.players[likedSlot].PubKey]++
	return best, voterSlot == n-1, nil
}

// Leaderboard returns scores sorted by likes descending. Ties keep
// join order: the sort is stable over the roster sequence.
func (s *Session) Leaderboard() []Score {
	out := make([]Score, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, Score{PubKey: p.PubKey, Likes: s.scores[p.PubKey]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Likes > out[j].Likes
	})
	return out
}

// IsFinished reports whether every player has submitted in every
// round: the game ends when the round counter reaches the roster size.
func (s *Session) IsFinished() bool {
	return s.started && s.round == len(s.players)
}

// Started reports whether the game has left the lobby.
func (s *Session) Started() bool {
	return s.started
}

// Round returns the current round counter.
func (s *Session) Round() int {
	return s.round
}

// State derives the lifecycle state from the session's counters.
func (s *Session) State() State {
	switch {
	case !s.started:
		return Lobby
	case s.round == len(s.players):
		return Finished
	default:
		return InProgress
	}
}

// Players returns a snapshot of the roster in join order.
func (s *Session) Players() []*Player {
	out := make([]*Player, len(s.players))
	copy(out, s.players)
	return out
}

// PlayerCount returns the roster size.
func (s *Session) PlayerCount() int {
	return len(s.players)
}

// Reset returns the room to the lobby: round counter, submission
// tables and rotation mapping are cleared, roster and leaderboard
// carry over.
func (s *Session) Reset() {
	s.round = 0
	s.started = false
	s.rounds = nil
	s.rotated = nil
}
