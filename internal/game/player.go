package game

// PlayerInfo is the join-time identity supplied by the transport layer.
// The ID comes from the connection; the public key is the stable
// cross-session identity used for scoring.
type PlayerInfo struct {
	ID     string `json:"id"`
	PubKey string `json:"pubKey"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Player is a roster entry. A player's slot index is their position in
// join order and defines their rotation neighbours; it is not stable
// across sessions, the public key is.
type Player struct {
	ID     string `json:"id"`
	PubKey string `json:"pubKey"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Host   bool   `json:"isHost"`
}
