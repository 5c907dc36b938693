package server

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/Frank-III/PixeLana-further/internal/game"
	"github.com/Frank-III/PixeLana-further/internal/roomid"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// testRegistry creates a registry with default game limits
func testRegistry(clock quartz.Clock) *Registry {
	return NewRegistry(game.DefaultConfig(), roomid.NewGenerator(nil), clock, testLogger())
}

// testPlayerInfo creates deterministic player identities
func testPlayerInfo(i int) game.PlayerInfo {
	return game.PlayerInfo{
		ID:     fmt.Sprintf("conn-%d", i),
		PubKey: fmt.Sprintf("pubkey-%d", i),
		Name:   fmt.Sprintf("player-%d", i),
		Avatar: fmt.Sprintf("avatar-%d", i),
	}
}
