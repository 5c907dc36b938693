package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Sweeper periodically evicts abandoned rooms from a registry. It
// lives outside the registry so the session/registry contract stays
// free of timing concerns.
type Sweeper struct {
	registry *Registry
	inUse    func(roomID string) bool
	interval time.Duration
	maxIdle  time.Duration
	clock    quartz.Clock
	logger   *log.Logger
}

// NewSweeper creates a sweeper for the given registry. inUse marks
// rooms that must not be evicted, typically those with live
// connections; nil disables the check.
func NewSweeper(registry *Registry, inUse func(roomID string) bool, interval, maxIdle time.Duration, clock quartz.Clock, logger *log.Logger) *Sweeper {
	return &Sweeper{
		registry: registry,
		inUse:    inUse,
		interval: interval,
		maxIdle:  maxIdle,
		clock:    clock,
		logger:   logger.WithPrefix("sweeper"),
	}
}

// Run sweeps on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("Sweeper started", "interval", s.interval, "maxIdle", s.maxIdle)

	return s.clock.TickerFunc(ctx, s.interval, func() error {
		s.registry.Sweep(s.maxIdle, s.inUse)
		return nil
	}, "sweep").Wait()
}
