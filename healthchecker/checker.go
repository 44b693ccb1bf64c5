// Package healthchecker periodically pings datasource resources and reports
// transitions to the caller. Anything implementing backends.Pinger can be
// monitored; all templates and connection factories shipped with this module
// do.
package healthchecker

import (
	"context"
	"time"

	"github.com/dynsource/dynsource/backends"
)

// Checker monitors one resource's connectivity in the background.
type Checker struct {
	pinger      backends.Pinger
	config      Config
	stopChan    chan struct{}
	onHealthy   func()          // Callback when the resource answers a ping
	onUnhealthy func(err error) // Callback when a ping fails
}

// New creates a health checker for pinger with the given configuration.
// Either callback may be nil.
func New(pinger backends.Pinger, config Config, onHealthy func(), onUnhealthy func(error)) *Checker {
	return &Checker{
		pinger:      pinger,
		config:      config,
		stopChan:    make(chan struct{}),
		onHealthy:   onHealthy,
		onUnhealthy: onUnhealthy,
	}
}

// Start begins background health monitoring
func (h *Checker) Start() {
	if h.config.Interval <= 0 {
		// Health checking disabled
		return
	}

	go func() {
		ticker := time.NewTicker(h.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.checkHealth()
			case <-h.stopChan:
				return
			}
		}
	}()
}

// Stop stops health monitoring
func (h *Checker) Stop() {
	select {
	case h.stopChan <- struct{}{}:
	default:
		// Monitor loop already gone or never started
	}
}

// checkHealth pings the resource once with the configured timeout
func (h *Checker) checkHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		if h.onUnhealthy != nil {
			h.onUnhealthy(backends.NewHealthError("ping", err))
		}
		return
	}
	if h.onHealthy != nil {
		h.onHealthy()
	}
}
