/*
scheduler.go - Idle session eviction

PURPOSE:
  Planner sessions live in memory only. The janitor periodically drops
  sessions nobody has touched for MaxIdle so that abandoned browser tabs do
  not accumulate.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Sweeps once immediately on start
  - Logs how many sessions were evicted

CONFIGURATION:
  - CheckInterval: How often to check (default: 10 minutes)
  - MaxIdle: Idle time before eviction (default: 12 hours)
  - Enabled: Whether the janitor is active (default: true)

USAGE:
  janitor := NewSessionJanitor(handler.Sessions)
  janitor.Start()
  // ... later
  janitor.Stop()

SEE ALSO:
  - sessions.go: SessionRegistry.Sweep
*/
package api

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionJanitor evicts idle sessions in the background.
type SessionJanitor struct {
	Registry      *SessionRegistry
	CheckInterval time.Duration
	MaxIdle       time.Duration
	Enabled       bool
	Log           logrus.FieldLogger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSessionJanitor creates a janitor with default intervals.
func NewSessionJanitor(registry *SessionRegistry) *SessionJanitor {
	return &SessionJanitor{
		Registry:      registry,
		CheckInterval: 10 * time.Minute,
		MaxIdle:       12 * time.Hour,
		Enabled:       true,
		Log:           logrus.StandardLogger(),
	}
}

// Start begins the janitor.
func (j *SessionJanitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.Enabled {
		j.Log.Info("session janitor disabled, not starting")
		return
	}
	if j.ticker != nil {
		return
	}

	j.ticker = time.NewTicker(j.CheckInterval)
	j.stop = make(chan struct{})
	j.wg.Add(1)

	go j.run(j.ticker, j.stop)

	j.Log.WithFields(logrus.Fields{
		"interval": j.CheckInterval,
		"max_idle": j.MaxIdle,
	}).Info("session janitor started")
}

// Stop stops the janitor and waits for a running sweep to finish.
func (j *SessionJanitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.ticker != nil {
		j.ticker.Stop()
		close(j.stop)
		j.wg.Wait()
		j.ticker = nil
		j.Log.Info("session janitor stopped")
	}
}

func (j *SessionJanitor) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer j.wg.Done()

	j.sweep()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-stop:
			return
		}
	}
}

func (j *SessionJanitor) sweep() {
	removed := j.Registry.Sweep(j.MaxIdle)
	if removed > 0 {
		j.Log.WithFields(logrus.Fields{
			"evicted":   removed,
			"remaining": j.Registry.Len(),
		}).Info("evicted idle planner sessions")
	}
}
