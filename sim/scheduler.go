package sim

import (
	"context"
	"time"

	"github.com/pthm-cable/terrarium/config"
)

type command uint8

const (
	cmdPause command = iota + 1
	cmdResume
	cmdStop
)

// Runner drives a session at the configured fixed rate: full ticks while
// running, reduced-rate visual-only ticks once finished. Commands arrive
// over a channel and apply at tick boundaries; ticks are atomic, so there
// is never an in-flight tick to cancel.
type Runner struct {
	session *Session
	cmds    chan command
}

// NewRunner wraps a session in a fixed-rate loop.
func NewRunner(s *Session) *Runner {
	return &Runner{
		session: s,
		cmds:    make(chan command, 8),
	}
}

// Session returns the driven session.
func (r *Runner) Session() *Session {
	return r.session
}

// Run blocks, ticking the session until ctx is cancelled. Completion does
// not end the loop: the session drops to the idle rate and keeps its
// ambient visuals moving until teardown.
func (r *Runner) Run(ctx context.Context) error {
	derived := config.Cfg().Derived

	ticker := time.NewTicker(derived.TickInterval)
	defer ticker.Stop()

	idle := r.session.Mode() == ModeFinishedIdle
	if idle {
		ticker.Reset(derived.IdleInterval)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-r.cmds:
			switch c {
			case cmdPause:
				r.session.Pause()
			case cmdResume:
				r.session.Resume()
			case cmdStop:
				if r.session.StopActive() && !idle {
					idle = true
					ticker.Reset(derived.IdleInterval)
				}
			}
		case <-ticker.C:
			if idle {
				r.session.IdleStep()
				continue
			}
			switch r.session.Mode() {
			case ModeRunning:
				if r.session.Step() {
					idle = true
					ticker.Reset(derived.IdleInterval)
				}
			case ModePaused:
				// Paused ticks are skipped entirely; resume picks the
				// counter up where it stopped.
			case ModeFinishedIdle:
				idle = true
				ticker.Reset(derived.IdleInterval)
			}
		}
	}
}

// Pause suspends active ticking at the next tick boundary.
func (r *Runner) Pause() { r.cmds <- cmdPause }

// Resume returns a paused run to active ticking.
func (r *Runner) Resume() { r.cmds <- cmdResume }

// Stop tears down the active loop and starts idle mode without firing the
// completion hook.
func (r *Runner) Stop() { r.cmds <- cmdStop }

// Click forwards a pointer interaction to the session. Clicks are
// read-only and do not need to wait for a tick boundary.
func (r *Runner) Click(id string) { r.session.Click(id) }
