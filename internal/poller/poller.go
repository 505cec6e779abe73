// Package poller drives the periodic reconciliation loop: fetch the
// external pick feed and draft parameters, reconcile the pool through the
// identity matcher, recompute the turn state and publish one combined
// snapshot. At most one pass runs at a time; timer fires that land while a
// pass is in flight are merged into the following interval.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/kdahlin/draftwatch/internal/feed"
	"github.com/kdahlin/draftwatch/internal/matcher"
	"github.com/kdahlin/draftwatch/internal/models"
	"github.com/kdahlin/draftwatch/internal/schedule"
	"github.com/kdahlin/draftwatch/internal/session"
)

// State is the poller's scheduling state.
type State string

const (
	StateIdle      State = "idle"      // no timer armed
	StateScheduled State = "scheduled" // timer armed for the next pass
	StatePolling   State = "polling"   // one pass in flight
)

// MinInterval is the smallest accepted auto-poll interval. Smaller values
// are rejected at the boundary, not clamped.
const MinInterval = 10 * time.Second

// ErrIntervalTooShort is returned when enabling auto-poll with an interval
// below MinInterval.
var ErrIntervalTooShort = errors.New("auto-poll interval below minimum")

// Clock is the time source. In production use clockwork.NewRealClock();
// tests drive the poller with a FakeClock.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) clockwork.Timer
}

// PublishFunc receives every successfully produced snapshot, exactly once
// per successful pass.
type PublishFunc func(models.Snapshot)

type Poller struct {
	src     feed.Source
	match   matcher.Matcher
	sess    *session.Session
	clock   Clock
	publish PublishFunc

	mu       sync.Mutex
	state    State
	stopCh   chan struct{} // non-nil while auto-poll is enabled
	loopDone chan struct{}

	// Buffered manual-refresh signal. A refresh requested while a pass is
	// in flight stays queued and runs immediately after it.
	wakeCh chan struct{}
}

func New(src feed.Source, match matcher.Matcher, sess *session.Session, publish PublishFunc) *Poller {
	return &Poller{
		src:     src,
		match:   match,
		sess:    sess,
		clock:   clockwork.NewRealClock(),
		publish: publish,
		state:   StateIdle,
		wakeCh:  make(chan struct{}, 1),
	}
}

// WithClock swaps the time source. For tests.
func (p *Poller) WithClock(c Clock) *Poller {
	p.clock = c
	return p
}

// State returns the current scheduling state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// EnableAutoPoll arms a repeating timer at the given interval. Enabling
// while already scheduled re-arms with the new interval. The loop stops
// when ctx is cancelled or DisableAutoPoll is called; an in-flight pass
// still completes and publishes once.
func (p *Poller) EnableAutoPoll(ctx context.Context, interval time.Duration) error {
	if interval < MinInterval {
		return fmt.Errorf("%w: %s < %s", ErrIntervalTooShort, interval, MinInterval)
	}

	p.mu.Lock()
	if p.stopCh != nil {
		close(p.stopCh)
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	p.stopCh = stop
	p.loopDone = done
	if p.state == StateIdle {
		p.state = StateScheduled
	}
	p.mu.Unlock()

	go p.run(ctx, stop, done, interval)
	log.Info().
		Str("draft_id", p.sess.Settings.DraftID).
		Dur("interval", interval).
		Msg("auto-poll enabled")
	return nil
}

// DisableAutoPoll cancels the timer. Any pass already in flight runs to
// completion and publishes its snapshot.
func (p *Poller) DisableAutoPoll() {
	p.mu.Lock()
	if p.stopCh == nil {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.stopCh = nil
	p.mu.Unlock()
	log.Info().Str("draft_id", p.sess.Settings.DraftID).Msg("auto-poll disabled")
}

// ManualRefresh triggers one immediate pass. While auto-poll is enabled the
// request is handed to the loop; a request that lands during an in-flight
// pass is queued to run right after it, and further requests are merged.
func (p *Poller) ManualRefresh(ctx context.Context) {
	p.mu.Lock()
	running := p.stopCh != nil
	p.mu.Unlock()

	if running {
		select {
		case p.wakeCh <- struct{}{}:
		default:
		}
		return
	}
	p.pass(ctx)
}

// Reset restores the working pool from the original and clears the removed
// set. Available in any state; timer state is untouched.
func (p *Poller) Reset() {
	p.sess.Pool.Reset()
	log.Info().Str("draft_id", p.sess.Settings.DraftID).Msg("draft reset")
}

// Wait blocks until the auto-poll loop has fully stopped. For tests and
// shutdown paths.
func (p *Poller) Wait() {
	p.mu.Lock()
	done := p.loopDone
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (p *Poller) run(ctx context.Context, stop chan struct{}, done chan<- struct{}, interval time.Duration) {
	defer close(done)
	defer p.loopExited(stop)

	timer := p.clock.NewTimer(interval)
	defer stopAndDrainTimer(timer)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-timer.Chan():
		case <-p.wakeCh:
			stopAndDrainTimer(timer)
		}

		p.pass(ctx)

		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
		}
		timer.Reset(interval)
	}
}

// pass runs exactly one reconciliation pass. A failed pass logs, publishes
// nothing, mutates nothing and releases the polling state so the schedule
// is never wedged.
func (p *Poller) pass(ctx context.Context) {
	if !p.beginPass() {
		return
	}
	defer p.endPass()

	started := p.clock.Now()
	snap, err := p.runPass(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("draft_id", p.sess.Settings.DraftID).
			Msg("poll pass failed")
		return
	}

	p.sess.SetSnapshot(*snap)
	if p.publish != nil {
		p.publish(*snap)
	}
	log.Debug().
		Str("draft_id", p.sess.Settings.DraftID).
		Int("pick_count", snap.PickCount).
		Dur("elapsed", p.clock.Now().Sub(started)).
		Msg("published snapshot")
}

// runPass is a join-point over the two independent read-only fetches
// followed by a single serialized mutation step.
func (p *Poller) runPass(ctx context.Context) (*models.Snapshot, error) {
	draftID := p.sess.Settings.DraftID

	var (
		picks    []models.PickRecord
		details  *models.DraftDetails
		picksErr error
		draftErr error
	)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		picks, picksErr = p.src.Picks(ctx, draftID)
	}()
	go func() {
		defer wg.Done()
		details, draftErr = p.src.Draft(ctx, draftID)
	}()
	wg.Wait()
	if picksErr != nil {
		return nil, fmt.Errorf("fetch pick feed: %w", picksErr)
	}
	if draftErr != nil {
		return nil, fmt.Errorf("fetch draft details: %w", draftErr)
	}

	turn, err := schedule.PicksUntilTurn(schedule.Params{
		Picks:         len(picks),
		Seat:          p.sess.Seat(details),
		Teams:         details.Teams,
		Type:          details.Type,
		ReversalRound: details.ReversalRound,
		Rounds:        details.Rounds,
	})
	if err != nil {
		return nil, err
	}

	// Reads are done and the turn state is valid; now the one mutation.
	removed := p.match.Match(picks, p.sess.Pool.Original())
	p.sess.Pool.Reconcile(removed)

	state := models.TurnState{
		Round:  schedule.Round(len(picks), details.Teams),
		Clock:  schedule.FormatClock(p.remainingClock(details)),
		Paused: details.Status == models.DraftStatusPaused,
	}
	if turn == schedule.Complete {
		state.Done = true
	} else {
		state.PicksUntilTurn = turn
	}

	return &models.Snapshot{
		DraftName:   details.Name,
		GeneratedAt: p.clock.Now(),
		PickCount:   len(picks),
		Turn:        state,
		Views:       p.sess.Views(),
	}, nil
}

// remainingClock computes time left on the current pick timer from the
// server timestamp of the last completed pick.
func (p *Poller) remainingClock(details *models.DraftDetails) time.Duration {
	if details.PickTimerSec <= 0 || details.LastPicked.IsZero() {
		return 0
	}
	deadline := details.LastPicked.Add(time.Duration(details.PickTimerSec) * time.Second)
	return deadline.Sub(p.clock.Now())
}

func (p *Poller) beginPass() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StatePolling {
		return false
	}
	p.state = StatePolling
	return true
}

func (p *Poller) endPass() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopCh != nil {
		p.state = StateScheduled
	} else {
		p.state = StateIdle
	}
}

// loopExited settles the state when a loop goroutine returns. A superseded
// loop (auto-poll re-armed with a new interval) must not clobber the state
// owned by its replacement.
func (p *Poller) loopExited(stop chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopCh == stop {
		// Context cancellation, not DisableAutoPoll, ended the loop.
		p.stopCh = nil
	}
	if p.stopCh == nil {
		p.state = StateIdle
	}
}

// stopAndDrainTimer safely stops a timer and drains its channel, following
// the pattern from the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
