package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/kdahlin/draftwatch/internal/matcher"
	"github.com/kdahlin/draftwatch/internal/models"
	"github.com/kdahlin/draftwatch/internal/session"
)

// stubSource is a controllable feed. enterCh/releaseCh let tests hold a
// pass open mid-fetch to exercise the no-overlap guarantees.
type stubSource struct {
	mu         sync.Mutex
	picks      []models.PickRecord
	details    models.DraftDetails
	picksErr   error
	draftErr   error
	picksCalls int

	enterCh   chan struct{}
	releaseCh chan struct{}
}

func (s *stubSource) Picks(_ context.Context, _ string) ([]models.PickRecord, error) {
	s.mu.Lock()
	s.picksCalls++
	picks := append([]models.PickRecord(nil), s.picks...)
	err := s.picksErr
	enter, release := s.enterCh, s.releaseCh
	s.mu.Unlock()

	if enter != nil {
		enter <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return picks, err
}

func (s *stubSource) Draft(_ context.Context, _ string) (*models.DraftDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draftErr != nil {
		return nil, s.draftErr
	}
	details := s.details
	return &details, nil
}

func (s *stubSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picksCalls
}

func testPool() []models.Player {
	return []models.Player{
		{Name: "Saquon Barkley", Position: models.PositionRB, Team: "PHI", Tier: 1},
		{Name: "Brian Robinson", Position: models.PositionRB, Team: "WSH", Tier: 2},
		{Name: "Justin Jefferson", Position: models.PositionWR, Team: "MIN", Tier: 1},
	}
}

func newFixture(t *testing.T, fc clockwork.Clock) (*Poller, *stubSource, *session.Session, chan models.Snapshot) {
	t.Helper()

	src := &stubSource{
		picks: []models.PickRecord{
			{LastName: "Barkley", Team: "PHI", Position: models.PositionRB, PickNo: 1},
		},
		details: models.DraftDetails{
			Name:         "Office League",
			Type:         models.DraftTypeSnake,
			Status:       models.DraftStatusDrafting,
			Teams:        10,
			Rounds:       15,
			PickTimerSec: 120,
			LastPicked:   fc.Now().Add(-30 * time.Second),
		},
	}

	sess := session.New(session.Settings{DraftID: "abc123", Seat: 3})
	require.NoError(t, sess.Pool.Load(testPool(), true))

	snaps := make(chan models.Snapshot, 8)
	p := New(src, matcher.NewSubstringMatcher(), sess, func(s models.Snapshot) {
		snaps <- s
	}).WithClock(fc)

	return p, src, sess, snaps
}

func waitSnapshot(t *testing.T, snaps <-chan models.Snapshot) models.Snapshot {
	t.Helper()
	select {
	case s := <-snaps:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return models.Snapshot{}
	}
}

func requireNoSnapshot(t *testing.T, snaps <-chan models.Snapshot) {
	t.Helper()
	select {
	case s := <-snaps:
		t.Fatalf("unexpected snapshot published: %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEnableAutoPoll_RejectsShortInterval(t *testing.T) {
	p, _, _, _ := newFixture(t, clockwork.NewFakeClock())

	err := p.EnableAutoPoll(context.Background(), 5*time.Second)
	require.ErrorIs(t, err, ErrIntervalTooShort)
	require.Equal(t, StateIdle, p.State())
}

func TestAutoPoll_PublishesAndReconciles(t *testing.T) {
	fc := clockwork.NewFakeClock()
	p, _, sess, snaps := newFixture(t, fc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, p.EnableAutoPoll(ctx, 30*time.Second))
	require.Equal(t, StateScheduled, p.State())

	fc.BlockUntil(1)
	fc.Advance(30 * time.Second)

	snap := waitSnapshot(t, snaps)
	require.Equal(t, "Office League", snap.DraftName)
	require.Equal(t, 1, snap.PickCount)
	require.Equal(t, 1, snap.Turn.Round)
	// Seat 3, one pick made: one more pick happens before the seat is up.
	require.Equal(t, 1, snap.Turn.PicksUntilTurn)
	require.False(t, snap.Turn.Done)
	require.False(t, snap.Turn.Paused)
	// 120s timer, last pick 30s before enable plus the 30s advance.
	require.Equal(t, "1min", snap.Turn.Clock)

	// The matched player is gone from the published views and the pool.
	require.True(t, sess.Pool.IsRemoved("Saquon Barkley"))
	for _, view := range snap.Views {
		for _, tier := range view.Tiers {
			for _, pl := range tier.Players {
				require.NotEqual(t, "Saquon Barkley", pl.Name)
			}
		}
	}

	// And the same snapshot is retained on the session.
	require.Equal(t, snap.PickCount, sess.Snapshot().PickCount)

	// Next tick publishes again.
	fc.BlockUntil(1)
	fc.Advance(30 * time.Second)
	waitSnapshot(t, snaps)

	p.DisableAutoPoll()
	p.Wait()
	require.Equal(t, StateIdle, p.State())
}

func TestAutoPoll_StopsAfterDisable(t *testing.T) {
	fc := clockwork.NewFakeClock()
	p, _, _, snaps := newFixture(t, fc)

	require.NoError(t, p.EnableAutoPoll(context.Background(), 30*time.Second))
	fc.BlockUntil(1)

	p.DisableAutoPoll()
	p.Wait()
	require.Equal(t, StateIdle, p.State())

	fc.Advance(time.Hour)
	requireNoSnapshot(t, snaps)
}

func TestManualRefresh_FromIdle(t *testing.T) {
	p, _, _, snaps := newFixture(t, clockwork.NewFakeClock())

	p.ManualRefresh(context.Background())

	snap := waitSnapshot(t, snaps)
	require.Equal(t, 1, snap.PickCount)
	require.Equal(t, StateIdle, p.State())
}

func TestManualRefresh_WhileScheduledRunsImmediately(t *testing.T) {
	fc := clockwork.NewFakeClock()
	p, _, _, snaps := newFixture(t, fc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, p.EnableAutoPoll(ctx, 30*time.Second))
	fc.BlockUntil(1)

	// No clock advance needed: the wake signal runs a pass right away.
	p.ManualRefresh(ctx)
	waitSnapshot(t, snaps)

	p.DisableAutoPoll()
	p.Wait()
}

func TestManualRefresh_IgnoredWhilePolling(t *testing.T) {
	p, src, _, snaps := newFixture(t, clockwork.NewFakeClock())
	src.enterCh = make(chan struct{}, 1)
	src.releaseCh = make(chan struct{})

	go p.ManualRefresh(context.Background())
	<-src.enterCh
	require.Equal(t, StatePolling, p.State())

	// A second refresh while the pass is in flight is dropped, not stacked.
	p.ManualRefresh(context.Background())

	close(src.releaseCh)
	waitSnapshot(t, snaps)
	requireNoSnapshot(t, snaps)
	require.Equal(t, 1, src.calls())
}

func TestDisableAutoPoll_InFlightPassStillPublishes(t *testing.T) {
	fc := clockwork.NewFakeClock()
	p, src, _, snaps := newFixture(t, fc)
	src.enterCh = make(chan struct{}, 1)
	src.releaseCh = make(chan struct{})

	require.NoError(t, p.EnableAutoPoll(context.Background(), 30*time.Second))
	fc.BlockUntil(1)
	fc.Advance(30 * time.Second)
	<-src.enterCh

	p.DisableAutoPoll()
	close(src.releaseCh)

	waitSnapshot(t, snaps)
	p.Wait()
	require.Equal(t, StateIdle, p.State())
}

func TestPass_FetchFailurePublishesNothingAndMutatesNothing(t *testing.T) {
	p, src, sess, snaps := newFixture(t, clockwork.NewFakeClock())
	src.mu.Lock()
	src.picksErr = errors.New("connection reset")
	src.mu.Unlock()

	p.ManualRefresh(context.Background())

	requireNoSnapshot(t, snaps)
	require.False(t, sess.Pool.IsRemoved("Saquon Barkley"))
	require.Len(t, sess.Pool.Available(), 3)
	// The failed pass released the polling state; the next one succeeds.
	require.Equal(t, StateIdle, p.State())

	src.mu.Lock()
	src.picksErr = nil
	src.mu.Unlock()
	p.ManualRefresh(context.Background())
	waitSnapshot(t, snaps)
}

func TestPass_InvalidFeedConfigMutatesNothing(t *testing.T) {
	p, src, sess, snaps := newFixture(t, clockwork.NewFakeClock())
	src.mu.Lock()
	src.details.Teams = 0
	src.mu.Unlock()

	p.ManualRefresh(context.Background())

	requireNoSnapshot(t, snaps)
	require.False(t, sess.Pool.IsRemoved("Saquon Barkley"))
	require.Equal(t, StateIdle, p.State())
}

func TestPass_PausedDraft(t *testing.T) {
	p, src, _, snaps := newFixture(t, clockwork.NewFakeClock())
	src.mu.Lock()
	src.details.Status = models.DraftStatusPaused
	src.mu.Unlock()

	p.ManualRefresh(context.Background())
	require.True(t, waitSnapshot(t, snaps).Turn.Paused)
}

func TestReset_RestoresPoolInAnyState(t *testing.T) {
	p, _, sess, snaps := newFixture(t, clockwork.NewFakeClock())

	p.ManualRefresh(context.Background())
	waitSnapshot(t, snaps)
	require.True(t, sess.Pool.IsRemoved("Saquon Barkley"))

	p.Reset()
	require.False(t, sess.Pool.IsRemoved("Saquon Barkley"))
	require.Len(t, sess.Pool.Available(), 3)
}
