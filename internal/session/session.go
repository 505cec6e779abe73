// Package session owns the state for one draft-tracking session: the
// player pool, the viewer's draft settings and the most recently published
// snapshot. The presentation layer gets a *Session by reference instead of
// reaching into ambient globals.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/kdahlin/draftwatch/internal/models"
	"github.com/kdahlin/draftwatch/internal/pool"
)

// Settings configures one tracking session.
type Settings struct {
	DraftID string
	UserID  string // feed user ID, used to look up the seat in the draft order
	Seat    int    // 1-based; fallback when the draft order has no entry for UserID

	UseTierForOverall bool // take OverallTier from input instead of deriving it
	KeepEmptyTiers    bool
}

// viewPositions are the per-position tier views rendered next to the
// overall board.
var viewPositions = []models.Position{
	models.PositionQB,
	models.PositionRB,
	models.PositionWR,
	models.PositionTE,
}

type Session struct {
	ID       uuid.UUID
	Settings Settings
	Pool     *pool.Pool

	mu        sync.RWMutex
	draftName string
	last      *models.Snapshot
}

func New(settings Settings) *Session {
	return &Session{
		ID:       uuid.New(),
		Settings: settings,
		Pool:     pool.New(),
	}
}

// Seat resolves the viewer's seat for a poll cycle: the draft order entry
// for the configured user wins, otherwise the configured seat applies.
func (s *Session) Seat(details *models.DraftDetails) int {
	if details != nil && s.Settings.UserID != "" {
		if seat, ok := details.DraftOrder[s.Settings.UserID]; ok && seat > 0 {
			return seat
		}
	}
	return s.Settings.Seat
}

// SetSnapshot records the latest published snapshot.
func (s *Session) SetSnapshot(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftName = snap.DraftName
	s.last = &snap
}

// Snapshot returns the most recently published snapshot, or nil before the
// first successful pass. Stale snapshots stay visible until a pass succeeds.
func (s *Session) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Views builds the tiered, filtered projections of the available players:
// an overall board plus one view per major position group. Empty tiers are
// dropped unless the session keeps them.
func (s *Session) Views() []models.TierView {
	available := s.Pool.Available()

	views := make([]models.TierView, 0, len(viewPositions)+1)
	views = append(views, models.TierView{
		Title: "ALL",
		Tiers: s.trimTiers(pool.GroupByTier(available, pool.TierByOverall)),
	})
	for _, pos := range viewPositions {
		byPos := make([]models.Player, 0, len(available))
		for _, pl := range available {
			if pl.Position == pos {
				byPos = append(byPos, pl)
			}
		}
		views = append(views, models.TierView{
			Title: string(pos),
			Tiers: s.trimTiers(pool.GroupByTier(byPos, pool.TierByPosition)),
		})
	}
	return views
}

func (s *Session) trimTiers(buckets []models.TierBucket) []models.TierBucket {
	if s.Settings.KeepEmptyTiers {
		return buckets
	}
	kept := buckets[:0]
	for _, b := range buckets {
		if len(b.Players) > 0 {
			kept = append(kept, b)
		}
	}
	return kept
}
