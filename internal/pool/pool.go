package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kdahlin/draftwatch/internal/models"
)

// ErrInvalidInput is returned when a loaded record is missing required fields.
var ErrInvalidInput = errors.New("invalid player input")

// overallTierSize is the number of players per derived overall tier.
const overallTierSize = 10

// Pool holds the ranked candidate players for one draft session. Two states
// are tracked: the original pool captured at load time and a working pool
// that only ever shrinks. Drafted players are recorded in a removed set
// keyed by display name so the original ordering and tiering stay stable
// and a reset can re-surface everything without re-parsing input.
type Pool struct {
	mu       sync.RWMutex
	original []models.Player
	working  []models.Player
	removed  map[string]struct{}
}

func New() *Pool {
	return &Pool{removed: make(map[string]struct{})}
}

// Load replaces the original and working pools with the given ordered
// records. When deriveOverallTier is set, the overall tier is computed from
// the load position instead of taken from the record. Validation is
// all-or-nothing: on error the pool keeps its previous contents.
func (p *Pool) Load(players []models.Player, deriveOverallTier bool) error {
	loaded := make([]models.Player, len(players))
	for i, pl := range players {
		if pl.Name == "" {
			return fmt.Errorf("%w: record %d has no name", ErrInvalidInput, i)
		}
		if pl.Position == "" {
			return fmt.Errorf("%w: record %d (%s) has no position", ErrInvalidInput, i, pl.Name)
		}
		if deriveOverallTier {
			pl.OverallTier = i/overallTierSize + 1
		}
		loaded[i] = pl
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.original = loaded
	p.working = append([]models.Player(nil), loaded...)
	p.removed = make(map[string]struct{})
	return nil
}

// Remove marks a player as drafted and drops them from the working pool,
// so a manual removal outlives the next reconcile's full-set replacement.
// Idempotent; relative ordering of the remaining players is untouched.
func (p *Pool) Remove(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed[name] = struct{}{}

	kept := p.working[:0]
	for _, pl := range p.working {
		if pl.Name != name {
			kept = append(kept, pl)
		}
	}
	p.working = kept
}

// IsRemoved reports whether a player is currently marked drafted.
func (p *Pool) IsRemoved(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.removed[name]
	return ok
}

// RemovedSet returns a copy of the current removed set.
func (p *Pool) RemovedSet() map[string]struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]struct{}, len(p.removed))
	for name := range p.removed {
		out[name] = struct{}{}
	}
	return out
}

// Reconcile installs the complete removed set computed from the external
// feed and drops those players from the working pool. The removed set is a
// full replacement, not a delta: players a previous cycle dropped from the
// working pool stay dropped even if the new set no longer names them.
func (p *Pool) Reconcile(removed map[string]struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.removed = make(map[string]struct{}, len(removed))
	for name := range removed {
		p.removed[name] = struct{}{}
	}

	kept := p.working[:0]
	for _, pl := range p.working {
		if _, gone := removed[pl.Name]; !gone {
			kept = append(kept, pl)
		}
	}
	p.working = kept
}

// Reset clears the removed set and restores the working pool to the
// original load-time snapshot. Safe to call at any time.
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.working = append([]models.Player(nil), p.original...)
	p.removed = make(map[string]struct{})
}

// Original returns the immutable load-time pool, unfiltered.
func (p *Pool) Original() []models.Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Player(nil), p.original...)
}

// Working returns the current working pool: the original minus everything
// dropped by removals and reconcile passes so far.
func (p *Pool) Working() []models.Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Player(nil), p.working...)
}

// Available returns the working pool minus removed players, in rank order.
// This is the filtered view the presentation layer renders.
func (p *Pool) Available() []models.Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Player, 0, len(p.working))
	for _, pl := range p.working {
		if _, gone := p.removed[pl.Name]; !gone {
			out = append(out, pl)
		}
	}
	return out
}
