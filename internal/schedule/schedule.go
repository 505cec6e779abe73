package schedule

import (
	"errors"
	"fmt"

	"github.com/kdahlin/draftwatch/internal/models"
)

// ErrInvalidDraftConfig is returned for structurally impossible draft
// parameters (team count <= 0, seat outside the draft order).
var ErrInvalidDraftConfig = errors.New("invalid draft config")

// Complete is the sentinel PicksUntilTurn result meaning the seat has no
// picks left: either the draft is over or every remaining round has passed
// the seat.
const Complete = -1

// Params are the structural inputs to PicksUntilTurn. The result is a pure
// function of these values; no state is read from anywhere else.
type Params struct {
	Picks         int // completed picks so far
	Seat          int // viewer's seat, 1-based
	Teams         int
	Type          models.DraftType
	ReversalRound int // 0 when not configured
	Rounds        int // total configured rounds; 0 when unknown
}

// PicksUntilTurn computes how many picks happen strictly before the seat's
// next turn. 0 means the seat is on the clock right now; Complete means the
// seat will not pick again.
func PicksUntilTurn(p Params) (int, error) {
	if p.Teams <= 0 {
		return 0, fmt.Errorf("%w: team count %d", ErrInvalidDraftConfig, p.Teams)
	}
	if p.Seat < 1 || p.Seat > p.Teams {
		return 0, fmt.Errorf("%w: seat %d outside [1, %d]", ErrInvalidDraftConfig, p.Seat, p.Teams)
	}
	if p.Picks < 0 {
		return 0, fmt.Errorf("%w: negative pick count %d", ErrInvalidDraftConfig, p.Picks)
	}

	if p.Type != models.DraftTypeSnake {
		return picksUntilLinearTurn(p), nil
	}
	return picksUntilSnakeTurn(p), nil
}

// Round reports the current round for a pick count, for display. A pick
// count of 0 is still round 1.
func Round(picks, teams int) int {
	if teams <= 0 || picks <= 0 {
		return 1
	}
	return (picks-1)/teams + 1
}

// picksUntilLinearTurn handles non-snake drafts: the seat order repeats
// every lap without reversal.
func picksUntilLinearTurn(p Params) int {
	round := p.Picks/p.Teams + 1
	if p.Rounds > 0 && round > p.Rounds {
		return Complete
	}
	done := p.Picks % p.Teams // picks completed in the current lap
	if done < p.Seat {
		return p.Seat - done - 1
	}
	// Seat already picked this lap; wrap to the next one.
	if p.Rounds > 0 && round >= p.Rounds {
		return Complete
	}
	return p.Teams - done + p.Seat - 1
}

// picksUntilSnakeTurn handles snake order, including the third-round
// reversal variant where the first direction flip is delayed to round 3
// and the parity mapping stays inverted afterwards.
func picksUntilSnakeTurn(p Params) int {
	round := 1
	done := 0 // picks completed in the current round
	if p.Picks > 0 {
		round = (p.Picks-1)/p.Teams + 1
		done = (p.Picks-1)%p.Teams + 1
	}
	if p.Rounds > 0 && round > p.Rounds {
		return Complete
	}

	target := seatPositionInRound(round, p.Seat, p.Teams, p.ReversalRound)
	if done < target {
		return target - done - 1
	}

	// The seat's turn in this round has passed.
	if p.Rounds > 0 && round >= p.Rounds {
		return Complete
	}
	next := seatPositionInRound(round+1, p.Seat, p.Teams, p.ReversalRound)
	return p.Teams - done + next - 1
}

// seatPositionInRound resolves the seat's pick position within a round per
// the direction rule. Only a reversal round of exactly 3 is recognized; the
// upstream data never defines any other value, so everything else falls
// back to plain alternating parity.
func seatPositionInRound(round, seat, teams, reversalRound int) int {
	reverse := teams - seat + 1
	normalOnOdd := true
	if reversalRound == 3 {
		if round == 3 {
			return reverse
		}
		if round > 3 {
			// Parity mapping is inverted after the delayed flip.
			normalOnOdd = false
		}
	}
	odd := round%2 == 1
	if odd == normalOnOdd {
		return seat
	}
	return reverse
}
