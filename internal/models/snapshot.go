package models

import "time"

// TurnState describes where the viewer's seat stands after the picks made
// so far. PicksUntilTurn is 0 when it is the seat's turn right now; Done is
// set instead when the seat has no picks left in the draft.
type TurnState struct {
	PicksUntilTurn int    `json:"picks_until_turn"`
	Done           bool   `json:"done"`
	Round          int    `json:"round"`
	Clock          string `json:"clock"`
	Paused         bool   `json:"paused"`
}

// TierBucket is one tier's slice of players, in pool rank order.
type TierBucket struct {
	Tier    int      `json:"tier"`
	Players []Player `json:"players"`
}

// TierView is a tiered projection of the available players, e.g. "ALL"
// grouped by overall tier or "RB" grouped by position tier.
type TierView struct {
	Title string       `json:"title"`
	Tiers []TierBucket `json:"tiers"`
}

// Snapshot is the immutable result of one successful reconciliation pass.
// It is published at most once per pass and consumed as-is by the
// presentation layer.
type Snapshot struct {
	DraftName   string     `json:"draft_name"`
	GeneratedAt time.Time  `json:"generated_at"`
	PickCount   int        `json:"pick_count"`
	Turn        TurnState  `json:"turn"`
	Views       []TierView `json:"views"`
}
