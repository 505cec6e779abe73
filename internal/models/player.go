package models

// Position identifies a player's position group.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"
)

// Player represents one candidate in the draft board. The full display name
// is the identity key and is assumed unique within a pool. Rank and tier
// fields may be zero when the input data did not supply them; the tier
// grouping step buckets those separately instead of failing.
type Player struct {
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	Team         string   `json:"team"`
	Bye          int      `json:"bye,omitempty"`
	OverallRank  int      `json:"overall_rank,omitempty"`
	PositionRank int      `json:"position_rank,omitempty"`
	Tier         int      `json:"tier,omitempty"`
	OverallTier  int      `json:"overall_tier,omitempty"`
}
