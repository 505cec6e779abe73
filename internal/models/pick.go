package models

// PickRecord is one completed pick from the external feed. The feed uses its
// own naming conventions (last name only, occasionally stale team codes), so
// records are reconciled against the pool heuristically rather than joined
// on an exact key.
type PickRecord struct {
	LastName string   `json:"last_name"`
	Team     string   `json:"team"`
	Position Position `json:"position"`
	PickNo   int      `json:"pick_no"` // monotonically increasing feed position
}
