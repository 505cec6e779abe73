package models

import "time"

// DraftType defines how the pick order advances between rounds.
type DraftType string

const (
	DraftTypeSnake  DraftType = "snake"
	DraftTypeLinear DraftType = "linear"
)

// DraftStatus defines the status of a draft as reported by the feed.
type DraftStatus string

const (
	DraftStatusPreDraft DraftStatus = "pre_draft"
	DraftStatusDrafting DraftStatus = "drafting"
	DraftStatusPaused   DraftStatus = "paused"
	DraftStatusComplete DraftStatus = "complete"
)

// DraftDetails holds the structural draft parameters fetched once per poll
// cycle. They are treated as authoritative for that cycle.
type DraftDetails struct {
	Name          string         `json:"name"`
	Type          DraftType      `json:"type"`
	Status        DraftStatus    `json:"status"`
	Teams         int            `json:"teams"`
	Rounds        int            `json:"rounds"`
	ReversalRound int            `json:"reversal_round,omitempty"`
	PickTimerSec  int            `json:"pick_timer_sec"`
	LastPicked    time.Time      `json:"last_picked,omitempty"`
	DraftOrder    map[string]int `json:"draft_order,omitempty"` // user ID -> seat
}
