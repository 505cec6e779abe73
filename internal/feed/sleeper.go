package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kdahlin/draftwatch/internal/models"
)

// SleeperClient fetches draft data from the Sleeper public API (or anything
// wire-compatible with it, which the tests exploit).
type SleeperClient struct {
	baseURL string
	client  *http.Client
}

func NewSleeperClient(baseURL string) *SleeperClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &SleeperClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// sleeperPick mirrors one element of the picks endpoint response. Only the
// metadata the matcher needs is decoded.
type sleeperPick struct {
	PickNo   int `json:"pick_no"`
	Metadata struct {
		LastName string `json:"last_name"`
		Team     string `json:"team"`
		Position string `json:"position"`
	} `json:"metadata"`
}

// sleeperDraft mirrors the draft detail endpoint response.
type sleeperDraft struct {
	Type     string `json:"type"`
	Status   string `json:"status"`
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Settings struct {
		Teams         int `json:"teams"`
		Rounds        int `json:"rounds"`
		ReversalRound int `json:"reversal_round"`
		PickTimer     int `json:"pick_timer"`
	} `json:"settings"`
	LastPicked int64          `json:"last_picked"` // unix millis, 0 if none
	DraftOrder map[string]int `json:"draft_order"`
}

func (c *SleeperClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Picks returns the completed picks for a draft in feed order. Team codes
// are passed through as reported; alias normalization happens in the
// matcher.
func (c *SleeperClient) Picks(ctx context.Context, draftID string) ([]models.PickRecord, error) {
	var raw []sleeperPick
	if err := c.get(ctx, fmt.Sprintf(PicksEndpoint, draftID), &raw); err != nil {
		return nil, fmt.Errorf("fetch picks for draft %s: %w", draftID, err)
	}

	picks := make([]models.PickRecord, len(raw))
	for i, p := range raw {
		picks[i] = models.PickRecord{
			LastName: p.Metadata.LastName,
			Team:     p.Metadata.Team,
			Position: models.Position(p.Metadata.Position),
			PickNo:   p.PickNo,
		}
	}
	return picks, nil
}

// Draft returns the structural parameters and metadata for a draft.
func (c *SleeperClient) Draft(ctx context.Context, draftID string) (*models.DraftDetails, error) {
	var raw sleeperDraft
	if err := c.get(ctx, fmt.Sprintf(DraftEndpoint, draftID), &raw); err != nil {
		return nil, fmt.Errorf("fetch draft %s: %w", draftID, err)
	}

	details := &models.DraftDetails{
		Name:          raw.Metadata.Name,
		Type:          models.DraftType(raw.Type),
		Status:        models.DraftStatus(raw.Status),
		Teams:         raw.Settings.Teams,
		Rounds:        raw.Settings.Rounds,
		ReversalRound: raw.Settings.ReversalRound,
		PickTimerSec:  raw.Settings.PickTimer,
		DraftOrder:    raw.DraftOrder,
	}
	if raw.LastPicked > 0 {
		details.LastPicked = time.UnixMilli(raw.LastPicked)
	}
	return details, nil
}
