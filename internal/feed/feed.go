package feed

import (
	"context"

	"github.com/kdahlin/draftwatch/internal/models"
)

// Source is the external pick-feed collaborator. Picks is append-only over
// the life of a draft; Draft returns the structural parameters the turn
// scheduler needs. Both are read-only and may be fetched concurrently
// within one poll pass.
type Source interface {
	Picks(ctx context.Context, draftID string) ([]models.PickRecord, error)
	Draft(ctx context.Context, draftID string) (*models.DraftDetails, error)
}
