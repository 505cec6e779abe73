package pool

import "github.com/kdahlin/draftwatch/internal/models"

// TierField selects which tier dimension GroupByTier partitions on.
type TierField string

const (
	TierByPosition TierField = "tier"
	TierByOverall  TierField = "overall_tier"
)

func tierOf(pl models.Player, field TierField) int {
	if field == TierByOverall {
		return pl.OverallTier
	}
	return pl.Tier
}

// GroupByTier partitions players into ordered buckets 1..max observed tier,
// including empty tiers in between so sparse tiers stay representable.
// Players whose tier field is unset (zero) land in a leading tier-0 bucket
// rather than being dropped. The input order is preserved within each
// bucket and the input slice is never mutated; removal state is ignored
// here and filtered at presentation time instead.
func GroupByTier(players []models.Player, field TierField) []models.TierBucket {
	maxTier := 0
	untiered := false
	for _, pl := range players {
		t := tierOf(pl, field)
		if t > maxTier {
			maxTier = t
		}
		if t <= 0 {
			untiered = true
		}
	}

	buckets := make([]models.TierBucket, 0, maxTier+1)
	if untiered {
		buckets = append(buckets, models.TierBucket{Tier: 0})
	}
	for t := 1; t <= maxTier; t++ {
		buckets = append(buckets, models.TierBucket{Tier: t})
	}

	index := make(map[int]int, len(buckets))
	for i, b := range buckets {
		index[b.Tier] = i
	}
	for _, pl := range players {
		t := tierOf(pl, field)
		if t < 0 {
			t = 0
		}
		i := index[t]
		buckets[i].Players = append(buckets[i].Players, pl)
	}
	return buckets
}
