package matcher

import (
	"strings"

	"github.com/kdahlin/draftwatch/internal/models"
)

// Matcher resolves externally reported picks against the candidate pool.
// It is a swappable strategy so a stricter join (e.g. on normalized player
// IDs) can replace the heuristic without touching the scheduler or pool.
type Matcher interface {
	// Match returns the complete set of pool identity keys that should be
	// treated as drafted given the current pick list. It is recomputed from
	// scratch every cycle; no state is carried between calls.
	Match(picks []models.PickRecord, players []models.Player) map[string]struct{}
}

// teamAliases rewrites legacy feed team codes to the codes used by ranking
// CSVs. The feed still emits the pre-relocation abbreviations for a couple
// of franchises.
var teamAliases = map[string]string{
	"WAS": "WSH",
	"JAX": "JAC",
}

// NormalizeTeam maps a feed team code to its pool equivalent.
func NormalizeTeam(team string) string {
	if fixed, ok := teamAliases[team]; ok {
		return fixed
	}
	return team
}

// SubstringMatcher matches a pick to every pool player whose name contains
// the pick's last name, with team (after alias normalization) and position
// equal. Deliberately permissive: multiple players may match one pick and
// all of them are treated as drafted. False positives are accepted for the
// sake of recall.
type SubstringMatcher struct{}

func NewSubstringMatcher() *SubstringMatcher {
	return &SubstringMatcher{}
}

func (m *SubstringMatcher) Match(picks []models.PickRecord, players []models.Player) map[string]struct{} {
	matched := make(map[string]struct{})
	for _, pick := range picks {
		if pick.LastName == "" {
			continue
		}
		team := NormalizeTeam(pick.Team)
		for _, pl := range players {
			if pl.Name == "" {
				continue
			}
			if strings.Contains(pl.Name, pick.LastName) && pl.Team == team && pl.Position == pick.Position {
				matched[pl.Name] = struct{}{}
			}
		}
	}
	return matched
}
