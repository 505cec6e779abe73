package csvpool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kdahlin/draftwatch/internal/models"
)

const sampleCSV = `Overall Rank,Name,Position,Team,Bye,Position Rank,Tier,OverallTier
1,Justin Jefferson,WR,MIN,6,1,1,1
2,Christian McCaffrey,RB,SF,9,1,1,1
3,Bijan Robinson,RB,ATL,12,2,,
`

func TestParse(t *testing.T) {
	players, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, players, 3)

	require.Equal(t, models.Player{
		Name:         "Justin Jefferson",
		Position:     models.PositionWR,
		Team:         "MIN",
		Bye:          6,
		OverallRank:  1,
		PositionRank: 1,
		Tier:         1,
		OverallTier:  1,
	}, players[0])

	// Missing numeric cells parse to zero, not an error.
	require.Equal(t, "Bijan Robinson", players[2].Name)
	require.Equal(t, 0, players[2].Tier)
	require.Equal(t, 0, players[2].OverallTier)
}

func TestParse_SkipsBlankRows(t *testing.T) {
	players, err := Parse(strings.NewReader("Name,Position\nA,QB\n,\n"))
	require.NoError(t, err)
	require.Len(t, players, 1)
}

func TestParse_ToleratesRaggedRows(t *testing.T) {
	players, err := Parse(strings.NewReader("Name,Position,Team\nA,QB\n"))
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.Equal(t, "", players[0].Team)
}

func TestParse_RequiresNameColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("Position,Team\nQB,DAL\n"))
	require.Error(t, err)
}

func TestParse_RowOrderIsRankOrder(t *testing.T) {
	players, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, "Justin Jefferson", players[0].Name)
	require.Equal(t, "Christian McCaffrey", players[1].Name)
	require.Equal(t, "Bijan Robinson", players[2].Name)
}
