// Package csvpool parses ranking CSVs into the initial candidate pool.
// The recognized columns match the common exported-rankings shape: Overall
// Rank, Name, Position, Team, Bye, Position Rank, Tier and an optional
// OverallTier. Missing numeric fields parse to zero; validation of
// required fields is the pool's job at load time.
package csvpool

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kdahlin/draftwatch/internal/models"
)

const (
	colOverallRank  = "Overall Rank"
	colName         = "Name"
	colPosition     = "Position"
	colTeam         = "Team"
	colBye          = "Bye"
	colPositionRank = "Position Rank"
	colTier         = "Tier"
	colOverallTier  = "OverallTier"
)

// Parse reads a header-first CSV into ordered player records. Row order
// defines rank order. Rows with no Name cell at all (trailing blanks) are
// skipped; rows with content but missing required fields are kept so the
// pool can reject them explicitly.
func Parse(r io.Reader) ([]models.Player, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, cells default empty

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols[colName]; !ok {
		return nil, fmt.Errorf("CSV has no %q column", colName)
	}

	var players []models.Player
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if isBlank(row) {
			continue
		}

		players = append(players, models.Player{
			Name:         cell(colName),
			Position:     models.Position(cell(colPosition)),
			Team:         cell(colTeam),
			Bye:          atoi(cell(colBye)),
			OverallRank:  atoi(cell(colOverallRank)),
			PositionRank: atoi(cell(colPositionRank)),
			Tier:         atoi(cell(colTier)),
			OverallTier:  atoi(cell(colOverallTier)),
		})
	}
	return players, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// atoi parses leniently: absent or malformed numeric cells become 0 so the
// grouping step can bucket them separately instead of failing the load.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
