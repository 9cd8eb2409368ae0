package ranking

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
)

// PointsTable holds the points awarded to the first positions of a group
var PointsTable = []model.Points{5, 3, 1}

// MaxGroupPoints is the most points a single (game, day) group can award
const MaxGroupPoints model.Points = 9

// TiePolicy decides how players with equal results are placed
type TiePolicy string

const (
	// TieSplit shares the points of the positions tied players occupy
	TieSplit TiePolicy = "split"
	// TieAlphabetical places tied players by name
	TieAlphabetical TiePolicy = "alphabetical"
)

// ParseTiePolicy validates a configured tie policy
func ParseTiePolicy(s string) (TiePolicy, error) {
	switch TiePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case TieSplit, "":
		return TieSplit, nil
	case TieAlphabetical:
		return TieAlphabetical, nil
	default:
		return "", fmt.Errorf("unknown tie policy %q", s)
	}
}

// PointsFor returns the points for a 1-based position
func PointsFor(position int) model.Points {
	if position < 1 || position > len(PointsTable) {
		return 0
	}
	return PointsTable[position-1]
}

// placeGroup orders one (game, day) group and awards points
func placeGroup(group []model.ScoreRecord, tmpl games.Template, policy TiePolicy) []model.Placement {
	sorted := slices.Clone(group)
	slices.SortFunc(sorted, func(a, b model.ScoreRecord) int {
		if c := tmpl.Compare(a.Value, b.Value); c != 0 {
			return c
		}
		return strings.Compare(string(a.Player), string(b.Player))
	})

	placements := make([]model.Placement, len(sorted))
	for i := 0; i < len(sorted); {
		j := i + 1
		if policy == TieSplit {
			for j < len(sorted) && sorted[j].Value == sorted[i].Value {
				j++
			}
		}

		var pool model.Points
		for k := i; k < j; k++ {
			pool += PointsFor(k + 1)
		}
		share := pool / model.Points(j-i)

		for k := i; k < j; k++ {
			placements[k] = model.Placement{
				Day:      sorted[k].Day,
				Game:     sorted[k].Game,
				Player:   sorted[k].Player,
				Position: i + 1,
				Value:    sorted[k].Value,
				Points:   share,
			}
		}
		i = j
	}
	return placements
}

// samePoints compares accumulated points, absorbing float error from splits
func samePoints(a, b model.Points) bool {
	return math.Abs(float64(a-b)) < 1e-9
}
