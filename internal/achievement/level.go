package achievement

// Level is one rung of the points ladder.
type Level struct {
	Label     string
	MinPoints int
}

// Levels is ordered by MinPoints ascending.
var Levels = []Level{
	{Label: "Beginner", MinPoints: 0},
	{Label: "Explorer", MinPoints: 25},
	{Label: "Enthusiast", MinPoints: 60},
	{Label: "Connoisseur", MinPoints: 100},
	{Label: "Gourmet Master", MinPoints: 150},
}

// LevelFor returns the highest level reached with points.
func LevelFor(points int) string {
	label := Levels[0].Label
	for _, l := range Levels {
		if points >= l.MinPoints {
			label = l.Label
		}
	}
	return label
}

// LevelProgress describes the distance to the next level.
type LevelProgress struct {
	Current      string  `json:"current"`
	Next         string  `json:"next,omitempty"` // empty at the top of the ladder
	PointsToNext int     `json:"points_to_next"`
	Fraction     float64 `json:"fraction"` // progress from current to next, 1 at the top
}

// ProgressFor computes LevelProgress for points.
func ProgressFor(points int) LevelProgress {
	for i := len(Levels) - 1; i >= 0; i-- {
		if points < Levels[i].MinPoints {
			continue
		}
		p := LevelProgress{Current: Levels[i].Label, Fraction: 1}
		if i+1 < len(Levels) {
			next := Levels[i+1]
			span := next.MinPoints - Levels[i].MinPoints
			p.Next = next.Label
			p.PointsToNext = next.MinPoints - points
			p.Fraction = float64(points-Levels[i].MinPoints) / float64(span)
		}
		return p
	}
	return LevelProgress{Current: Levels[0].Label}
}
