package report

// WeekSeries is one grouped-bar series: student names on the x axis and
// that week's scores on the y axis. The first two table rows are excluded
// from every series; the source workbooks keep summary rows there.
type WeekSeries struct {
	Week    string   `json:"name"`
	Names   []string `json:"x"`
	Values  []Score  `json:"y"`
	Average float64  `json:"average"`
}

// StarCount is one pie slice: how many students peaked at a given star
// value. Rows with an undefined highest star are not counted.
type StarCount struct {
	Star  float64 `json:"star"`
	Count int     `json:"count"`
	Label string  `json:"label"`
}

// Report is the complete build output: the shaped table plus both chart
// datasets. A build either fills all three or fails; there are no partial
// reports.
type Report struct {
	BuildID      string          `json:"build_id"`
	Section      string          `json:"section"`
	Records      []StudentRecord `json:"records"`
	WeeklySeries []WeekSeries    `json:"weekly_series"`
	StarCounts   []StarCount     `json:"star_counts"`
}

// DefinedStarCount returns how many records carry a defined highest star.
func (r *Report) DefinedStarCount() int {
	n := 0
	for _, rec := range r.Records {
		if rec.HighestStar.Valid {
			n++
		}
	}
	return n
}
