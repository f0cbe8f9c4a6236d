// Package report holds the shaped score table and chart types produced
// from an uploaded weekly-practice spreadsheet.
package report

import (
	"fmt"
)

// WeekColumns pairs the source-column index of a week label cell with the
// index of its numeric score cell.
type WeekColumns struct {
	Label int `json:"label"`
	Score int `json:"score"`
}

// ColumnTemplate selects the 15 raw spreadsheet columns that map onto the
// fixed output layout: Index, Roll no, Names, then six (week label, score)
// pairs. Templates are fixed per report section and are not user
// configurable at runtime.
type ColumnTemplate struct {
	Section string         `json:"section"`
	Index   int            `json:"index"`
	RollNo  int            `json:"roll_no"`
	Names   int            `json:"names"`
	Weeks   [6]WeekColumns `json:"weeks"`
}

// The two report sections the dashboard serves. The index lists differ
// because the source workbooks place their week blocks at different offsets.
var (
	// SectionJunior covers the "2N, 2R, 3R" upload tab.
	SectionJunior = ColumnTemplate{
		Section: "2N, 2R, 3R",
		Index:   0,
		RollNo:  1,
		Names:   2,
		Weeks: [6]WeekColumns{
			{Label: 6, Score: 13},
			{Label: 16, Score: 23},
			{Label: 26, Score: 33},
			{Label: 36, Score: 43},
			{Label: 46, Score: 53},
			{Label: 56, Score: 63},
		},
	}

	// SectionSenior covers the "4R" upload tab.
	SectionSenior = ColumnTemplate{
		Section: "4R",
		Index:   0,
		RollNo:  1,
		Names:   2,
		Weeks: [6]WeekColumns{
			{Label: 6, Score: 15},
			{Label: 18, Score: 27},
			{Label: 30, Score: 39},
			{Label: 42, Score: 51},
			{Label: 54, Score: 63},
			{Label: 66, Score: 75},
		},
	}
)

// Templates maps URL section slugs to their fixed column templates.
var Templates = map[string]ColumnTemplate{
	"junior": SectionJunior,
	"senior": SectionSenior,
}

// Indices returns the 15 source-column indices in output order.
func (t ColumnTemplate) Indices() []int {
	indices := make([]int, 0, 15)
	indices = append(indices, t.Index, t.RollNo, t.Names)
	for _, w := range t.Weeks {
		indices = append(indices, w.Label, w.Score)
	}
	return indices
}

// MaxIndex returns the highest source-column index the template references.
func (t ColumnTemplate) MaxIndex() int {
	max := 0
	for _, idx := range t.Indices() {
		if idx > max {
			max = idx
		}
	}
	return max
}

// Validate rejects templates with negative column indices.
func (t ColumnTemplate) Validate() error {
	for _, idx := range t.Indices() {
		if idx < 0 {
			return fmt.Errorf("column template %q references negative index %d", t.Section, idx)
		}
	}
	return nil
}
