package report

import (
	"encoding/json"
	"strconv"
)

// Score is a nullable numeric cell. Cells that fail numeric coercion stay
// invalid rather than erroring; missing scores are expected in these sheets.
type Score struct {
	Value float64
	Valid bool
}

// ScoreOf returns a defined score.
func ScoreOf(v float64) Score {
	return Score{Value: v, Valid: true}
}

// MarshalJSON encodes undefined scores as null so chart payloads keep
// row alignment.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(s.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts either a number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Score{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ScoreOf(v)
	return nil
}

// WeekCell is one (label, score) pair of a record's week block.
type WeekCell struct {
	Label string `json:"label"`
	Score Score  `json:"score"`
}

// StudentRecord is one shaped row: three identity columns, six week blocks,
// and the two derived columns.
type StudentRecord struct {
	Index       string      `json:"Index"`
	RollNo      string      `json:"Roll no"`
	Names       string      `json:"Names"`
	Weeks       [6]WeekCell `json:"weeks"`
	HighestStar Score       `json:"Highest_Star"`
	Percentage  string      `json:"Percentage"`
}

// TableColumns is the fixed 15-column output header, in order, followed by
// the two derived columns.
var TableColumns = []string{
	"Index", "Roll no", "Names",
	"WEEK1", "1",
	"WEEK2", "2",
	"WEEK3", "3",
	"WEEK4", "4",
	"WEEK5", "5",
	"WEEK6", "6",
	"Highest_Star", "Percentage",
}

// TableRow flattens the record into TableColumns order for rendering.
func (r StudentRecord) TableRow() []interface{} {
	row := make([]interface{}, 0, len(TableColumns))
	row = append(row, r.Index, r.RollNo, r.Names)
	for _, w := range r.Weeks {
		row = append(row, w.Label, w.Score)
	}
	row = append(row, r.HighestStar, r.Percentage)
	return row
}

// Scores returns the six numeric week scores in order.
func (r StudentRecord) Scores() [6]Score {
	var scores [6]Score
	for i, w := range r.Weeks {
		scores[i] = w.Score
	}
	return scores
}
