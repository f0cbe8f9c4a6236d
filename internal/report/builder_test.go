package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"ccdviz/domain/report"
	"ccdviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const headerRows = 8

// studentRow describes one sheet row for the workbook helper. Scores are
// raw cell strings; "" leaves the cell unset.
type studentRow struct {
	index  string
	roll   string
	name   string
	scores [6]string
}

func numberedStudents(n int) []studentRow {
	students := make([]studentRow, n)
	for i := range students {
		star := strconv.Itoa(i % 6)
		students[i] = studentRow{
			index: strconv.Itoa(i + 1),
			roll:  fmt.Sprintf("22R-%03d", i+1),
			name:  fmt.Sprintf("Student %d", i+1),
		}
		for w := range students[i].scores {
			students[i].scores[w] = star
		}
	}
	return students
}

// workbookContents lays students out under the given template, below the
// fixed title band, and wraps the workbook as an upload data-URL string.
func workbookContents(t *testing.T, tmpl report.ColumnTemplate, students []studentRow) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	set := func(row, col int, value string) {
		cell, err := excelize.CoordinatesToCellName(col+1, row+1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, value))
	}

	for r := 0; r < headerRows; r++ {
		set(r, 0, fmt.Sprintf("title %d", r+1))
	}
	for i, s := range students {
		row := headerRows + i
		set(row, tmpl.Index, s.index)
		set(row, tmpl.RollNo, s.roll)
		set(row, tmpl.Names, s.name)
		for w, cols := range tmpl.Weeks {
			set(row, cols.Label, fmt.Sprintf("WEEK%d", w+1))
			if s.scores[w] != "" {
				set(row, cols.Score, s.scores[w])
			}
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return asDataURL(buf.Bytes())
}

func asDataURL(data []byte) string {
	return "data:application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;base64," +
		base64.StdEncoding.EncodeToString(data)
}

func TestBuild_ShapesAllRows(t *testing.T) {
	students := numberedStudents(10)
	contents := workbookContents(t, report.SectionJunior, students)

	rep, err := NewBuilder(headerRows).Build(contents, report.SectionJunior)
	require.NoError(t, err)

	// Every row below the title band becomes a record, in sheet order.
	require.Len(t, rep.Records, 10)
	assert.Equal(t, "2N, 2R, 3R", rep.Section)
	assert.NotEmpty(t, rep.BuildID)
	for i, rec := range rep.Records {
		assert.Equal(t, students[i].name, rec.Names)
		assert.Equal(t, students[i].roll, rec.RollNo)
		require.True(t, rec.HighestStar.Valid)
		assert.Equal(t, float64(i%6), rec.HighestStar.Value)
	}
}

func TestBuild_WeeklySeriesExcludesSummaryRows(t *testing.T) {
	students := numberedStudents(10)
	contents := workbookContents(t, report.SectionJunior, students)

	rep, err := NewBuilder(headerRows).Build(contents, report.SectionJunior)
	require.NoError(t, err)

	require.Len(t, rep.WeeklySeries, 6)
	for w, series := range rep.WeeklySeries {
		assert.Equal(t, fmt.Sprintf("Week %d", w+1), series.Week)
		// First two table rows never reach the charts.
		require.Len(t, series.Names, 8)
		assert.Equal(t, "Student 3", series.Names[0])
		require.Len(t, series.Values, 8)
		// Charted scores are 2,3,4,5,0,1,2,3.
		assert.InDelta(t, 2.5, series.Average, 1e-9)
	}
}

func TestBuild_StarCounts(t *testing.T) {
	students := numberedStudents(10)
	contents := workbookContents(t, report.SectionJunior, students)

	rep, err := NewBuilder(headerRows).Build(contents, report.SectionJunior)
	require.NoError(t, err)

	// Stars 0..5, ascending; ten students fold into at most six groups.
	require.Len(t, rep.StarCounts, 6)
	total := 0
	for i, sc := range rep.StarCounts {
		assert.Equal(t, float64(i), sc.Star)
		total += sc.Count
		assert.Equal(t, fmt.Sprintf("%d students = %d stars", sc.Count, i), sc.Label)
		if i > 0 {
			assert.Greater(t, sc.Star, rep.StarCounts[i-1].Star)
		}
	}
	assert.Equal(t, rep.DefinedStarCount(), total)
	assert.Equal(t, 10, total)
}

func TestBuild_PercentageRoundTrips(t *testing.T) {
	students := numberedStudents(10)
	contents := workbookContents(t, report.SectionJunior, students)

	rep, err := NewBuilder(headerRows).Build(contents, report.SectionJunior)
	require.NoError(t, err)

	for _, rec := range rep.Records {
		require.True(t, strings.HasSuffix(rec.Percentage, "%"), "percentage %q must end in %%", rec.Percentage)
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(rec.Percentage, "%"), 64)
		require.NoError(t, err)
		assert.InDelta(t, rec.HighestStar.Value/5*100, parsed, 0.01)
		assert.GreaterOrEqual(t, rec.HighestStar.Value, 0.0)
		assert.LessOrEqual(t, rec.HighestStar.Value, 5.0)
	}
}

func TestBuild_NonNumericCellCoerces(t *testing.T) {
	students := numberedStudents(4)
	students[2].scores = [6]string{"absent", "2", "5", "1", "", "3"}
	contents := workbookContents(t, report.SectionJunior, students)

	rep, err := NewBuilder(headerRows).Build(contents, report.SectionJunior)
	require.NoError(t, err)

	rec := rep.Records[2]
	assert.False(t, rec.Weeks[0].Score.Valid, "non-numeric cell degrades to undefined, not an error")
	assert.False(t, rec.Weeks[4].Score.Valid)
	// Highest star is computed from the remaining defined fields.
	require.True(t, rec.HighestStar.Valid)
	assert.Equal(t, 5.0, rec.HighestStar.Value)
	assert.Equal(t, "100.00%", rec.Percentage)
}

func TestBuild_NonFiniteCellsStayUndefined(t *testing.T) {
	students := numberedStudents(4)
	students[2].scores = [6]string{"NaN", "2", "Inf", "1", "-Inf", "3"}
	contents := workbookContents(t, report.SectionJunior, students)

	rep, err := NewBuilder(headerRows).Build(contents, report.SectionJunior)
	require.NoError(t, err)

	rec := rep.Records[2]
	assert.False(t, rec.Weeks[0].Score.Valid)
	assert.False(t, rec.Weeks[2].Score.Valid)
	assert.False(t, rec.Weeks[4].Score.Valid)
	require.True(t, rec.HighestStar.Valid)
	assert.Equal(t, 3.0, rec.HighestStar.Value)
	assert.LessOrEqual(t, rec.HighestStar.Value, 5.0)

	// The whole report must survive JSON encoding; a bare NaN token in a
	// score would abort the response mid-encode.
	_, err = json.Marshal(rep)
	require.NoError(t, err)
}

func TestBuild_AllScoresUndefined(t *testing.T) {
	students := numberedStudents(3)
	students[1].scores = [6]string{"", "n/a", "", "-", "", ""}
	contents := workbookContents(t, report.SectionJunior, students)

	rep, err := NewBuilder(headerRows).Build(contents, report.SectionJunior)
	require.NoError(t, err)

	rec := rep.Records[1]
	assert.False(t, rec.HighestStar.Valid)
	assert.Equal(t, "", rec.Percentage)
	// Undefined rows stay in the table but out of the pie groups.
	assert.Equal(t, 2, rep.DefinedStarCount())
	total := 0
	for _, sc := range rep.StarCounts {
		total += sc.Count
	}
	assert.Equal(t, 2, total)
}

func TestBuild_Deterministic(t *testing.T) {
	contents := workbookContents(t, report.SectionSenior, numberedStudents(7))
	builder := NewBuilder(headerRows)

	first, err := builder.Build(contents, report.SectionSenior)
	require.NoError(t, err)
	second, err := builder.Build(contents, report.SectionSenior)
	require.NoError(t, err)

	// Identical input and template yield identical output; only the build
	// stamp differs.
	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.WeeklySeries, second.WeeklySeries)
	assert.Equal(t, first.StarCounts, second.StarCounts)
	assert.NotEqual(t, first.BuildID, second.BuildID)
}

func TestBuild_ErrorKinds(t *testing.T) {
	narrow := func(t *testing.T) string {
		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)
		for r := 0; r < headerRows+3; r++ {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, fmt.Sprintf("row %d", r+1)))
		}
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)
		return asDataURL(buf.Bytes())
	}

	tests := []struct {
		name     string
		contents string
		wantCode string
	}{
		{
			name:     "malformed base64 payload",
			contents: "data:application/vnd.ms-excel;base64,!!!not-base64!!!",
			wantCode: errors.CodeDecodeError,
		},
		{
			name:     "missing data-URL separator",
			contents: base64.StdEncoding.EncodeToString([]byte("payload")),
			wantCode: errors.CodeDecodeError,
		},
		{
			name:     "payload is not a workbook",
			contents: asDataURL([]byte("plain text, not a workbook")),
			wantCode: errors.CodeParseError,
		},
		{
			name:     "sheet narrower than template",
			contents: narrow(t),
			wantCode: errors.CodeSchemaError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := NewBuilder(headerRows).Build(tt.contents, report.SectionJunior)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			// No partial results on failure.
			assert.Nil(t, rep)
		})
	}
}

func TestCoerceScore(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want report.Score
	}{
		{name: "integer cell", cell: "4", want: report.ScoreOf(4)},
		{name: "decimal cell", cell: "3.5", want: report.ScoreOf(3.5)},
		{name: "empty cell", cell: "", want: report.Score{}},
		{name: "text cell", cell: "absent", want: report.Score{}},
		{name: "mixed cell", cell: "4 stars", want: report.Score{}},
		{name: "NaN token is not a score", cell: "NaN", want: report.Score{}},
		{name: "infinity token is not a score", cell: "Inf", want: report.Score{}},
		{name: "negative infinity token is not a score", cell: "-Inf", want: report.Score{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceScore(tt.cell))
		})
	}
}

func TestHighestStar(t *testing.T) {
	var scores [6]report.Score
	assert.False(t, highestStar(scores).Valid, "all-undefined row has no highest star")

	scores[1] = report.ScoreOf(2)
	scores[4] = report.ScoreOf(5)
	got := highestStar(scores)
	require.True(t, got.Valid)
	assert.Equal(t, 5.0, got.Value)
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "", formatPercentage(report.Score{}))
	assert.Equal(t, "100.00%", formatPercentage(report.ScoreOf(5)))
	assert.Equal(t, "50.00%", formatPercentage(report.ScoreOf(2.5)))
	assert.Equal(t, "0.00%", formatPercentage(report.ScoreOf(0)))
}
