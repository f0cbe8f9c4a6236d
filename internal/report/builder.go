// Package report builds the shaped score table and chart datasets from an
// uploaded workbook payload.
package report

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"

	"ccdviz/adapters/excel"
	"ccdviz/domain/report"
	"ccdviz/internal/errors"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// chartRowSkip excludes the first table rows from both charts. The source
// workbooks keep summary rows at the top of the data band; the table shows
// them, the charts must not.
const chartRowSkip = 2

// starDenominator converts a highest star value into a percentage.
const starDenominator = 5

// Builder runs one spreadsheet-to-report transformation per call. Builds
// are synchronous, side-effect free, and independent of each other, so a
// single Builder may serve concurrent requests.
type Builder struct {
	reader *excel.SheetReader
}

// NewBuilder creates a builder that skips headerRows title rows at the top
// of every uploaded sheet.
func NewBuilder(headerRows int) *Builder {
	return &Builder{reader: excel.NewSheetReader(headerRows)}
}

// Build decodes a data-URL upload string and produces the full report for
// the given column template. Any step failure aborts the build: success
// yields the table and both chart datasets, failure yields nothing.
func (b *Builder) Build(contents string, tmpl report.ColumnTemplate) (*report.Report, error) {
	data, err := excel.DecodeContents(contents)
	if err != nil {
		return nil, err
	}
	return b.BuildFromBytes(data, tmpl)
}

// BuildFromBytes runs the transformation on already-decoded workbook bytes.
func (b *Builder) BuildFromBytes(data []byte, tmpl report.ColumnTemplate) (*report.Report, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid column template")
	}

	sheet, err := b.reader.ReadSheet(data)
	if err != nil {
		return nil, err
	}

	if width := sheet.Width(); width <= tmpl.MaxIndex() {
		return nil, errors.SchemaError(fmt.Sprintf(
			"sheet has %d columns, template %q requires index %d", width, tmpl.Section, tmpl.MaxIndex()))
	}

	buildID := uuid.New().String()
	records := shapeRecords(sheet, tmpl)

	out := &report.Report{
		BuildID:      buildID,
		Section:      tmpl.Section,
		Records:      records,
		WeeklySeries: buildWeeklySeries(records),
		StarCounts:   buildStarCounts(records),
	}

	log.Printf("[ReportBuilder] build=%s section=%q records=%d starred=%d",
		buildID, tmpl.Section, len(records), out.DefinedStarCount())
	return out, nil
}

// shapeRecords selects the template's columns from every data row and
// derives the highest star and percentage columns.
func shapeRecords(sheet *excel.RawSheet, tmpl report.ColumnTemplate) []report.StudentRecord {
	records := make([]report.StudentRecord, 0, len(sheet.Rows))
	for i := range sheet.Rows {
		rec := report.StudentRecord{
			Index:  sheet.Cell(i, tmpl.Index),
			RollNo: sheet.Cell(i, tmpl.RollNo),
			Names:  sheet.Cell(i, tmpl.Names),
		}
		for w, cols := range tmpl.Weeks {
			rec.Weeks[w] = report.WeekCell{
				Label: sheet.Cell(i, cols.Label),
				Score: coerceScore(sheet.Cell(i, cols.Score)),
			}
		}
		rec.HighestStar = highestStar(rec.Scores())
		rec.Percentage = formatPercentage(rec.HighestStar)
		records = append(records, rec)
	}
	return records
}

// coerceScore parses a cell as a number. Failure is not an error: the cell
// degrades to an undefined score and downstream aggregates ignore it.
// ParseFloat accepts "NaN" and "Inf" tokens; those are not scores and would
// not survive JSON encoding, so non-finite values degrade the same way.
func coerceScore(cell string) report.Score {
	if cell == "" {
		return report.Score{}
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return report.Score{}
	}
	return report.ScoreOf(v)
}

// highestStar is the max of the defined week scores, undefined when the
// whole row is undefined.
func highestStar(scores [6]report.Score) report.Score {
	defined := make([]float64, 0, len(scores))
	for _, s := range scores {
		if s.Valid {
			defined = append(defined, s.Value)
		}
	}
	max, err := stats.Max(defined)
	if err != nil {
		return report.Score{}
	}
	return report.ScoreOf(max)
}

func formatPercentage(star report.Score) string {
	if !star.Valid {
		return ""
	}
	return fmt.Sprintf("%.2f%%", star.Value/starDenominator*100)
}

// buildWeeklySeries assembles one bar series per week from the charted rows
// (everything past the summary rows), with a gonum mean of the defined
// scores as the series average.
func buildWeeklySeries(records []report.StudentRecord) []report.WeekSeries {
	charted := records
	if len(charted) > chartRowSkip {
		charted = charted[chartRowSkip:]
	} else {
		charted = nil
	}

	series := make([]report.WeekSeries, 6)
	for w := range series {
		names := make([]string, 0, len(charted))
		values := make([]report.Score, 0, len(charted))
		defined := make([]float64, 0, len(charted))

		for _, rec := range charted {
			names = append(names, rec.Names)
			score := rec.Weeks[w].Score
			values = append(values, score)
			if score.Valid {
				defined = append(defined, score.Value)
			}
		}

		avg := 0.0
		if len(defined) > 0 {
			avg = stat.Mean(defined, nil)
		}

		series[w] = report.WeekSeries{
			Week:    fmt.Sprintf("Week %d", w+1),
			Names:   names,
			Values:  values,
			Average: avg,
		}
	}
	return series
}

// buildStarCounts groups records by defined highest star, ascending.
func buildStarCounts(records []report.StudentRecord) []report.StarCount {
	counts := make(map[float64]int)
	for _, rec := range records {
		if rec.HighestStar.Valid {
			counts[rec.HighestStar.Value]++
		}
	}

	starValues := make([]float64, 0, len(counts))
	for star := range counts {
		starValues = append(starValues, star)
	}
	sort.Float64s(starValues)

	out := make([]report.StarCount, 0, len(starValues))
	for _, star := range starValues {
		out = append(out, report.StarCount{
			Star:  star,
			Count: counts[star],
			Label: fmt.Sprintf("%d students = %s stars", counts[star], strconv.FormatFloat(star, 'f', -1, 64)),
		})
	}
	return out
}
