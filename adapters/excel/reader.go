package excel

import (
	"bytes"
	"encoding/base64"
	"log"
	"strings"
	"time"

	"ccdviz/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DecodeContents unwraps an uploaded data-URL style string
// ("<mime-prefix>,<base64-payload>") and base64-decodes the payload half.
// Only the payload is consumed; the mime prefix is ignored.
func DecodeContents(contents string) ([]byte, error) {
	parts := strings.SplitN(contents, ",", 2)
	if len(parts) != 2 {
		return nil, errors.DecodeError("upload contents missing data-URL payload separator", nil)
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.DecodeError("upload payload is not valid base64", err)
	}
	return decoded, nil
}

// SheetReader turns raw workbook bytes into a RawSheet, discarding the
// fixed header band at the top of the sheet.
type SheetReader struct {
	headerRows int
}

// NewSheetReader creates a reader that skips headerRows title/instruction
// rows before the data begins.
func NewSheetReader(headerRows int) *SheetReader {
	return &SheetReader{headerRows: headerRows}
}

// ReadSheet parses data as an xlsx workbook and returns the first sheet's
// rows below the header band.
func (r *SheetReader) ReadSheet(data []byte) (*RawSheet, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.ParseError("uploaded bytes are not a readable workbook", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.ParseError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ParseError("failed to read sheet rows", err)
	}
	log.Printf("[SheetReader] Sheet %q read in %.2fms (%d rows)", sheet,
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) > r.headerRows {
		rows = rows[r.headerRows:]
	} else {
		rows = nil
	}

	for i, row := range rows {
		for j, cell := range row {
			rows[i][j] = strings.TrimSpace(cell)
		}
	}

	log.Printf("[SheetReader] Header band skipped (%d rows), %d data rows remain", r.headerRows, len(rows))
	return &RawSheet{Sheet: sheet, Rows: rows}, nil
}
