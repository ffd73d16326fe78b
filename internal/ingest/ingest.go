// Package ingest turns uploaded spreadsheet/CSV bytes into a Dataset.
// The first sheet (xlsx) or the whole file (CSV) is read; the header
// row defines the column set.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sheetmind/sheetmind/internal/dataset"
)

var (
	// ErrNoFile is returned when a request carries no file at all.
	ErrNoFile = errors.New("ingest: no file provided")
	// ErrEmptyFile is returned for uploads holding no rows at all.
	ErrEmptyFile = errors.New("ingest: file has no rows")
)

// File parses the upload by filename extension: .xlsx/.xlsm via the
// spreadsheet reader, everything else as delimited text.
func File(filename string, data []byte) (dataset.Dataset, error) {
	if len(data) == 0 {
		return dataset.Dataset{}, ErrNoFile
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return Excel(data)
	default:
		return CSV(data)
	}
}

// Excel reads the first sheet of a workbook. Rows come back as
// formatted cell strings, so the dataset's value tagging decides what
// is numeric.
func Excel(data []byte) (dataset.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("ingest: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataset.Dataset{}, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("ingest: read sheet %q: %w", sheets[0], err)
	}
	return fromRawRows(rows)
}

// CSV reads delimited text, sniffing the delimiter among ',', ';' and
// tab from the header line.
func CSV(data []byte) (dataset.Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return dataset.Dataset{}, fmt.Errorf("ingest: read row %d: %w", len(rows)+1, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		rows = append(rows, row)
	}
	return fromRawRows(rows)
}

func fromRawRows(rows [][]string) (dataset.Dataset, error) {
	if len(rows) == 0 {
		return dataset.Dataset{}, ErrEmptyFile
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return dataset.FromRows(headers, rows[1:]), nil
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, cand := range []byte{';', '\t'} {
		if n := bytes.Count(line, []byte{cand}); n > bestCount {
			best, bestCount = rune(cand), n
		}
	}
	return best
}
