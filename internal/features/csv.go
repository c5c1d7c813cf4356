package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrCSVHeader is returned when a CSV lacks a required column.
var ErrCSVHeader = errors.New("csv header missing column")

// CSVHeader returns the column order written by WriteCSV.
func CSVHeader() []string {
	return append([]string{"match_id", "radiant_win"}, names[:]...)
}

// WriteCSV writes rows with a header line. Whole numbers are written
// without a fractional part.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader()); err != nil {
		return err
	}

	record := make([]string, 2+Width)
	for _, r := range rows {
		record[0] = strconv.FormatInt(r.MatchID, 10)
		record[1] = strconv.Itoa(int(r.Label))
		for i, x := range r.Vector {
			record[2+i] = strconv.FormatFloat(x, 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by WriteCSV. Columns are located by header
// name, so their order does not matter and extra columns are ignored.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	for _, col := range CSVHeader() {
		if _, ok := pos[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrCSVHeader, col)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		var row Row
		if row.MatchID, err = strconv.ParseInt(record[pos["match_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("csv line %d: match_id: %w", line, err)
		}
		if row.Label, err = parseLabel(record[pos["radiant_win"]]); err != nil {
			return nil, fmt.Errorf("csv line %d: radiant_win: %w", line, err)
		}
		for i, n := range names {
			if row.Vector[i], err = strconv.ParseFloat(record[pos[n]], 64); err != nil {
				return nil, fmt.Errorf("csv line %d: %s: %w", line, n, err)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "1.0":
		return RadiantWin, nil
	case "0", "false", "0.0":
		return DireWin, nil
	}
	return DireWin, fmt.Errorf("invalid label %q", s)
}
