package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ReadCSV reads a frame from CSV data. The first record is the header and
// provides the column names. Empty cells become nulls.
//
// Column kinds are inferred from the non-empty cells: int if every cell parses
// as an integer, float if every cell parses as a number, bool if every cell is
// "true" or "false", string otherwise. A column with only empty cells becomes
// an all-null float column.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: csv data has no header", ErrInvalidData)
	}

	header := records[0]
	rows := records[1:]

	cols := make([]*Series, len(header))
	for c, name := range header {
		cells := make([]string, len(rows))
		for i, row := range rows {
			cells[i] = row[c]
		}
		cols[c] = inferSeries(name, cells)
	}

	return New(cols...)
}

func inferSeries(name string, cells []string) *Series {
	kind := inferKind(cells)
	s := NewSeries(name, kind)

	for _, cell := range cells {
		if cell == "" {
			s.AppendNull()
			continue
		}

		switch kind {
		case KindInt:
			v, _ := strconv.ParseInt(cell, 10, 64)
			s.AppendInt(v)
		case KindFloat:
			v, _ := strconv.ParseFloat(cell, 64)
			s.AppendFloat(v)
		case KindBool:
			s.AppendBool(cell == "true")
		default:
			s.AppendString(cell)
		}
	}

	return s
}

func inferKind(cells []string) Kind {
	isInt, isFloat, isBool := true, true, true
	seen := false

	for _, cell := range cells {
		if cell == "" {
			continue
		}
		seen = true

		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
			}
		}
		if isBool && cell != "true" && cell != "false" {
			isBool = false
		}
	}

	switch {
	case !seen:
		return KindFloat
	case isInt:
		return KindInt
	case isFloat:
		return KindFloat
	case isBool:
		return KindBool
	default:
		return KindString
	}
}

// WriteCSV writes a frame as CSV data with a header record. Null cells become
// empty cells. Floats keep a trailing ".0" when whole, so reading the output
// back reproduces the column kinds.
func WriteCSV(w io.Writer, f *Frame) error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidData)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(f.Names()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, f.NumCols())
	for i := 0; i < f.NumRows(); i++ {
		for c := 0; c < f.NumCols(); c++ {
			record[c] = f.ColumnAt(c).Value(i).Format()
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
