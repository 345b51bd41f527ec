// Package dataload reads observation pairs from delimited text files.
package dataload

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/samber/lo"

	"github.com/sky-flux/descent"
)

// Options selects the two columns to read. Columns are header names, or
// zero-based indexes (which also work with a header).
type Options struct {
	XColumn   string
	YColumn   string
	Separator rune
	Header    bool
}

// LoadCSV reads observations from the file at path.
func LoadCSV(path string, opts Options) ([]descent.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	data, err := ReadCSV(f, opts)
	if err != nil {
		return nil, errors.Annotatef(err, "load %s", path)
	}
	return data, nil
}

// ReadCSV reads observations from r. Blank lines are skipped; any cell that
// is not a number fails the whole read.
func ReadCSV(r io.Reader, opts Options) ([]descent.Observation, error) {
	reader := csv.NewReader(r)
	if opts.Separator != 0 {
		reader.Comma = opts.Separator
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var header []string
	if opts.Header {
		var err error
		header, err = reader.Read()
		if err == io.EOF {
			return nil, descent.ErrEmptyDataset
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		header = lo.Map(header, func(h string, _ int) string { return strings.TrimSpace(h) })
	}
	xIndex, err := columnIndex(header, opts.XColumn)
	if err != nil {
		return nil, err
	}
	yIndex, err := columnIndex(header, opts.YColumn)
	if err != nil {
		return nil, err
	}

	var data []descent.Observation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		line, _ := reader.FieldPos(0)
		if need := max(xIndex, yIndex); need >= len(record) {
			return nil, errors.NotValidf("line %d has %d fields, column %d", line, len(record), need)
		}
		x, err := parseCell(record[xIndex])
		if err != nil {
			return nil, errors.NotValidf("line %d: x %q", line, record[xIndex])
		}
		y, err := parseCell(record[yIndex])
		if err != nil {
			return nil, errors.NotValidf("line %d: y %q", line, record[yIndex])
		}
		data = append(data, descent.Observation{X: x, Y: y})
	}
	if len(data) == 0 {
		return nil, descent.ErrEmptyDataset
	}
	return data, nil
}

func columnIndex(header []string, column string) (int, error) {
	if i := lo.IndexOf(header, column); i >= 0 {
		return i, nil
	}
	i, err := strconv.Atoi(column)
	if err != nil || i < 0 {
		return 0, errors.NotFoundf("column %q", column)
	}
	if header != nil && i >= len(header) {
		return 0, errors.NotFoundf("column %d of %d", i, len(header))
	}
	return i, nil
}

func parseCell(cell string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}
