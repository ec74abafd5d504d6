// Package loader reads student records from delimited text.
//
// Input is a header row naming the columns Name, Age and Score (exact case,
// any order, extra columns ignored) followed by one record per line.
//
// Numeric coercion: surrounding whitespace is trimmed; Age must be a base-10
// integer; Score must be a decimal number with '.' as the separator and no
// grouping characters. NaN and infinities are rejected.
//
// The first malformed line aborts the load and no records are returned.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/pkg/logger"
)

// Header column names.
const (
	ColumnName  = "Name"
	ColumnAge   = "Age"
	ColumnScore = "Score"
)

const utf8BOM = "\ufeff"

// Loader parses student records.
type Loader struct {
	delimiter rune
	logger    logger.Logger
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		delimiter: ',',
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every record of the file at path, in file order.
func (l *Loader) Load(ctx context.Context, path string) (records []model.StudentRecord, err error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			records, err = nil, fmt.Errorf("%w: close %s: %w", ErrIO, path, cerr)
		}
	}()

	l.logger.Debug(ctx, "reading input", logger.String("path", path))
	return l.Parse(ctx, f)
}

// Parse reads every record from r, in input order.
func (l *Loader) Parse(ctx context.Context, r io.Reader) ([]model.StudentRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.delimiter
	cr.FieldsPerRecord = -1 // short rows are reported as missing columns
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Line: 1, Err: ErrMissingHeader}
	}
	if err != nil {
		return nil, readError(err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	records := []model.StudentRecord{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load aborted: %w", err)
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}

		line, _ := cr.FieldPos(0)
		rec, err := cols.record(row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	l.logger.Debug(ctx, "input parsed", logger.Int("records", len(records)))
	return records, nil
}

// columns holds the position of each required column in a row.
type columns struct {
	name, age, score int
}

func locateColumns(header []string) (columns, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var c columns
	for _, want := range []struct {
		name string
		pos  *int
	}{
		{ColumnName, &c.name},
		{ColumnAge, &c.age},
		{ColumnScore, &c.score},
	} {
		i, ok := idx[want.name]
		if !ok {
			return columns{}, &ParseError{Line: 1, Column: want.name, Err: ErrMissingColumn}
		}
		*want.pos = i
	}
	return c, nil
}

func (c columns) record(row []string, line int) (model.StudentRecord, error) {
	field := func(name string, i int) (string, error) {
		if i >= len(row) {
			return "", &ParseError{Line: line, Column: name, Err: ErrMissingColumn}
		}
		return row[i], nil
	}

	name, err := field(ColumnName, c.name)
	if err != nil {
		return model.StudentRecord{}, err
	}
	rawAge, err := field(ColumnAge, c.age)
	if err != nil {
		return model.StudentRecord{}, err
	}
	rawScore, err := field(ColumnScore, c.score)
	if err != nil {
		return model.StudentRecord{}, err
	}

	age, err := strconv.Atoi(strings.TrimSpace(rawAge))
	if err != nil {
		return model.StudentRecord{}, &ParseError{Line: line, Column: ColumnAge, Value: rawAge, Err: numberError(err)}
	}
	score, err := parseScore(rawScore)
	if err != nil {
		return model.StudentRecord{}, &ParseError{Line: line, Column: ColumnScore, Value: rawScore, Err: err}
	}

	return model.StudentRecord{Name: name, Age: age, Score: score}, nil
}

func parseScore(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, numberError(err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-finite value", ErrNotANumber)
	}
	return v, nil
}

// numberError keeps the range/syntax reason from strconv without its echo of the input.
func numberError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return fmt.Errorf("%w: %w", ErrNotANumber, ne.Err)
	}
	return fmt.Errorf("%w: %w", ErrNotANumber, err)
}

// readError classifies csv reader failures: syntax problems are parse errors,
// everything else comes from the underlying reader.
func readError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.StartLine, Err: pe.Err}
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
