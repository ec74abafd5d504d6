package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/roster/internal/adapters/loader"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func writeInput(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "student_scores.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func parse(content string, opts ...loader.Option) ([]model.StudentRecord, error) {
	return loader.New(opts...).Parse(context.Background(), strings.NewReader(content))
}

func TestLoader_Load(t *testing.T) {
	Convey("Given a file with two students", t, func() {
		path := writeInput(t, "Name,Age,Score\nAlice,20,90.0\nBob,22,75.5\n")
		l := loader.New(loader.WithLogger(logger.Nop()))

		Convey("When loading it", func() {
			records, err := l.Load(context.Background(), path)

			Convey("Then both records come back in file order with exact values", func() {
				So(err, ShouldBeNil)
				So(records, ShouldResemble, []model.StudentRecord{
					{Name: "Alice", Age: 20, Score: 90.0},
					{Name: "Bob", Age: 22, Score: 75.5},
				})
			})
		})
	})

	Convey("Given a path that does not exist", t, func() {
		path := filepath.Join(t.TempDir(), "missing.csv")

		Convey("When loading it", func() {
			records, err := loader.New().Load(context.Background(), path)

			Convey("Then an ErrIO error is returned", func() {
				So(records, ShouldBeNil)
				So(errors.Is(err, loader.ErrIO), ShouldBeTrue)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
				So(errors.Is(err, loader.ErrParse), ShouldBeFalse)
			})
		})
	})

	Convey("Given a file with a bad row after good ones", t, func() {
		path := writeInput(t, "Name,Age,Score\nAlice,20,90\nBob,twenty,75\nCleo,21,80\n")

		Convey("When loading it", func() {
			records, err := loader.New().Load(context.Background(), path)

			Convey("Then no partial result is returned", func() {
				So(records, ShouldBeNil)
				So(errors.Is(err, loader.ErrParse), ShouldBeTrue)
			})
		})
	})
}

func TestLoader_Parse(t *testing.T) {
	Convey("Given a header in a different order with extra columns", t, func() {
		records, err := parse("Score,Class,Name,Age\n88.5,A,Dana,19\n")

		Convey("Then columns are matched by name", func() {
			So(err, ShouldBeNil)
			So(records, ShouldResemble, []model.StudentRecord{{Name: "Dana", Age: 19, Score: 88.5}})
		})
	})

	Convey("Given a header with a UTF-8 byte order mark", t, func() {
		records, err := parse("\ufeffName,Age,Score\nEli,30,61\n")

		Convey("Then the first column is still recognized", func() {
			So(err, ShouldBeNil)
			So(records[0].Name, ShouldEqual, "Eli")
		})
	})

	Convey("Given numbers padded with whitespace", t, func() {
		records, err := parse("Name,Age,Score\nFay, 24 , 70.25 \n")

		Convey("Then they are trimmed before conversion", func() {
			So(err, ShouldBeNil)
			So(records[0].Age, ShouldEqual, 24)
			So(records[0].Score, ShouldEqual, 70.25)
		})
	})

	Convey("Given quoted names and blank lines", t, func() {
		records, err := parse("Name,Age,Score\n\"Gray, Jo\",25,50\n\nHal,26,60\n")

		Convey("Then quoting is honored and blank lines skipped", func() {
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 2)
			So(records[0].Name, ShouldEqual, "Gray, Jo")
			So(records[1].Name, ShouldEqual, "Hal")
		})
	})

	Convey("Given a semicolon delimited input", t, func() {
		records, err := parse("Name;Age;Score\nIvy;27;91.5\n", loader.WithDelimiter(';'))

		Convey("Then the configured delimiter is used", func() {
			So(err, ShouldBeNil)
			So(records, ShouldResemble, []model.StudentRecord{{Name: "Ivy", Age: 27, Score: 91.5}})
		})
	})

	Convey("Given a header only", t, func() {
		records, err := parse("Name,Age,Score\n")

		Convey("Then the result is empty and not an error", func() {
			So(err, ShouldBeNil)
			So(records, ShouldNotBeNil)
			So(records, ShouldBeEmpty)
		})
	})
}

func TestLoader_ParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		line   int
		column string
		cause  error
	}{
		{"empty input", "", 1, "", loader.ErrMissingHeader},
		{"header without Score", "Name,Age\nAl,20\n", 1, loader.ColumnScore, loader.ErrMissingColumn},
		{"lowercase header", "name,age,score\nAl,20,1\n", 1, loader.ColumnName, loader.ErrMissingColumn},
		{"short row", "Name,Age,Score\nAl,20,90\nBo,21\n", 3, loader.ColumnScore, loader.ErrMissingColumn},
		{"non-numeric age", "Name,Age,Score\nAl,old,90\n", 2, loader.ColumnAge, loader.ErrNotANumber},
		{"fractional age", "Name,Age,Score\nAl,20.5,90\n", 2, loader.ColumnAge, loader.ErrNotANumber},
		{"non-numeric score", "Name,Age,Score\nAl,20,ninety\n", 2, loader.ColumnScore, loader.ErrNotANumber},
		{"comma decimal score", "Name,Age,Score\nAl,20,\"90,5\"\n", 2, loader.ColumnScore, loader.ErrNotANumber},
		{"empty score", "Name,Age,Score\nAl,20,\n", 2, loader.ColumnScore, loader.ErrNotANumber},
		{"NaN score", "Name,Age,Score\nAl,20,NaN\n", 2, loader.ColumnScore, loader.ErrNotANumber},
		{"infinite score", "Name,Age,Score\nAl,20,+Inf\n", 2, loader.ColumnScore, loader.ErrNotANumber},
		{"bare quote", "Name,Age,Score\nA\"l,20,90\n", 2, "", nil},
	}

	Convey("Given malformed inputs", t, func() {
		for _, tc := range cases {
			Convey("When the input has "+tc.name, func() {
				records, err := parse(tc.input)

				Convey("Then a ParseError pointing at the fault is returned", func() {
					So(records, ShouldBeNil)
					So(errors.Is(err, loader.ErrParse), ShouldBeTrue)

					var pe *loader.ParseError
					So(errors.As(err, &pe), ShouldBeTrue)
					So(pe.Line, ShouldEqual, tc.line)
					So(pe.Column, ShouldEqual, tc.column)
					if tc.cause != nil {
						So(errors.Is(err, tc.cause), ShouldBeTrue)
					}
				})
			})
		}
	})
}

func TestLoader_Cancellation(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When parsing", func() {
			records, err := loader.New().Parse(ctx, strings.NewReader("Name,Age,Score\nAl,20,90\n"))

			Convey("Then the load is aborted", func() {
				So(records, ShouldBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestParseError_Error(t *testing.T) {
	Convey("Given parse errors with varying detail", t, func() {
		Convey("Then the message names line, column and value", func() {
			err := &loader.ParseError{Line: 4, Column: "Age", Value: "x", Err: loader.ErrNotANumber}
			So(err.Error(), ShouldEqual, `line 4: column Age: "x": not a number`)
		})

		Convey("Then a missing column omits the value", func() {
			err := &loader.ParseError{Line: 2, Column: "Score", Err: loader.ErrMissingColumn}
			So(err.Error(), ShouldEqual, "line 2: column Score: missing column")
		})

		Convey("Then a row level error names only the line", func() {
			err := &loader.ParseError{Line: 1, Err: loader.ErrMissingHeader}
			So(err.Error(), ShouldEqual, "line 1: missing header row")
		})
	})
}
