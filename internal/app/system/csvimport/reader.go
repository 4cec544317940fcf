// internal/app/system/csvimport/reader.go
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTooManyRows is returned when a file has more than MaxRows data rows.
var ErrTooManyRows = fmt.Errorf("csv has more than %d rows", MaxRows)

// ErrNoHeader is returned for an empty file.
var ErrNoHeader = errors.New("csv is empty; the first row must be a header")

// record is one data row with its 1-based file line.
type record struct {
	line   int
	fields []string
	cols   map[string]int
}

// get returns the trimmed value of column name, or "" when the column is
// absent or the row is short.
func (r record) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) has(name string) bool {
	_, ok := r.cols[name]
	return ok
}

func (r record) blank() bool {
	for _, f := range r.fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// headerKey folds a header cell to its column key: "Review Count" and
// "review_count" both become "review_count".
func headerKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// aliases maps alternative header spellings to column keys.
var aliases = map[string]string{
	"pin":           "pincode",
	"pin_code":      "pincode",
	"zip":           "pincode",
	"postcode":      "pincode",
	"telephone":     "phone",
	"url":           "website",
	"reviews":       "review_count",
	"hours":         "opening_hours",
	"appointments":  "accepts_appointments",
	"category_path": "path",
}

// readRecords reads the header row, checks that every column in required is
// present, and returns the remaining non-blank rows. Malformed lines become
// row errors instead of aborting the file.
func readRecords(r io.Reader, required ...string) ([]record, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrNoHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := headerKey(h)
		if alias, ok := aliases[key]; ok {
			key = alias
		}
		if key == "" {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var (
		out  []record
		errs []RowError
	)
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				errs = append(errs, RowError{Line: pe.Line, Reason: pe.Err.Error()})
				continue
			}
			return nil, nil, err
		}
		line, _ := cr.FieldPos(0)
		rec := record{line: line, fields: fields, cols: cols}
		if rec.blank() {
			continue
		}
		if len(out) >= MaxRows {
			return nil, nil, ErrTooManyRows
		}
		out = append(out, rec)
	}
	return out, errs, nil
}
