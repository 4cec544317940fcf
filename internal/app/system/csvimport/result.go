// internal/app/system/csvimport/result.go
package csvimport

import (
	"fmt"
	"io"
	"strconv"
)

// RowError describes one rejected row.
type RowError struct {
	Line   int    // 1-based line in the file; 0 when not tied to a row
	Key    string // slug or name of the row, when known
	Reason string
}

func (e RowError) String() string {
	var prefix string
	if e.Line > 0 {
		prefix = "line " + strconv.Itoa(e.Line)
	}
	if e.Key != "" {
		if prefix != "" {
			prefix += " "
		}
		prefix += "(" + e.Key + ")"
	}
	if prefix == "" {
		return e.Reason
	}
	return prefix + ": " + e.Reason
}

// Result summarises an import run.
type Result struct {
	Kind     string
	Imported int
	Skipped  int
	Errors   []RowError
}

// HasErrors reports whether any row was rejected.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *Result) reject(rec record, key, reason string) {
	r.Skipped++
	r.Errors = append(r.Errors, RowError{Line: rec.line, Key: key, Reason: reason})
}

// WriteReport prints a summary followed by at most maxShow row errors.
// maxShow <= 0 prints them all.
func (r Result) WriteReport(w io.Writer, maxShow int) error {
	if _, err := fmt.Fprintf(w, "%s: %d imported, %d skipped\n", r.Kind, r.Imported, r.Skipped); err != nil {
		return err
	}
	show := len(r.Errors)
	if maxShow > 0 && show > maxShow {
		show = maxShow
	}
	for _, e := range r.Errors[:show] {
		if _, err := fmt.Fprintf(w, "  • %s\n", e); err != nil {
			return err
		}
	}
	if rest := len(r.Errors) - show; rest > 0 {
		if _, err := fmt.Fprintf(w, "  ... and %d more errors\n", rest); err != nil {
			return err
		}
	}
	return nil
}
