// Package render formats API responses as key/value text and tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// TimeLayout is the layout used for timestamps in tables.
const TimeLayout = "2006-01-02 15:04:05"

// Field is a single labelled value.
type Field struct {
	Label string
	Value string
}

// Fielder is implemented by responses that render as key/value text.
type Fielder interface {
	Fields() []Field
}

// KeyValue writes one "Label: Value" line per field.
func KeyValue(w io.Writer, fields []Field) error {
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Label, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// Print writes the fields of v.
func Print(w io.Writer, v Fielder) error {
	return KeyValue(w, v.Fields())
}

// Table writes headers, a dash separator and rows as aligned columns.
func Table(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// Time formats t in loc, or in the local zone when loc is nil.
func Time(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimeLayout)
}

// Float formats v with the fewest digits that round-trip, always keeping
// one decimal place: 7 -> "7.0", 6.25 -> "6.25".
func Float(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEN") {
		s += ".0"
	}
	return s
}
