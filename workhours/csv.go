package workhours

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"

	"github.com/warp/hours-estimator/generic"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatError describes why a CSV could not be read.
type FormatError struct {
	Line   int    // 0 when the problem is not tied to a line
	Column string // header name, empty for file-level problems
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, "column %s: ", e.Column)
	}
	b.WriteString(e.Reason)
	if e.Value != "" {
		fmt.Fprintf(&b, " (%q)", e.Value)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return generic.ErrFormat
}

func formatErr(fe *FormatError) error {
	return &generic.FieldError{Field: FieldCSV, Message: fe.Error(), Err: fe}
}

// ParseCSV reads an attendance export. UTF-8 (with or without BOM) and
// Shift_JIS input are accepted. Errors unwrap to generic.ErrFormat.
//
// Dates must be YYYY/MM/DD. Work durations are HH:MM and are only required
// on rows with a clock-in; an empty duration counts as zero.
func ParseCSV(r io.Reader) (Records, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read attendance csv: %w", err)
	}
	data, err := decode(raw)
	if err != nil {
		return nil, formatErr(&FormatError{Reason: "unsupported text encoding"})
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, formatErr(&FormatError{Reason: "file is empty"})
	}
	if err != nil {
		return nil, formatErr(&FormatError{Line: 1, Reason: err.Error()})
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records Records
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, formatErr(&FormatError{Line: line, Reason: err.Error()})
		}
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(row, cols, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func decode(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return raw, nil
	}
	return japanese.ShiftJIS.NewDecoder().Bytes(raw)
}

type columns struct {
	date, clockIn, duration int
}

func columnIndex(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}
	cols := columns{
		date:     lookup(ColumnDate),
		clockIn:  lookup(ColumnClockIn),
		duration: lookup(ColumnWorkDuration),
	}
	if len(missing) > 0 {
		return columns{}, formatErr(&FormatError{
			Line:   1,
			Reason: "missing columns: " + strings.Join(missing, ", "),
		})
	}
	return cols, nil
}

func parseRow(row []string, cols columns, line int) (AttendanceRecord, error) {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	dateStr := cell(cols.date)
	date, err := generic.ParseTimePoint(generic.LayoutSlash, dateStr)
	if err != nil {
		return AttendanceRecord{}, formatErr(&FormatError{
			Line: line, Column: ColumnDate, Value: dateStr, Reason: "invalid date, want YYYY/MM/DD",
		})
	}

	rec := AttendanceRecord{Date: date, ClockIn: cell(cols.clockIn), Line: line}

	durStr := cell(cols.duration)
	if durStr == "" {
		return rec, nil
	}
	d, err := ParseWorkDuration(durStr)
	if err != nil {
		if !rec.Worked() {
			// Days off may carry placeholder text; their duration is never used.
			return rec, nil
		}
		return AttendanceRecord{}, formatErr(&FormatError{
			Line: line, Column: ColumnWorkDuration, Value: durStr, Reason: "invalid duration, want HH:MM",
		})
	}
	rec.WorkDuration = d
	return rec, nil
}

// ParseWorkDuration parses "HH:MM". Hours may exceed 24; seconds are zero.
func ParseWorkDuration(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: duration %q", generic.ErrFormat, s)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("%w: duration hours %q", generic.ErrFormat, s)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: duration minutes %q", generic.ErrFormat, s)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
