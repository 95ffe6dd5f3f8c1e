package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"alphavantage/internal/errs"
	"alphavantage/internal/payload"
)

const dateColumn = "date"

// toCSV picks a table layout for p and renders it. Any failure, including
// a panic while walking the payload, is reported as a format failure and
// no partial text is returned.
func toCSV(p any, o options) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errs.Format("failed to convert data to CSV: %v", r)
		}
	}()

	if p == nil {
		return "", nil
	}
	obj, ok := p.(*payload.Object)
	if !ok {
		return "", errs.Format("failed to convert data to CSV: unsupported payload type %T", p)
	}
	if obj == nil {
		return "", nil
	}

	var rows [][]string
	switch Classify(obj) {
	case TimeSeries:
		rows, err = timeSeriesRows(obj)
	case Flat, Mixed:
		// A nested value in a mixed payload is written as its JSON text.
		rows, err = singleRow(obj)
	}
	if err != nil {
		return "", errs.Wrap(errs.ErrFormat, err, "failed to convert data to CSV")
	}
	if o.cleanHeaders && len(rows) > 0 {
		for i, h := range rows[0] {
			rows[0][i] = CleanColumnName(h)
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		writeRecord(&sb, row)
	}
	return sb.String(), nil
}

// writeRecord writes one comma-separated line ending in \n. A field is
// quoted only when it holds a comma, a quote, or a line break; embedded
// quotes are doubled.
func writeRecord(sb *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		if !strings.ContainsAny(f, ",\"\r\n") {
			sb.WriteString(f)
			continue
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
}

// timeSeriesRows transposes {date: {field: value}} into a table led by a
// date column, newest (lexicographically greatest) date first. Columns are
// the union of record fields in order of first appearance.
func timeSeriesRows(obj *payload.Object) ([][]string, error) {
	var columns []string
	seen := map[string]struct{}{}
	obj.Range(func(_ string, v any) bool {
		v.(*payload.Object).Range(func(field string, _ any) bool {
			if _, ok := seen[field]; !ok {
				seen[field] = struct{}{}
				columns = append(columns, field)
			}
			return true
		})
		return true
	})

	dates := obj.Keys()
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	rows := make([][]string, 0, len(dates)+1)
	rows = append(rows, append([]string{dateColumn}, columns...))
	for _, date := range dates {
		v, _ := obj.Get(date)
		record := v.(*payload.Object)
		row := make([]string, 0, len(columns)+1)
		row = append(row, date)
		for _, col := range columns {
			cell, ok := record.Get(col)
			if !ok {
				row = append(row, "")
				continue
			}
			s, err := cellText(cell)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", date, col, err)
			}
			row = append(row, s)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func singleRow(obj *payload.Object) ([][]string, error) {
	header := obj.Keys()
	row := make([]string, 0, len(header))
	for _, k := range header {
		v, _ := obj.Get(k)
		s, err := cellText(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		row = append(row, s)
	}
	return [][]string{header, row}, nil
}

func cellText(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
