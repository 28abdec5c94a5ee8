package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "surveyprep/internal/errors"
	"surveyprep/pkg/contracts/domain"
)

// startDateLayouts covers the timestamp shapes the survey platform emits,
// slash dates month-first. Tried in order; first parse wins.
var startDateLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ClassifyTemporal appends the Course Name, Semester, and Pre/Post columns,
// in that order, after all existing columns. Filename metadata wins when
// present; otherwise Semester and Pre/Post are derived per row from the
// startDates snapshot taken before the pruner removed the StartDate column.
// A nil snapshot means the source never had the column.
//
// When a derivation step has neither a filename value nor a snapshot to fall
// back on, the whole file fails with a missing-column error. Per-row
// unparseable timestamps are soft: the cell stays missing and a warning is
// logged.
func ClassifyTemporal(t *Table, startDates []string, meta domain.FileMetadata, filename string) (*Table, error) {
	var courseValues, semesterValues, prePostValues []string

	if meta.HasCourse() {
		courseValues = constantColumn(t.RowCount(), meta.Course)
	}

	switch {
	case meta.HasSemester():
		semesterValues = constantColumn(t.RowCount(), meta.Semester)
	case startDates != nil:
		semesterValues = make([]string, t.RowCount())
		for i := range semesterValues {
			ts, ok := parseStartDate(startDates[i])
			if !ok {
				logUnparseableDate(filename, i, startDates[i])
				continue
			}
			semesterValues[i] = semesterForDate(ts)
		}
	default:
		return nil, apperrors.NewMissingColumnError(filename, ColumnStartDate)
	}

	switch {
	case meta.HasPrePost():
		prePostValues = constantColumn(t.RowCount(), meta.PrePost)
	case startDates != nil:
		prePostValues = make([]string, t.RowCount())
		for i := range prePostValues {
			ts, ok := parseStartDate(startDates[i])
			if !ok {
				continue
			}
			prePostValues[i] = prePostForDate(ts, semesterValues[i])
		}
	default:
		return nil, apperrors.NewMissingColumnError(filename, ColumnStartDate)
	}

	columns := t.Columns()
	if courseValues != nil && !t.HasColumn(ColumnCourseName) {
		columns = append(columns, ColumnCourseName)
	}
	if !t.HasColumn(ColumnSemester) {
		columns = append(columns, ColumnSemester)
	}
	if !t.HasColumn(ColumnPrePost) {
		columns = append(columns, ColumnPrePost)
	}

	out := NewTable(columns)
	for i, row := range t.rows {
		next := row.Clone()
		if courseValues != nil {
			setOrClear(next, ColumnCourseName, courseValues[i])
		}
		setOrClear(next, ColumnSemester, semesterValues[i])
		setOrClear(next, ColumnPrePost, prePostValues[i])
		out.AppendRow(next)
	}
	return out, nil
}

// setOrClear writes a derived cell, or removes it when derivation came up
// empty so the cell reads as missing even if the source had a value there.
func setOrClear(row Row, name, value string) {
	if value == "" {
		delete(row, name)
		return
	}
	row[name] = value
}

// semesterForDate maps a submission month to its academic term: January
// through June is Spring, July is Summer, August through December is Fall.
func semesterForDate(ts time.Time) string {
	year := ts.Year()
	switch month := int(ts.Month()); {
	case month <= 6:
		return fmt.Sprintf("Spring %d", year)
	case month == 7:
		return fmt.Sprintf("Summer %d", year)
	default:
		return fmt.Sprintf("Fall %d", year)
	}
}

// prePostForDate buckets a submission month within its semester family.
// Months outside the family's buckets, and semester values with no
// recognizable family (such as filename literals like "sp2024"), yield
// absent rather than a guess.
func prePostForDate(ts time.Time, semester string) string {
	month := int(ts.Month())
	switch {
	case strings.Contains(semester, "Fall"):
		switch month {
		case 8, 9, 10:
			return domain.PrePostPre
		case 11, 12:
			return domain.PrePostPost
		}
	case strings.Contains(semester, "Spring"):
		switch month {
		case 1, 2, 3:
			return domain.PrePostPre
		case 4, 5, 6:
			return domain.PrePostPost
		}
	case strings.Contains(semester, "Summer"):
		switch month {
		case 6, 7:
			return domain.PrePostPre
		case 8, 9:
			return domain.PrePostPost
		}
	}
	return ""
}

func parseStartDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range startDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func logUnparseableDate(filename string, row int, value string) {
	slog.Warn("unparseable StartDate, leaving classification absent for row",
		slog.String("file", filename),
		slog.Int("row", row),
		slog.String("value", value))
}

func constantColumn(n int, value string) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = value
	}
	return values
}
