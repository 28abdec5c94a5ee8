package dataprocessing

import (
	"strings"
)

// RenameColumns returns a table with the rule set's label renames applied:
// the attention-check question gets its stable name, and the first column
// matching the ID prefix is renamed and moved to the front, preserving the
// relative order of everything else. Under PolicySuffix the remaining
// exam-range and survey-range question columns are then relabeled with
// their section suffixes. Renames match original machine names only, so a
// second pass over already-renamed output changes nothing.
func RenameColumns(t *Table, rules RuleSet) *Table {
	renames := make(map[string]string)

	if rules.AttentionSource != "" && t.HasColumn(rules.AttentionSource) {
		renames[rules.AttentionSource] = rules.AttentionName
	}

	idSource := ""
	if rules.IDPrefix != "" {
		for _, col := range t.columns {
			if col == rules.IDPrefix || strings.HasPrefix(col, rules.IDPrefix) {
				idSource = col
				renames[col] = rules.IDName
				break
			}
		}
	}

	if rules.Policy == PolicySuffix {
		surveyRange := questionRangePattern(rules.SurveyRangeLow, rules.SurveyRangeHigh)
		examRange := questionRangePattern(rules.ExamRangeLow, rules.ExamRangeHigh)
		for _, col := range t.columns {
			if _, claimed := renames[col]; claimed || rules.isRenameTarget(col) {
				continue
			}
			switch {
			case surveyRange.MatchString(col) && !strings.HasSuffix(col, rules.SurveySuffix):
				renames[col] = col + rules.SurveySuffix
			case examRange.MatchString(col) && !strings.HasSuffix(col, rules.ExamSuffix):
				renames[col] = col + rules.ExamSuffix
			}
		}
	}

	if len(renames) == 0 {
		return t.withColumns(t.columns)
	}

	columns := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		if next, ok := renames[col]; ok {
			col = next
		}
		columns = append(columns, col)
	}
	if idSource != "" {
		columns = moveToFront(columns, rules.IDName)
	}

	out := NewTable(columns)
	for _, row := range t.rows {
		next := make(Row, len(row))
		for k, v := range row {
			if to, ok := renames[k]; ok {
				k = to
			}
			next[k] = v
		}
		out.AppendRow(next)
	}
	return out
}

// moveToFront relocates the named column to position zero, keeping the
// relative order of all other columns.
func moveToFront(columns []string, name string) []string {
	out := make([]string, 0, len(columns))
	out = append(out, name)
	for _, col := range columns {
		if col != name {
			out = append(out, col)
		}
	}
	return out
}
