package dataprocessing

// leadingJunkRows is how many platform-injected rows precede the real data
// in every export: one with the full question text, one with importer ids.
const leadingJunkRows = 2

// PruneLeadingRows returns a table without the leading junk rows. Tables
// with fewer rows than the junk count lose what they have; an empty table
// passes through unchanged.
func PruneLeadingRows(t *Table) *Table {
	n := leadingJunkRows
	if n > t.RowCount() {
		n = t.RowCount()
	}
	out := NewTable(t.columns)
	for _, row := range t.rows[n:] {
		out.AppendRow(row.Clone())
	}
	return out
}

// PruneColumns returns a table without the rule set's condemned columns:
// the exact-name metadata denylist, the ad-hoc names, and, under
// PolicyRemove, every column carrying a survey-range question marker or the
// survey substring. Columns claimed by the rename rules survive the range
// sweep so the renamer still finds them. Removals of absent columns are
// no-ops, never errors, which also makes a second pass over already-pruned
// output a no-op.
func PruneColumns(t *Table, rules RuleSet) *Table {
	condemned := make(map[string]bool, len(rules.MetadataColumns)+len(rules.AdHocColumns))
	for _, name := range rules.MetadataColumns {
		condemned[name] = true
	}
	for _, name := range rules.AdHocColumns {
		condemned[name] = true
	}

	var kept []string
	if rules.Policy == PolicyRemove {
		surveyRange := questionRangePattern(rules.SurveyRangeLow, rules.SurveyRangeHigh)
		for _, col := range t.columns {
			if condemned[col] {
				continue
			}
			if !rules.isRenameTarget(col) {
				if surveyRange.MatchString(col) || rules.matchesSurveyMarker(col) {
					continue
				}
			}
			kept = append(kept, col)
		}
	} else {
		for _, col := range t.columns {
			if !condemned[col] {
				kept = append(kept, col)
			}
		}
	}
	return t.withColumns(kept)
}
