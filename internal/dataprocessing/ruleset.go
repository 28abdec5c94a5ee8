package dataprocessing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Column names the pipeline reads or appends.
const (
	ColumnStartDate  = "StartDate"
	ColumnCourseName = "Course Name"
	ColumnSemester   = "Semester"
	ColumnPrePost    = "Pre/Post"
)

// ColumnPolicy selects what happens to question columns in the survey range.
type ColumnPolicy string

const (
	// PolicyRemove drops survey-range columns outright.
	PolicyRemove ColumnPolicy = "remove"
	// PolicySuffix relabels survey-range columns with a " - Survey" suffix
	// and exam-range columns with a " - Exam" suffix instead of removing
	// anything by range.
	PolicySuffix ColumnPolicy = "suffix"
)

// RuleSet is the immutable pruning/renaming policy applied by the pipeline.
// It is passed into the Normalizer at construction; nothing in this package
// holds mutable package-level rule state.
type RuleSet struct {
	Name   string
	Policy ColumnPolicy

	// MetadataColumns are platform metadata columns removed by exact,
	// case-sensitive name match.
	MetadataColumns []string
	// AdHocColumns are additional exact-name removals specific to this
	// survey family.
	AdHocColumns []string

	// SurveyRangeLow..SurveyRangeHigh are the question numbers treated as
	// survey-section columns; ExamRangeLow..ExamRangeHigh as exam-section
	// columns (only consulted by PolicySuffix).
	SurveyRangeLow  int
	SurveyRangeHigh int
	ExamRangeLow    int
	ExamRangeHigh   int

	// SurveyMarker is a case-insensitive substring that condemns a column
	// under PolicyRemove, as a safety net for stragglers the range pattern
	// misses. Ignored under PolicySuffix, which would otherwise strip the
	// labels it just applied.
	SurveyMarker string

	SurveySuffix string
	ExamSuffix   string

	// AttentionSource is renamed to AttentionName by exact match.
	AttentionSource string
	AttentionName   string
	// The first column exactly matching IDPrefix or carrying it as a prefix
	// is renamed to IDName and moved to the front.
	IDPrefix string
	IDName   string
}

// qualtricsMetadataColumns is the fixed denylist of platform-injected
// metadata columns found in every export of this survey family.
var qualtricsMetadataColumns = []string{
	"StartDate",
	"EndDate",
	"Status",
	"IPAddress",
	"Progress",
	"Duration (in seconds)",
	"Finished",
	"RecordedDate",
	"ResponseId",
	"RecipientLastName",
	"RecipientFirstName",
	"RecipientEmail",
	"ExternalReference",
	"LocationLatitude",
	"LocationLongitude",
	"DistributionChannel",
	"UserLanguage",
}

// RemovalRuleSet returns the canonical rule set: survey-range columns are
// removed, exam-range columns are left alone.
func RemovalRuleSet() RuleSet {
	return RuleSet{
		Name:            "remove",
		Policy:          PolicyRemove,
		MetadataColumns: append([]string(nil), qualtricsMetadataColumns...),
		AdHocColumns:    []string{"AE", "Q13 and 14"},
		SurveyRangeLow:  26,
		SurveyRangeHigh: 44,
		ExamRangeLow:    1,
		ExamRangeHigh:   25,
		SurveyMarker:    "survey",
		SurveySuffix:    " - Survey",
		ExamSuffix:      " - Exam",
		AttentionSource: "Q34",
		AttentionName:   "Attention Check",
		IDPrefix:        "Q35",
		IDName:          "ID",
	}
}

// SuffixRuleSet returns the relabeling variant: survey-range columns gain a
// " - Survey" suffix and exam-range columns a " - Exam" suffix. Metadata
// removal and the ID/Attention Check renames behave exactly as in the
// canonical set.
func SuffixRuleSet() RuleSet {
	rs := RemovalRuleSet()
	rs.Name = "suffix"
	rs.Policy = PolicySuffix
	return rs
}

// RuleSetByName resolves a configured rule-set name. Unknown names are an
// error so a deployment cannot silently fall back to the wrong policy.
func RuleSetByName(name string) (RuleSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "remove":
		return RemovalRuleSet(), nil
	case "suffix":
		return SuffixRuleSet(), nil
	default:
		return RuleSet{}, fmt.Errorf("unknown rule set %q (expected remove or suffix)", name)
	}
}

// questionRangePattern matches a question-number marker anywhere in a column
// name: the letter Q, a number in [lo,hi], then a non-digit or the end of the
// string. The trailing boundary keeps Q26 from matching inside Q260.
func questionRangePattern(lo, hi int) *regexp.Regexp {
	nums := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		nums = append(nums, strconv.Itoa(i))
	}
	return regexp.MustCompile(`(?i)q(` + strings.Join(nums, "|") + `)([^0-9]|$)`)
}

// isRenameTarget reports whether a column is claimed by the rename rules and
// must survive range-based pruning or suffixing so the renamer can find it.
func (rs RuleSet) isRenameTarget(name string) bool {
	if rs.AttentionSource != "" && name == rs.AttentionSource {
		return true
	}
	return rs.IDPrefix != "" && strings.HasPrefix(name, rs.IDPrefix)
}

// matchesSurveyMarker reports whether the safety-net substring condemns the
// column name under PolicyRemove.
func (rs RuleSet) matchesSurveyMarker(name string) bool {
	if rs.SurveyMarker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(rs.SurveyMarker))
}
