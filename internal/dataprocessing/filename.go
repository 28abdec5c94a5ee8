package dataprocessing

import (
	"path/filepath"
	"regexp"
	"strings"

	"surveyprep/pkg/contracts/domain"
)

// Filenames in this survey family look like
// "EMCS-1501-Intro+Biology-sp2024-Pre_January 6, 2025_08.15.csv": tokens
// separated by +, - or _, with the course number, term code, and Pre/Post
// label embedded somewhere among them.
var (
	separatorReplacer = strings.NewReplacer("+", " ", "-", " ", "_", " ")
	coursePattern     = regexp.MustCompile(`\b\d{4}\b`)
	semesterPattern   = regexp.MustCompile(`(?i)\b(sp|fa|su|spring|fall|summer)\s*(\d{4})\b`)
	prePostPattern    = regexp.MustCompile(`(?i)\b(pre|post)\b`)
)

// ParseFilename extracts course, semester, and Pre/Post context from an
// export's original filename. Every field degrades independently to absent
// when the filename does not carry it; this function has no failure path.
//
// The course is the first standalone 4-digit token. The semester is the
// first term token (sp/fa/su or the full season word) followed by a 4-digit
// year, normalized to a lowercase 2-letter code plus year, e.g. "sp2024".
// The Pre/Post label is the first standalone "pre" or "post" word in any
// casing, normalized to "Pre"/"Post".
func ParseFilename(filename string) domain.FileMetadata {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	normalized := separatorReplacer.Replace(base)

	var meta domain.FileMetadata
	if m := coursePattern.FindString(normalized); m != "" {
		meta.Course = m
	}
	if m := semesterPattern.FindStringSubmatch(normalized); m != nil {
		term := strings.ToLower(m[1])
		meta.Semester = term[:2] + m[2]
	}
	if m := prePostPattern.FindStringSubmatch(normalized); m != nil {
		word := strings.ToLower(m[1])
		meta.PrePost = strings.ToUpper(word[:1]) + word[1:]
	}
	return meta
}
