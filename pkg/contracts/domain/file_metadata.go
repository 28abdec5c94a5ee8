package domain

// PrePost label values derived from filenames or submission dates.
const (
	PrePostPre  = "Pre"
	PrePostPost = "Post"
)

// FileMetadata holds the course/semester/pre-post context encoded in an
// export's original filename. A zero value for a field means the filename
// did not carry that piece of information; extraction never fails, it only
// degrades field by field.
type FileMetadata struct {
	// Course is the first standalone 4-digit token, e.g. "1501".
	Course string `json:"course,omitempty"`
	// Semester is the normalized 2-letter term code plus year, e.g. "sp2024".
	Semester string `json:"semester,omitempty"`
	// PrePost is "Pre" or "Post" when the filename carries the token.
	PrePost string `json:"pre_post,omitempty" validate:"omitempty,oneof=Pre Post"`
}

// HasCourse reports whether a course identifier was extracted.
func (m FileMetadata) HasCourse() bool { return m.Course != "" }

// HasSemester reports whether a semester code was extracted.
func (m FileMetadata) HasSemester() bool { return m.Semester != "" }

// HasPrePost reports whether a Pre/Post label was extracted.
func (m FileMetadata) HasPrePost() bool { return m.PrePost != "" }

// IsEmpty reports whether nothing at all was extracted from the filename.
func (m FileMetadata) IsEmpty() bool {
	return m.Course == "" && m.Semester == "" && m.PrePost == ""
}
