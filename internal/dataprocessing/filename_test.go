package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"surveyprep/pkg/contracts/domain"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     domain.FileMetadata
	}{
		{
			name:     "full qualtrics export name with dashes",
			filename: "EMCS-1501-Intro+Biology-sp2024-Pre_January 6, 2025_08.15.csv",
			want:     domain.FileMetadata{Course: "1501", Semester: "sp2024", PrePost: "Pre"},
		},
		{
			name:     "plus separated",
			filename: "EMCS+1501+Bio+fa2023+Post.xlsx",
			want:     domain.FileMetadata{Course: "1501", Semester: "fa2023", PrePost: "Post"},
		},
		{
			name:     "underscore separated lowercase",
			filename: "survey_2101_chem_su2025_pre_final.csv",
			want:     domain.FileMetadata{Course: "2101", Semester: "su2025", PrePost: "Pre"},
		},
		{
			name:     "full season word with space before year",
			filename: "Physics-1101-Fall 2024-POST.csv",
			want:     domain.FileMetadata{Course: "1101", Semester: "fa2024", PrePost: "Post"},
		},
		{
			name:     "summer full word normalizes to su",
			filename: "bio_1301_Summer2025_post.xls",
			want:     domain.FileMetadata{Course: "1301", Semester: "su2025", PrePost: "Post"},
		},
		{
			name:     "uppercase term and label",
			filename: "EMCS-1501-SP2024-PRE.csv",
			want:     domain.FileMetadata{Course: "1501", Semester: "sp2024", PrePost: "Pre"},
		},
		{
			name:     "term year token does not double as course",
			filename: "chem-sp2024-Pre.csv",
			want:     domain.FileMetadata{Semester: "sp2024", PrePost: "Pre"},
		},
		{
			name:     "separated year becomes the course",
			filename: "spring-flowers-2024.csv",
			want:     domain.FileMetadata{Course: "2024"},
		},
		{
			name:     "course after the label",
			filename: "spring2025-Pre-1601.csv",
			want:     domain.FileMetadata{Course: "1601", Semester: "sp2025", PrePost: "Pre"},
		},
		{
			name:     "no recognizable metadata",
			filename: "results_final.xlsx",
			want:     domain.FileMetadata{},
		},
		{
			name:     "pre must be standalone",
			filename: "preliminary-results-1501.csv",
			want:     domain.FileMetadata{Course: "1501"},
		},
		{
			name:     "first of several course candidates wins",
			filename: "EMCS-1501-2301-fa2024-Pre.csv",
			want:     domain.FileMetadata{Course: "1501", Semester: "fa2024", PrePost: "Pre"},
		},
		{
			name:     "path prefix is ignored",
			filename: "exports/batch1/EMCS-1501-sp2024-Pre.csv",
			want:     domain.FileMetadata{Course: "1501", Semester: "sp2024", PrePost: "Pre"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFilename(tt.filename)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilenameSeparatorEquivalence(t *testing.T) {
	// The same logical name must parse identically no matter which
	// separator the uploader's browser or LMS used.
	variants := []string{
		"EMCS-1501-Bio-sp2024-Pre_x.csv",
		"EMCS_1501_Bio_sp2024_Pre-x.csv",
		"EMCS+1501+Bio+sp2024+Pre+x.csv",
	}
	want := domain.FileMetadata{Course: "1501", Semester: "sp2024", PrePost: "Pre"}
	for _, name := range variants {
		assert.Equal(t, want, ParseFilename(name), "filename %q", name)
	}
}

func TestParseFilenameNeverFails(t *testing.T) {
	for _, name := range []string{"", ".", "...", ".csv", "a", "++++", "____"} {
		assert.NotPanics(t, func() {
			meta := ParseFilename(name)
			assert.True(t, meta.IsEmpty())
		}, "filename %q", name)
	}
}
