// Package files provides upload staging and spreadsheet discovery for
// SurveyPrep.
//
// Manager stages uploaded exports into the configured uploads directory
// under UUID-prefixed names for the lifetime of one batch, and removes the
// staging afterwards regardless of how the batch ended.
//
// Discovery enumerates the CSV/workbook files in a directory for the batch
// CLI, sorted by name so repeated runs produce the same combined output.
package files
