// Package exporter provides CSV export functionality for SurveyPrep.
//
// CSVWriter serializes a combined table (or a plain header list plus
// records) to any io.Writer, or to a file via a temp-and-rename write so
// readers never observe a partial CSV. An optional UTF-8 BOM can be
// prepended for Excel compatibility; the HTTP shell leaves it off while
// the batch CLI turns it on.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(exporter.Options{BOM: true})
//	err := w.WriteTableFile("cleaned_master_data.csv", combined)
package exporter
