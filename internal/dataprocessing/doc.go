// Package dataprocessing normalizes raw survey-tool exports into a single
// analysis-ready table. It consolidates filename-metadata extraction, table
// loading, row/column pruning, column renaming, temporal classification, and
// multi-file merging into one cohesive pipeline.
//
// # Architecture
//
// The package is organized around small, independently testable stages:
//
//  1. ParseFilename: extracts course, semester, and Pre/Post context from an
//     export's original filename
//  2. LoadTable: decodes CSV or workbook bytes into a Table
//  3. PruneLeadingRows / PruneColumns: strips platform-injected junk rows and
//     metadata columns
//  4. RenameColumns: maps machine question names to stable labels and moves
//     the identifier column first
//  5. ClassifyTemporal: derives Semester and Pre/Post columns from the
//     submission timestamp when the filename does not carry them
//  6. Normalizer.MergeFiles: runs the per-file pipeline over a batch and
//     concatenates the results with a first-seen column union
//
// Every stage consumes one Table value and produces a new one; no stage
// mutates its input. Pruning and renaming behavior is parameterized by an
// immutable RuleSet selected at construction time.
//
// # Usage
//
// Single file:
//
//	n := dataprocessing.NewNormalizer(dataprocessing.RemovalRuleSet(), 0)
//	table, err := n.TransformFile(content, "EMCS-1501-Biology-sp2024-Pre_export.csv")
//
// Batch:
//
//	combined, err := n.MergeFiles(ctx, []dataprocessing.SourceFile{
//	    {Name: "pre.csv", Content: pre},
//	    {Name: "post.csv", Content: post},
//	})
//
// # Data Flow
//
//	export bytes → LoadTable → Table → prune → rename → classify → Table
//	                                                                 ↓
//	                                  MergeFiles concatenates → combined Table
//
// # Error Handling
//
// The pipeline distinguishes three failure classes, all carrying the
// originating filename: unreadable content, a missing required column with no
// filename fallback, and any other transformation fault. A batch either fully
// succeeds or fully fails; per-file failures are never silently dropped.
// Absent metadata and unparseable per-row dates are not failures, they
// degrade to missing values.
package dataprocessing
