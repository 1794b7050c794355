// Package dataprocessing implements the batch data-preparation pipeline:
// parsing the participant survey and profession worksheets, the total left
// merge between them, and the expansion of projected net worth into the
// long-format timeline consumed by the dashboard.
//
// The error policy is deliberate and consistent: unreadable input files fail
// fast, while individually malformed rows are skipped with a logged warning.
// Unmatched merge keys never drop rows.
package dataprocessing
