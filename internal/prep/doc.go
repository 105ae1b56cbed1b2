// Package prep orchestrates the batch pipeline that turns annotated
// recordings into trainer-ready output.
//
// For each recording matching the requested prefix it gathers candidate
// coder files, delegates first/second pass selection, converts the selected
// annotations into label CSVs, and stages the session video. Failures are
// isolated at the recording boundary: the batch always runs to completion
// and reports every recording's outcome.
package prep
