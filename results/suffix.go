// Package results reads the per-configuration result files written by the
// systematic benchmark runner and aggregates them per benchmark.
package results

import "path/filepath"

// Suffix names one runner configuration. It selects both the input file and
// the output column.
type Suffix string

// Suffixes returns the configurations in column order.
func Suffixes() []Suffix {
	return []Suffix{
		"first_bound_5", "first_bound_10", "first_bound_30", "first_bound_100",
		"random_bound_5", "random_bound_10", "random_bound_30", "random_bound_100",
	}
}

// FileName returns the result file name for a configuration.
func FileName(s Suffix) string {
	return "results_systematic_" + string(s) + ".txt"
}

// ResolvePath returns the expected result file path for a configuration
// given the input directory.
func ResolvePath(dir string, s Suffix) string {
	return filepath.Join(dir, FileName(s))
}
