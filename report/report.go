// Package report formats aggregated benchmark results as LaTeX table rows.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/d3sformal/threadfuzzer-net/results"
)

// Metric names a row of the per-benchmark row pair.
type Metric string

const (
	// MetricViolated is the violated-percentage row.
	MetricViolated Metric = "violated"
	// MetricIterations is the iteration-count row.
	MetricIterations Metric = "iterations"
)

// MissingValueError reports a benchmark without a value for a configuration.
type MissingValueError struct {
	Benchmark string
	Metric    Metric
	Suffix    results.Suffix
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("benchmark %q has no %s value for %s",
		e.Benchmark, e.Metric, e.Suffix)
}

// WriteLaTeX writes two rows and an \hline per benchmark in first-seen
// order, with one column per suffix. It stops at the first benchmark that
// lacks a value for some suffix; rows already written for earlier
// benchmarks are kept.
func WriteLaTeX(w io.Writer, t *results.Table, suffixes []results.Suffix) error {
	var buf bytes.Buffer

	for _, name := range t.Names() {
		stats, _ := t.Stats(name)

		buf.Reset()

		if err := writeBenchmark(&buf, name, stats, suffixes); err != nil {
			return err
		}

		if _, err := w.Write(buf.Bytes()); err != nil {
			return errors.Wrapf(err, "write rows for %s", name)
		}
	}

	return nil
}

// WriteFile renders the table into path, replacing any existing file.
func WriteFile(path string, t *results.Table, suffixes []results.Suffix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	return WriteLaTeX(f, t, suffixes)
}

func writeBenchmark(
	buf *bytes.Buffer,
	name string,
	stats *results.BenchmarkStats,
	suffixes []results.Suffix,
) error {
	// Violated row.
	fmt.Fprintf(buf, `\multirow{2}{*}{ %s } & \multicolumn{2}{l|}{ Violated }`, name)

	for _, s := range suffixes {
		v, ok := stats.Violated[s]
		if !ok {
			return &MissingValueError{Benchmark: name, Metric: MetricViolated, Suffix: s}
		}

		fmt.Fprintf(buf, ` & %s \%%`, v.Or(results.ViolatedSentinel))
	}

	buf.WriteString(" \\\\\n")

	// Iterations row.
	buf.WriteString(` & \multicolumn{2}{l|}{ Iterations }`)

	for _, s := range suffixes {
		v, ok := stats.Iterations[s]
		if !ok {
			return &MissingValueError{Benchmark: name, Metric: MetricIterations, Suffix: s}
		}

		fmt.Fprintf(buf, " & %s", v.Or(results.IterationsSentinel))
	}

	buf.WriteString(" \\\\\n")
	buf.WriteString("\\hline\n")

	return nil
}
