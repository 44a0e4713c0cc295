// Package synth generates deterministic result files in the format printed
// by the systematic benchmark runner. The files feed the table pipeline in
// tests and dry runs.
package synth

import (
	"fmt"
	"io"
	mrand "math/rand"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/d3sformal/threadfuzzer-net/results"
)

// DefaultBenchmarks returns the SCT benchmark names used when none are
// configured.
func DefaultBenchmarks() []string {
	return []string{
		"AccountBad", "Carter01Bad", "CircularBufferBad", "Deadlock01Bad",
		"Lazy01Bad", "QueueBad", "ReorderBadTweaked", "StackBad",
		"StringBufferJDK", "TokenRingBad", "TwoStageBad", "WrongLockBad",
	}
}

// Config controls generation parameters.
type Config struct {
	Benchmarks []string
	Iterations int
	Seed       int64
	// TimeoutRate is the probability that a single run times out.
	TimeoutRate float64
}

// Validate reports whether the config can produce a file.
func (c Config) Validate() error {
	if len(c.Benchmarks) == 0 {
		return errors.New("no benchmarks configured")
	}

	if c.Iterations < 1 {
		return errors.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}

	if c.TimeoutRate < 0 || c.TimeoutRate > 1 {
		return errors.Errorf("timeout rate %v outside [0, 1]", c.TimeoutRate)
	}

	for _, name := range c.Benchmarks {
		if strings.ContainsAny(name, ":\n") {
			return errors.Errorf("benchmark name %q contains ':' or a newline", name)
		}
	}

	return nil
}

// Summary contains statistics about a generated file.
type Summary struct {
	Records  int
	TimedOut int
	Lines    int
}

// Generator produces deterministic result files from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

type runStats struct {
	iterations int
	passed     int
	violated   int
	timedOut   int
	timeTaken  int64
}

// Generate writes one record per configured benchmark to w.
func (g *Generator) Generate(w io.Writer) (Summary, error) {
	var summary Summary

	if err := g.cfg.Validate(); err != nil {
		return summary, err
	}

	for _, name := range g.cfg.Benchmarks {
		st := g.simulate()

		n, err := writeRecord(w, name, st, 2+g.rng.Intn(4), 40+g.rng.Intn(400))
		if err != nil {
			return summary, errors.Wrapf(err, "write record %s", name)
		}

		summary.Records++
		summary.Lines += n

		if st.timedOut > 0 {
			summary.TimedOut++
		}
	}

	return summary, nil
}

// simulate draws the outcome of every iteration of one benchmark.
func (g *Generator) simulate() runStats {
	violationRate := g.rng.Float64()

	st := runStats{iterations: g.cfg.Iterations}

	for i := 0; i < g.cfg.Iterations; i++ {
		switch {
		case g.rng.Float64() < g.cfg.TimeoutRate:
			st.timedOut++
		case g.rng.Float64() < violationRate:
			st.violated++
			st.timeTaken += int64(50 + g.rng.Intn(200))
		default:
			st.passed++
			st.timeTaken += int64(50 + g.rng.Intn(200))
		}
	}

	return st
}

// writeRecord prints one record the way the runner does and returns the
// number of lines written.
func writeRecord(w io.Writer, name string, st runStats, degree, sloc int) (int, error) {
	pct := func(n int) float64 {
		return 100.0 * float64(n) / float64(st.iterations)
	}

	lines := []string{
		fmt.Sprintf("Benchmark %s: %s", name, strings.Repeat(".", st.iterations)),
		fmt.Sprintf("  Iterations = %d", st.iterations),
		fmt.Sprintf("      Passed = %d (%.1f%%)", st.passed, pct(st.passed)),
		fmt.Sprintf("    Violated = %d (%.1f%%)", st.violated, pct(st.violated)),
	}

	if st.timedOut > 0 {
		lines = append(lines,
			fmt.Sprintf("    TimedOut = %d (%.1f%%)", st.timedOut, pct(st.timedOut)))
	}

	lines = append(lines,
		fmt.Sprintf("  TimePerRun = %.1f ms",
			float64(st.timeTaken)/float64(st.iterations-st.timedOut)),
		fmt.Sprintf("   DegreeOfC = %d", degree),
		fmt.Sprintf("        SLOC = %d (%.1f kB)", sloc, float64(sloc*32)/1024.0),
	)

	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return 0, err
		}
	}

	return len(lines), nil
}

// WriteAll writes one result file per suffix into dir and returns the
// paths written. Each file gets its own generator seeded from cfg.Seed and
// the suffix position.
func WriteAll(dir string, cfg Config, suffixes []results.Suffix) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create dir %s", dir)
	}

	paths := make([]string, 0, len(suffixes))

	for i, s := range suffixes {
		fileCfg := cfg
		fileCfg.Seed = cfg.Seed + int64(i)

		path := results.ResolvePath(dir, s)
		if err := writeFile(path, NewGenerator(fileCfg)); err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func writeFile(path string, gen *Generator) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	if _, err := gen.Generate(f); err != nil {
		f.Close()

		return errors.Wrapf(err, "generate %s", path)
	}

	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}

	return nil
}
