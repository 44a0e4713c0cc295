package results

// BenchmarkStats holds one benchmark's values per configuration.
type BenchmarkStats struct {
	Violated   map[Suffix]Value
	Iterations map[Suffix]Value
}

func newBenchmarkStats() *BenchmarkStats {
	return &BenchmarkStats{
		Violated:   make(map[Suffix]Value),
		Iterations: make(map[Suffix]Value),
	}
}

// Table aggregates records from all configurations. Benchmarks keep the
// order in which they were first added.
type Table struct {
	names []string
	stats map[string]*BenchmarkStats
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{stats: make(map[string]*BenchmarkStats)}
}

// Add stores a record's values under suffix. A repeated benchmark within
// one configuration overwrites the earlier values.
func (t *Table) Add(s Suffix, rec Record) {
	st, ok := t.stats[rec.Name]
	if !ok {
		st = newBenchmarkStats()
		t.stats[rec.Name] = st
		t.names = append(t.names, rec.Name)
	}

	st.Violated[s] = rec.Violated
	st.Iterations[s] = rec.Iterations
}

// AddFile adds every record of a loaded file.
func (t *Table) AddFile(res *FileResult) {
	for _, rec := range res.Records {
		t.Add(res.Suffix, rec)
	}
}

// Names returns benchmark names in first-seen order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)

	return out
}

// Stats returns the values stored for a benchmark.
func (t *Table) Stats(name string) (*BenchmarkStats, bool) {
	st, ok := t.stats[name]

	return st, ok
}

// Len returns the number of distinct benchmarks.
func (t *Table) Len() int {
	return len(t.names)
}

// Missing returns, per benchmark, the configurations it has no values for.
// Complete benchmarks are omitted.
func (t *Table) Missing(suffixes []Suffix) map[string][]Suffix {
	out := make(map[string][]Suffix)

	for _, name := range t.names {
		st := t.stats[name]
		for _, s := range suffixes {
			if _, ok := st.Violated[s]; !ok {
				out[name] = append(out[name], s)
			}
		}
	}

	return out
}
