package results

// Text rendered in place of a field the parser could not find.
const (
	IterationsSentinel = "-1"
	ViolatedSentinel   = "-1.0"
)

// Value is an optional field extracted from a result file. Values are kept
// as written; nothing is converted to a number.
type Value struct {
	text    string
	present bool
}

// Present returns a value holding text.
func Present(text string) Value {
	return Value{text: text, present: true}
}

// Absent returns a value marking a field that was not found.
func Absent() Value {
	return Value{}
}

// Get returns the text and whether the field was found.
func (v Value) Get() (string, bool) {
	return v.text, v.present
}

// Or returns the text, or sentinel if the field was not found.
func (v Value) Or(sentinel string) string {
	if !v.present {
		return sentinel
	}

	return v.text
}

// Record is one benchmark entry parsed from a result file.
type Record struct {
	Name       string
	Iterations Value
	Violated   Value
	TimedOut   bool
	// Line is the 1-based line of the Benchmark header.
	Line int
}
