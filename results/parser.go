package results

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Line prefixes recognised by the parser, matched after trimming.
const (
	prefixBenchmark  = "Benchmark"
	prefixIterations = "Iterations"
	prefixViolated   = "Violated"
	prefixTimedOut   = "TimedOut"
)

// nameOffset is where the benchmark name starts on a header line,
// i.e. just past "Benchmark ".
const nameOffset = 10

// iterationsToken is the index of the count in "Iterations = N" split on
// single spaces.
const iterationsToken = 2

// Cursor advances per transition. A record without a TimedOut line spans
// seven lines: header, Iterations, Passed, Violated, then padding.
const (
	advanceHeader     = 1
	advanceIterations = 1
	advancePassed     = 1
	advanceViolated   = 1
	advanceTimedOut   = 1
	advancePadding    = 3 // TimePerRun, DegreeOfC, SLOC
)

type parseState int

const (
	stateAwaitBenchmark parseState = iota
	stateReadIterations
	stateSkipLine
	stateReadViolated
	stateMaybeSkipTimedOut
	stateSkipPadding
)

func (s parseState) String() string {
	switch s {
	case stateAwaitBenchmark:
		return "await-benchmark"
	case stateReadIterations:
		return "read-iterations"
	case stateSkipLine:
		return "skip-line"
	case stateReadViolated:
		return "read-violated"
	case stateMaybeSkipTimedOut:
		return "maybe-skip-timed-out"
	case stateSkipPadding:
		return "skip-padding"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ParseError reports a record that could not be read. Line is 1-based and
// may be one past the last line when the input ends mid-record.
type ParseError struct {
	File   string
	Line   int
	State  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.State, e.Reason)
}

// Parser walks the lines of one result file record by record.
type Parser struct {
	file   string
	lines  []string
	cursor int
	state  parseState
	rec    Record
	logger *slog.Logger
}

// NewParser creates a Parser over lines. file is only used in errors and
// logs. A nil logger discards output.
func NewParser(file string, lines []string, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Parser{
		file:   file,
		lines:  lines,
		logger: logger,
	}
}

// Parse returns every record in the input, in file order. Input that is
// not valid UTF-8 is rejected before any record is read.
func (p *Parser) Parse() ([]Record, error) {
	for i, line := range p.lines {
		if !utf8.ValidString(line) {
			return nil, &ParseError{
				File:   p.file,
				Line:   i + 1,
				State:  "decode",
				Reason: "invalid UTF-8",
			}
		}
	}

	var records []Record

	for {
		if p.state == stateAwaitBenchmark && p.cursor >= len(p.lines) {
			return records, nil
		}

		rec, done, err := p.step()
		if err != nil {
			return nil, err
		}

		if done {
			records = append(records, rec)
		}
	}
}

// step performs one transition. done is set when a record is complete.
func (p *Parser) step() (Record, bool, error) {
	switch p.state {
	case stateAwaitBenchmark:
		line := strings.TrimSpace(p.lines[p.cursor])
		if !strings.HasPrefix(line, prefixBenchmark) {
			p.logger.Debug("skipping line outside record",
				slog.String("file", p.file),
				slog.Int("line", p.cursor+1),
			)
			p.cursor++

			return Record{}, false, nil
		}

		p.rec = Record{
			Name:       extractName(line),
			Iterations: Absent(),
			Violated:   Absent(),
			Line:       p.cursor + 1,
		}
		p.advance(advanceHeader, stateReadIterations)

	case stateReadIterations:
		line, err := p.current()
		if err != nil {
			return Record{}, false, err
		}

		if strings.HasPrefix(line, prefixIterations) {
			tokens := strings.Split(line, " ")
			if len(tokens) <= iterationsToken {
				return Record{}, false, p.errorf(
					"iterations line %q has %d tokens", line, len(tokens),
				)
			}

			p.rec.Iterations = Present(tokens[iterationsToken])
		}
		p.advance(advanceIterations, stateSkipLine)

	case stateSkipLine:
		p.advance(advancePassed, stateReadViolated)

	case stateReadViolated:
		line, err := p.current()
		if err != nil {
			return Record{}, false, err
		}

		if strings.HasPrefix(line, prefixViolated) {
			p.rec.Violated = Present(extractParenthesized(line))
		}
		p.advance(advanceViolated, stateMaybeSkipTimedOut)

	case stateMaybeSkipTimedOut:
		line, err := p.current()
		if err != nil {
			return Record{}, false, err
		}

		if strings.HasPrefix(line, prefixTimedOut) {
			p.rec.TimedOut = true
			p.cursor += advanceTimedOut
		}
		p.state = stateSkipPadding

	case stateSkipPadding:
		p.advance(advancePadding, stateAwaitBenchmark)

		return p.rec, true, nil

	default:
		return Record{}, false, p.errorf("unknown parser state")
	}

	return Record{}, false, nil
}

func (p *Parser) advance(n int, next parseState) {
	p.cursor += n
	p.state = next
}

// current returns the trimmed line under the cursor.
func (p *Parser) current() (string, error) {
	if p.cursor >= len(p.lines) {
		return "", p.errorf("unexpected end of input after %d lines", len(p.lines))
	}

	return strings.TrimSpace(p.lines[p.cursor]), nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{
		File:   p.file,
		Line:   p.cursor + 1,
		State:  p.state.String(),
		Reason: fmt.Sprintf(format, args...),
	}
}

// extractName returns the text between "Benchmark " and the first colon.
func extractName(line string) string {
	r := []rune(line)

	return sliceRunes(r, nameOffset, indexRune(r, ':'))
}

// extractParenthesized returns the text after the first '(' minus the last
// character before the first ')'. For "Violated = 3 (30.0%)" that is "30.0".
func extractParenthesized(line string) string {
	r := []rune(line)

	return sliceRunes(r, indexRune(r, '(')+1, indexRune(r, ')')-1)
}

func indexRune(r []rune, c rune) int {
	for i, x := range r {
		if x == c {
			return i
		}
	}

	return -1
}

// sliceRunes slices r[start:end] where negative bounds count from the end,
// out of range bounds clamp and an empty range yields "".
func sliceRunes(r []rune, start, end int) string {
	n := len(r)
	start = clampIndex(start, n)
	end = clampIndex(end, n)

	if end <= start {
		return ""
	}

	return string(r[start:end])
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}

	if i > n {
		return n
	}

	return i
}
