package results

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// FileResult holds the records read from one configuration's file.
type FileResult struct {
	Suffix  Suffix
	Path    string
	Records []Record
}

// Loader reads result files from a directory.
type Loader struct {
	Dir    string
	Logger *slog.Logger
}

// NewLoader creates a Loader for dir. A nil logger discards output.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Loader{
		Dir:    dir,
		Logger: logger.With(slog.String("dir", dir)),
	}
}

// Load reads and parses the result file for one configuration.
func (l *Loader) Load(ctx context.Context, s Suffix) (*FileResult, error) {
	path := ResolvePath(l.Dir, s)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open results for %s", s)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	logger := l.Logger.With(slog.String("suffix", string(s)))

	records, err := NewParser(path, lines, logger).Parse()
	if err != nil {
		return nil, errors.Wrapf(err, "parse results for %s", s)
	}

	logger.DebugContext(ctx, "results loaded",
		slog.String("path", path),
		slog.Int("lines", len(lines)),
		slog.Int("records", len(records)),
	)

	return &FileResult{
		Suffix:  s,
		Path:    path,
		Records: records,
	}, nil
}

// LoadAll loads every configuration in order and stops at the first error.
func (l *Loader) LoadAll(ctx context.Context, suffixes []Suffix) ([]*FileResult, error) {
	out := make([]*FileResult, 0, len(suffixes))

	for _, s := range suffixes {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "load results")
		}

		res, err := l.Load(ctx, s)
		if err != nil {
			return nil, err
		}

		out = append(out, res)
	}

	return out, nil
}

// ReadLines returns every line of r without its "\n" or "\r\n"
// terminator. Lines have no length limit: the runner prints one dot per
// iteration on the header line.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string

	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			lines = append(lines, line)
		}

		if err == io.EOF {
			return lines, nil
		}

		if err != nil {
			return nil, err
		}
	}
}
