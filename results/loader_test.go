package results

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeResults(t *testing.T, dir string, s Suffix, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(ResolvePath(dir, s), []byte(content), 0o644))
}

func TestSuffixesOrder(t *testing.T) {
	got := Suffixes()
	require.Len(t, got, 8)
	assert.Equal(t, Suffix("first_bound_5"), got[0])
	assert.Equal(t, Suffix("first_bound_100"), got[3])
	assert.Equal(t, Suffix("random_bound_5"), got[4])
	assert.Equal(t, Suffix("random_bound_100"), got[7])
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("out", "results_systematic_random_bound_30.txt"),
		ResolvePath("out", "random_bound_30"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, "first_bound_5", accountBad+stackBadTimedOut)

	res, err := NewLoader(dir, nil).Load(context.Background(), "first_bound_5")
	require.NoError(t, err)

	assert.Equal(t, Suffix("first_bound_5"), res.Suffix)
	assert.Equal(t, ResolvePath(dir, "first_bound_5"), res.Path)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "AccountBad", res.Records[0].Name)
	assert.Equal(t, "StackBad", res.Records[1].Name)
}

func TestLoadCRLF(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, "random_bound_10", strings.ReplaceAll(accountBad, "\n", "\r\n"))

	res, err := NewLoader(dir, nil).Load(context.Background(), "random_bound_10")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, Present("30.0"), res.Records[0].Violated)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(t.TempDir(), nil).Load(context.Background(), "first_bound_10")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "first_bound_10")
}

func TestLoadTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, "first_bound_30", accountBad+"Benchmark Cut: ..\n  Iterations = 2\n")

	_, err := NewLoader(dir, nil).Load(context.Background(), "first_bound_30")

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ResolvePath(dir, "first_bound_30"), perr.File)
	assert.Equal(t, 11, perr.Line)
}

func TestLoadAllStopsAtFirstMissing(t *testing.T) {
	dir := t.TempDir()
	suffixes := Suffixes()

	for _, s := range suffixes[:3] {
		writeResults(t, dir, s, accountBad)
	}

	_, err := NewLoader(dir, nil).LoadAll(context.Background(), suffixes)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), string(suffixes[3]))
}

func TestLoadAllCanceled(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, "first_bound_5", accountBad)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(dir, nil).LoadAll(ctx, []Suffix{"first_bound_5"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadAllOrder(t *testing.T) {
	dir := t.TempDir()
	suffixes := Suffixes()

	for _, s := range suffixes {
		writeResults(t, dir, s, accountBad)
	}

	files, err := NewLoader(dir, nil).LoadAll(context.Background(), suffixes)
	require.NoError(t, err)
	require.Len(t, files, len(suffixes))

	for i, f := range files {
		assert.Equal(t, suffixes[i], f.Suffix)
	}
}

func TestLoadLongHeaderLine(t *testing.T) {
	dir := t.TempDir()
	dots := strings.Repeat(".", 2_000_000)
	writeResults(t, dir, "first_bound_5",
		strings.Replace(accountBad, "Benchmark AccountBad: ..........", "Benchmark AccountBad: "+dots, 1))

	res, err := NewLoader(dir, nil).Load(context.Background(), "first_bound_5")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "AccountBad", res.Records[0].Name)
	assert.Equal(t, Present("30.0"), res.Records[0].Violated)
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLines(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
