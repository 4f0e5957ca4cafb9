package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeWords(t *testing.T, words ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0644))
	return path
}

var tenWords = []string{"cat", "dog", "bird", "fish", "ant", "bee", "cow", "elk", "fox", "gnu"}

func TestRun_Generates(t *testing.T) {
	path := writeWords(t, tenWords...)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-words", path, "-seed", "9", "25"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 25)
	require.True(t, strings.HasPrefix(lines[0], "http://banners.com/banner0.jpg;"))
	require.True(t, strings.HasPrefix(lines[24], "http://banners.com/banner24.jpg;"))
}

func TestRun_ZeroRows(t *testing.T) {
	path := writeWords(t, tenWords...)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-words", path, "0"}, &stdout, &stderr)
	require.Equal(t, exitOK, code)
	require.Zero(t, stdout.Len())
}

func TestRun_BadRowCount(t *testing.T) {
	path := writeWords(t, tenWords...)

	for _, args := range [][]string{
		{"-words", path, "abc"},
		{"-words", path},
		{"-words", path, "--", "-5"},
		{"-words", path, "3", "4"},
	} {
		var stdout, stderr bytes.Buffer
		code := run(args, &stdout, &stderr)
		require.Equal(t, exitUsage, code, "args %q", args)
		require.Zero(t, stdout.Len(), "nothing may reach stdout for args %q", args)
		require.Contains(t, stderr.String(), "invalid configuration")
		require.Contains(t, stderr.String(), "Usage: bannergen")
		require.Contains(t, stderr.String(), "url;shows_amount;category;...")
	}
}

func TestRun_MissingWordList(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-words", filepath.Join(t.TempDir(), "missing.txt"), "3"}, &stdout, &stderr)
	require.Equal(t, exitError, code)
	require.Zero(t, stdout.Len())
	require.Contains(t, stderr.String(), "resource unavailable")
}

func TestRun_SamplingFailure(t *testing.T) {
	path := writeWords(t, "cat")
	var stdout, stderr bytes.Buffer

	// with a single word, any row drawing k > 1 fails
	code := run([]string{"-words", path, "-seed", "1", "200"}, &stdout, &stderr)
	require.Equal(t, exitError, code)
	require.Contains(t, stderr.String(), "not enough words")
}

func TestRun_VerboseSummary(t *testing.T) {
	path := writeWords(t, tenWords...)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-words", path, "-v", "-progress", "3"}, &stdout, &stderr)
	require.Equal(t, exitOK, code)
	require.Contains(t, stderr.String(), "wrote 3 rows")
	require.Equal(t, 3, strings.Count(stdout.String(), "\n"))
}
