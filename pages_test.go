package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTidyMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses blank runs",
			in:   "\n\n# Title\n\n\n\ntext  \n",
			want: "# Title\n\ntext\n",
		},
		{
			name: "keeps blank lines inside fences",
			in:   "```\na\n\n\n\nb\n```\n\n\nend",
			want: "```\na\n\n\n\nb\n```\n\nend\n",
		},
		{
			name: "inline doctest is not a fence",
			in:   "``` f()```\n\n\n\nx",
			want: "``` f()```\n\nx\n",
		},
		{
			name: "windows line endings",
			in:   "a\r\n\r\n\r\nb\r\n",
			want: "a\n\nb\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tidyMarkdown(tt.in))
		})
	}
}

func TestWriteMarkdownFileDecorates(t *testing.T) {
	tmp := t.TempDir()
	pw := &pageWriter{outDir: tmp, watermark: true, disableMarkdownlint: true, pretty: true, logger: discardLogger()}

	path, err := pw.writeMarkdownFile("page", "# A\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "page.md"), path)
	assert.Equal(t, markdownlintHeader+"# A"+watermarkFooter, readPage(t, tmp, "page.md"))

	path, err = pw.writeMarkdownFile("README.md", "# B")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "README.md"), path, "an existing .md extension is kept")
}

func TestWriteMarkdownFileWithoutDecoration(t *testing.T) {
	tmp := t.TempDir()
	pw := &pageWriter{outDir: tmp, logger: discardLogger()}

	_, err := pw.writeMarkdownFile("plain", "# A\n\n\n\nbody")
	require.NoError(t, err)
	assert.Equal(t, "# A\n\n\n\nbody", readPage(t, tmp, "plain.md"))
}

func TestWriteMarkdownFileSkipsEmptyPages(t *testing.T) {
	tmp := t.TempDir()
	pw := &pageWriter{outDir: tmp, watermark: true, logger: discardLogger()}

	path, err := pw.writeMarkdownFile("blank", "  \n\n")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NoFileExists(t, filepath.Join(tmp, "blank.md"))
}

func TestWriteMarkdownFileStdoutMode(t *testing.T) {
	var buf bytes.Buffer
	pw := &pageWriter{stdout: &buf, stdoutMode: true, watermark: true, disableMarkdownlint: true, pretty: true, logger: discardLogger()}

	path, err := pw.writeMarkdownFile("x", "# A\n\n\n")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "# A\n\n", buf.String())

	require.NoError(t, pw.writeMkdocsPages("README.md"))
	require.NoError(t, pw.prepare())
}

func TestWriteMkdocsPages(t *testing.T) {
	tmp := t.TempDir()
	pw := &pageWriter{outDir: tmp, logger: discardLogger()}

	require.NoError(t, pw.writeMkdocsPages("README.md"))
	data, err := os.ReadFile(filepath.Join(tmp, mkdocsPagesFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: API Reference\n")
	assert.Contains(t, string(data), "- Overview: README.md\n")
}

func TestPrepareCreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "docs")
	pw := newPageWriter(&config{OutputPath: dir}, io.Discard, discardLogger())

	require.NoError(t, pw.prepare())
	assert.DirExists(t, dir)
}
