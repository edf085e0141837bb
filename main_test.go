package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func readPage(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(content)
}

func TestPackageMarkdown(t *testing.T) {
	tmp := t.TempDir()
	_, _, err := runCLI(t,
		"-o", tmp,
		"--src-root-path", ".",
		"--src-base-url", "https://example.com/src/",
		"./testdata/example",
	)
	require.NoError(t, err)

	out := readPage(t, tmp, "example.md")
	assert.True(t, strings.HasPrefix(out, "<!-- markdownlint-disable -->\n\n# module `example`\n"), out)
	assert.Contains(t, out, "[**Link to source**](https://example.com/src/testdata/example/example.go#L6)")
	assert.Contains(t, out, "- **Alpha**: demonstrates bold formatting preservation.")
	assert.Contains(t, out, "## Global Variables\n\n- **Answer**: Answer documents an exported constant.\n- **DefaultGreeter**: DefaultGreeter is used by Hello.")
	assert.Contains(t, out, "### function `Hello`")
	assert.Contains(t, out, "```go\nfunc Hello(name string) (string, error)\n```")
	assert.Contains(t, out, "**Args:**\n\n- **name** (string): who to greet.")
	assert.Contains(t, out, "**Raises:**\n\n- **NotFoundError**: when name is empty.")
	assert.Contains(t, out, "func Configure(\n\tprefix string,\n\tsuffix string,\n\tloud bool,\n\trepeat int,\n\tseparator string,\n) (bool, error)")

	assert.Contains(t, out, "## Classes")
	assert.Contains(t, out, "### class `Greeter`")
	assert.Contains(t, out, "#### Constructors")
	assert.Contains(t, out, "##### function `NewGreeter`")
	assert.Contains(t, out, "- `Greeter.Name`: Name is included to verify field documentation.")
	assert.Contains(t, out, "##### method `Greeter.Greet`")
	assert.Contains(t, out, "func (g *Greeter) Greet(punctuation string, loud bool) string")
	assert.Contains(t, out, "- **loud** (bool): upper-cases the whole message.")
	assert.Contains(t, out, "Usage:\n```\n\tg.Greet(\"!\", false)\n```")
	assert.Contains(t, out, "### class `Speaker`")
	assert.Contains(t, out, "##### method `Speaker.Speak`")

	assert.Contains(t, out, "## Exceptions")
	assert.Contains(t, out, "### exception `NotFoundError`")
	assert.Contains(t, out, "##### method `NotFoundError.Error`")
	assert.Contains(t, out, noDocumentation)

	assert.Contains(t, out, "## Enums")
	assert.Contains(t, out, "### enum `Color`")
	assert.Contains(t, out, "#### Values\n\n- **Red** = 0\n- **Green** = 1\n- **Blue** = 2")

	assert.NotContains(t, out, "Secret")
	assert.NotContains(t, out, "internalConstant")
	assert.True(t, strings.HasSuffix(out, watermarkFooter[2:]), "page should end with the watermark")

	assert.Less(t, strings.Index(out, "## Functions"), strings.Index(out, "## Classes"))
	assert.Less(t, strings.Index(out, "function `Hello`"), strings.Index(out, "function `Configure`"))
}

func TestDirectoryOutputWritesTree(t *testing.T) {
	tmp := t.TempDir()
	_, stderr, err := runCLI(t, "-o", tmp, "--watermark=false", "./testdata/example")
	require.NoError(t, err)

	sub := readPage(t, tmp, "example.subpkg.md")
	assert.Contains(t, sub, "# module `example.subpkg`")
	assert.Contains(t, sub, "- **Message**: Message exposes a sample constant.")
	assert.NotContains(t, sub, "automatically generated")

	assert.NoFileExists(t, filepath.Join(tmp, "example.hidden.md"))
	assert.NoFileExists(t, filepath.Join(tmp, "example.hidden.deeper.md"))
	assert.Contains(t, stderr, "module=example.hidden.deeper")
}

func TestIgnoredModulesFlag(t *testing.T) {
	tmp := t.TempDir()
	_, _, err := runCLI(t, "-o", tmp, "--ignored-modules", "example.subpkg", "./testdata/example")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(tmp, "example.md"))
	assert.NoFileExists(t, filepath.Join(tmp, "example.subpkg.md"))
}

func TestOverviewFile(t *testing.T) {
	tmp := t.TempDir()
	_, stderr, err := runCLI(t, "-o", tmp, "--overview-file", "README", "./testdata/example")
	require.NoError(t, err)

	overview := readPage(t, tmp, "README.md")
	assert.Contains(t, overview, "# API Overview")
	assert.Contains(t, overview, "- [`example`](./example.md#module-example): Package example demonstrates documentation rendering for lazydocs tests.")
	assert.Contains(t, overview, "- [`example.subpkg`](./example.subpkg.md#module-examplesubpkg): Package subpkg exists to test directory output.")
	assert.Contains(t, overview, "- [`example.Greeter`](./example.md#class-greeter): Greeter produces greeting messages.")
	assert.Contains(t, overview, "- [`example.Color`](./example.md#enum-color): Color is a palette entry.")
	assert.Contains(t, overview, "- [`example.Hello`](./example.md#function-hello): Hello greets name with the default greeter.")
	assert.Contains(t, overview, "- [`example.NewGreeter`](./example.md#function-newgreeter): NewGreeter constructs a Greeter.")
	assert.NotContains(t, stderr, "broken overview link")

	data, err := os.ReadFile(filepath.Join(tmp, mkdocsPagesFile))
	require.NoError(t, err)
	var pages struct {
		Title string `yaml:"title"`
		Nav   []any  `yaml:"nav"`
	}
	require.NoError(t, yaml.Unmarshal(data, &pages))
	assert.Equal(t, "API Reference", pages.Title)
	require.Len(t, pages.Nav, 2)
	assert.Equal(t, map[string]any{"Overview": "README.md"}, pages.Nav[0])
	assert.Equal(t, "...", pages.Nav[1])

	broken, err := verifyOverviewLinks(tmp, "README.md")
	require.NoError(t, err)
	assert.Empty(t, broken)
}

func TestStdoutMode(t *testing.T) {
	out, _, err := runCLI(t, "-o", "stdout", "./testdata/example/subpkg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# module `subpkg`\n"), out)
	assert.NotContains(t, out, "markdownlint")
	assert.NotContains(t, out, "automatically generated")
}

func TestFileTarget(t *testing.T) {
	out, _, err := runCLI(t, "-o", "stdout", "./testdata/example/subpkg/subpkg.go")
	require.NoError(t, err)
	assert.Contains(t, out, "# module `subpkg`")
	assert.Contains(t, out, "Message exposes a sample constant")
}

func TestSymbolMarkdown(t *testing.T) {
	out, _, err := runCLI(t, "-o", "stdout", "./testdata/example.Greeter")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# class `Greeter`\n"), out)
	assert.Contains(t, out, "## Methods")
	assert.Contains(t, out, "### method `Greeter.Greet`")
	assert.NotContains(t, out, "module `example`")
}

func TestMethodMarkdown(t *testing.T) {
	out, _, err := runCLI(t, "-o", "stdout", "./testdata/example.Greeter.Greet")
	require.NoError(t, err)
	assert.Contains(t, out, "# method `Greeter.Greet`")
	assert.Contains(t, out, "**Returns:**\n\n- **string**: the greeting.")
}

func TestSymbolPageIsWritten(t *testing.T) {
	tmp := t.TempDir()
	_, _, err := runCLI(t, "-o", tmp, "./testdata/example.Hello")
	require.NoError(t, err)
	assert.Contains(t, readPage(t, tmp, "example.Hello.md"), "# function `Hello`")
}

func TestRemovePackagePrefix(t *testing.T) {
	out, _, err := runCLI(t, "-o", "stdout", "--remove-package-prefix", "./testdata/example")
	require.NoError(t, err)
	assert.Contains(t, out, "##### method `Greet`")
	assert.Contains(t, out, "- `Name`: Name is included to verify field documentation.")
	assert.NotContains(t, out, "method `Greeter.Greet`")
}

func TestUnknownTarget(t *testing.T) {
	_, _, err := runCLI(t, "-o", t.TempDir(), "./testdata/nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoTargets)
}

func TestValidateMode(t *testing.T) {
	tmp := t.TempDir()
	_, stderr, err := runCLI(t, "-o", tmp, "--validate", "./testdata/invalid")
	require.Error(t, err)
	assert.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, stderr, "should be written")
	assert.Contains(t, stderr, "is empty")
	assert.Contains(t, stderr, "documents unknown parameter")
	assert.Contains(t, stderr, "is not documented")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "validation must not write pages")
}

func TestValidateModePasses(t *testing.T) {
	_, stderr, err := runCLI(t, "--validate", "./testdata/example")
	require.NoError(t, err)
	assert.Contains(t, stderr, "validation passed")
}

func TestListCommand(t *testing.T) {
	out, _, err := runCLI(t, "list", "./testdata/example")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "Greeter.Greet")
	assert.Contains(t, out, "example.subpkg")
	assert.Contains(t, out, "enum-value")
	assert.NotContains(t, out, "Secret")
}

func TestHelpFlag(t *testing.T) {
	out, _, err := runCLI(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "lazydocs [flags] [target...]")
	assert.Contains(t, out, "--overview-file")
	assert.Contains(t, out, "completion  Generate shell completion scripts")
	assert.Contains(t, out, "list        List the modules")
}

func TestVersionFlag(t *testing.T) {
	out, _, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := runCLI(t, "completion", "bash")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "__start_lazydocs")
}

func TestGenDocsCommand(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, run(context.Background(), []string{"gen-docs", tmp}, io.Discard, io.Discard))

	files, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.NotEmpty(t, files, "expected CLI docs to be written")
	var names []string
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.Contains(t, names, "lazydocs.md")
	assert.Contains(t, names, "lazydocs_list.md")
}
