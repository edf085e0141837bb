package main

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/agentflare-ai/go-lazydocs/docstring"
)

type docIssue struct {
	Member   string
	Location string
	Message  string
}

func (i docIssue) String() string {
	if i.Location == "" {
		return i.Member + ": " + i.Message
	}
	return i.Location + ": " + i.Member + ": " + i.Message
}

// validateMember checks the docstring of m and everything below it.
func validateMember(root *member) []docIssue {
	var issues []docIssue
	root.walk(func(m *member) {
		issues = append(issues, checkDocstring(m)...)
	})
	return issues
}

func checkDocstring(m *member) []docIssue {
	if m.Docstring == "" {
		return nil
	}
	report := func(format string, args ...any) docIssue {
		return docIssue{Member: m.QualifiedName, Location: m.location(), Message: fmt.Sprintf(format, args...)}
	}

	var issues []docIssue
	sections := docstring.Sections(m.Docstring)
	for _, s := range sections {
		if want := capitalized(s.Header); s.Header != want {
			issues = append(issues, report("section %q should be written %q", s.Header, want))
		}
		if s.Empty {
			issues = append(issues, report("section %q is empty", s.Header))
		}
	}

	if m.Kind != kindFunction && m.Kind != kindMethod {
		return issues
	}
	args, ok := docstring.Lookup(sections, "Args", "Arg", "Arguments", "Parameters")
	if !ok {
		return issues
	}
	params := make(map[string]bool, len(m.Params))
	for _, p := range m.Params {
		params[p] = false
	}
	for _, e := range args.Entries {
		name := strings.TrimLeft(e.Name, "*")
		if _, known := params[name]; !known {
			issues = append(issues, report("documents unknown parameter %q", name))
			continue
		}
		params[name] = true
	}
	for _, p := range m.Params {
		if !params[p] {
			issues = append(issues, report("parameter %q is not documented", p))
		}
	}
	return issues
}

func capitalized(header string) string {
	if header == "" {
		return header
	}
	return strings.ToUpper(header[:1]) + strings.ToLower(header[1:])
}

// runValidateCommand runs the configured external checker with target as
// its last argument.
func runValidateCommand(ctx context.Context, command, target string, stdout, stderr io.Writer) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	args := append(fields[1:], target)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}
