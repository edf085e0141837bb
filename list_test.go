package main

import (
	"bytes"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMemberTable(t *testing.T) {
	var buf bytes.Buffer
	renderMemberTable(&buf, []*member{
		{Kind: kindFunction, QualifiedName: "Hello", Module: "example", DeclaredAt: &token.Position{Filename: "example.go", Line: 7}, Summary: "Hello greets."},
		{Kind: kindModule, QualifiedName: "example"},
	})

	out := buf.String()
	assert.Contains(t, out, "DECLARED AT")
	assert.Contains(t, out, "example.go:7")
	assert.Contains(t, out, "Hello greets.")
	assert.Contains(t, out, "module")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Len(t, []rune(truncate(strings.Repeat("é", 80), maxSummaryWidth)), maxSummaryWidth)
}
