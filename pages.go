package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	markdownlintHeader = "<!-- markdownlint-disable -->\n\n"
	watermarkFooter    = "\n\n---\n\n_This file was automatically generated via [lazydocs](https://github.com/agentflare-ai/go-lazydocs)._\n"
	mkdocsPagesFile    = ".pages"
	mkdocsPagesTitle   = "API Reference"
)

// pageWriter puts rendered pages on disk, or on stdout in stdout mode.
type pageWriter struct {
	outDir              string
	stdout              io.Writer
	stdoutMode          bool
	watermark           bool
	disableMarkdownlint bool
	pretty              bool
	logger              *slog.Logger
}

func newPageWriter(cfg *config, stdout io.Writer, logger *slog.Logger) *pageWriter {
	return &pageWriter{
		outDir:              cfg.OutputPath,
		stdout:              stdout,
		stdoutMode:          cfg.stdoutMode(),
		watermark:           cfg.Watermark,
		disableMarkdownlint: cfg.DisableMarkdownlint,
		pretty:              cfg.Pretty,
		logger:              logger,
	}
}

func (p *pageWriter) prepare() error {
	if p.stdoutMode {
		return nil
	}
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

func (p *pageWriter) decorate(markdown string) string {
	if p.disableMarkdownlint {
		markdown = markdownlintHeader + markdown
	}
	if p.watermark {
		markdown += watermarkFooter
	}
	if p.pretty {
		markdown = tidyMarkdown(markdown)
	}
	return markdown
}

// writeMarkdownFile writes name.md into the output directory and returns
// its path. Empty pages are skipped and yield "".
func (p *pageWriter) writeMarkdownFile(name, markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	if p.stdoutMode {
		if p.pretty {
			markdown = tidyMarkdown(markdown)
		}
		_, err := fmt.Fprintln(p.stdout, markdown)
		return "", err
	}
	file := name
	if !strings.HasSuffix(file, ".md") {
		file += ".md"
	}
	path := filepath.Join(p.outDir, file)
	p.logger.Info("writing page", "file", path)
	if err := os.WriteFile(path, []byte(p.decorate(markdown)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

type mkdocsPages struct {
	Title string `yaml:"title"`
	Nav   []any  `yaml:"nav"`
}

// writeMkdocsPages writes the awesome-pages navigation file that puts the
// overview first and everything else after it.
func (p *pageWriter) writeMkdocsPages(overviewFile string) error {
	if p.stdoutMode {
		return nil
	}
	data, err := yaml.Marshal(mkdocsPages{
		Title: mkdocsPagesTitle,
		Nav: []any{
			map[string]string{"Overview": overviewFile},
			"...",
		},
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", mkdocsPagesFile, err)
	}
	path := filepath.Join(p.outDir, mkdocsPagesFile)
	p.logger.Info("writing mkdocs pages file", "file", path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// tidyMarkdown collapses runs of blank lines outside code fences, drops
// leading blank lines and ends the page with exactly one newline.
func tidyMarkdown(markdown string) string {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	blank := true
	for _, line := range lines {
		if isFenceLine(line) {
			inFence = !inFence
		}
		if !inFence && strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, strings.TrimRight(line, " \t"))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}

// isFenceLine reports whether line opens or closes a fenced block. Inline
// doctest spans such as "``` f()```" are not fences.
func isFenceLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "```") {
		return false
	}
	return !strings.Contains(strings.TrimLeft(trimmed, "`"), "`")
}
