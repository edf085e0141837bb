package main

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// brokenLink is an overview link whose page or anchor does not exist.
type brokenLink struct {
	Destination string
	Reason      string
}

func (b brokenLink) String() string {
	return b.Destination + ": " + b.Reason
}

// markdownLinks returns the destinations of every inline link in body.
func markdownLinks(body []byte) []string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))
	var links []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if link, ok := n.(*gmast.Link); ok {
			links = append(links, string(link.Destination))
		}
		return gmast.WalkContinue, nil
	})
	return links
}

// headingAnchors returns the anchors generated for every heading in body.
func headingAnchors(body []byte) map[string]struct{} {
	root := goldmark.New().Parser().Parse(text.NewReader(body))
	anchors := make(map[string]struct{})
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		heading, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		anchors[anchorTag(nodeText(heading, body))] = struct{}{}
		return gmast.WalkSkipChildren, nil
	})
	return anchors
}

// nodeText concatenates the text below n, code spans included.
func nodeText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := c.(*gmast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}

// verifyOverviewLinks checks every relative link of the overview page
// against the headings of the page it points to.
func verifyOverviewLinks(outDir, overviewFile string) ([]brokenLink, error) {
	body, err := os.ReadFile(filepath.Join(outDir, overviewFile))
	if err != nil {
		return nil, fmt.Errorf("read overview: %w", err)
	}
	pages := make(map[string]map[string]struct{})
	var broken []brokenLink
	for _, dest := range markdownLinks(body) {
		u, err := url.Parse(dest)
		if err != nil || u.Scheme != "" || u.Host != "" {
			continue
		}
		page := u.Path
		if page == "" {
			page = overviewFile
		}
		anchors, ok := pages[page]
		if !ok {
			content, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(page, "./"))))
			if err != nil {
				broken = append(broken, brokenLink{Destination: dest, Reason: "page not found"})
				pages[page] = nil
				continue
			}
			anchors = headingAnchors(content)
			pages[page] = anchors
		}
		if anchors == nil {
			broken = append(broken, brokenLink{Destination: dest, Reason: "page not found"})
			continue
		}
		if u.Fragment == "" {
			continue
		}
		if _, ok := anchors[u.Fragment]; !ok {
			broken = append(broken, brokenLink{Destination: dest, Reason: "anchor not found"})
		}
	}
	return broken, nil
}
