package main

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agentflare-ai/go-lazydocs/docstring"
)

const (
	separator       = "\n---\n"
	noDocumentation = "*No documentation found.*"
)

// indexEntry is one generated object the overview page links to.
type indexEntry struct {
	Kind    memberKind
	Name    string
	Module  string
	Page    string
	Anchor  string
	Summary string
}

type renderOptions struct {
	removePackagePrefix bool
	srcRootPath         string
	srcBaseURL          string
}

type markdownRenderer struct {
	options renderOptions
	index   []indexEntry
	// page is the file name, without extension, of the page being rendered.
	page string
}

func newRenderer(opts renderOptions) *markdownRenderer {
	return &markdownRenderer{options: opts}
}

// renderModule writes the page of a whole package.
func (r *markdownRenderer) renderModule(w io.Writer, mod *member, depth int) {
	fmt.Fprintf(w, "%s module `%s`\n", heading(depth), mod.Name)
	r.writeSourceLink(w, mod)
	if doc := r.docMarkdown(mod.Docstring); doc != "" {
		fmt.Fprintf(w, "\n%s\n", doc)
	}
	r.record(kindModule, mod.Name, mod.Module, "module "+mod.Name, mod.Summary)

	if len(mod.Variables) > 0 {
		fmt.Fprintf(w, "\n%s Global Variables\n\n", heading(depth+1))
		for _, v := range mod.Variables {
			fmt.Fprintln(w, bulletLine(v.Name, v.Summary))
		}
	}

	if len(mod.Functions) > 0 {
		fmt.Fprintf(w, "\n%s Functions\n", heading(depth+1))
		for _, f := range mod.Functions {
			fmt.Fprint(w, separator)
			r.renderFunc(w, f, depth+2)
		}
	}

	for _, group := range []struct {
		title string
		kind  memberKind
	}{
		{"Classes", kindClass},
		{"Exceptions", kindException},
		{"Enums", kindEnum},
	} {
		var types []*member
		for _, t := range mod.Types {
			if t.Kind == group.kind {
				types = append(types, t)
			}
		}
		if len(types) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s %s\n", heading(depth+1), group.title)
		for _, t := range types {
			fmt.Fprint(w, separator)
			r.renderClass(w, t, depth+2)
		}
	}
}

// renderClass writes a class, exception or enum with its constructors,
// values, properties and methods.
func (r *markdownRenderer) renderClass(w io.Writer, t *member, depth int) {
	fmt.Fprintf(w, "%s %s `%s`\n", heading(depth), t.Kind, t.Name)
	r.writeSourceLink(w, t)
	if doc := r.docMarkdown(t.Docstring); doc != "" {
		fmt.Fprintf(w, "\n%s\n", doc)
	}
	r.record(kindClass, t.Name, t.Module, string(t.Kind)+" "+t.Name, t.Summary)

	if len(t.Constructors) > 0 {
		fmt.Fprintf(w, "\n%s Constructors\n", heading(depth+1))
		for _, f := range t.Constructors {
			fmt.Fprint(w, separator)
			r.renderFunc(w, f, depth+2)
		}
	}

	if len(t.Values) > 0 {
		fmt.Fprintf(w, "\n%s Values\n\n", heading(depth+1))
		for _, v := range t.Values {
			fmt.Fprintf(w, "- **%s** = %s\n", v.Name, v.Value)
		}
	}

	if len(t.Properties) > 0 {
		fmt.Fprintf(w, "\n%s Properties\n\n", heading(depth+1))
		for _, p := range t.Properties {
			name := p.QualifiedName
			if r.options.removePackagePrefix {
				name = p.Name
			}
			if p.Summary == "" {
				fmt.Fprintf(w, "- `%s`\n", name)
				continue
			}
			fmt.Fprintf(w, "- `%s`: %s\n", name, p.Summary)
		}
	}

	if len(t.Methods) > 0 {
		fmt.Fprintf(w, "\n%s Methods\n", heading(depth+1))
		for _, m := range t.Methods {
			fmt.Fprint(w, separator)
			r.renderFunc(w, m, depth+2)
		}
	}
}

// renderFunc writes one function or method: heading, source link,
// signature and documentation.
func (r *markdownRenderer) renderFunc(w io.Writer, f *member, depth int) {
	header := r.funcHeader(f)
	fmt.Fprintf(w, "%s %s `%s`\n", heading(depth), f.Kind, header)
	r.writeSourceLink(w, f)
	fmt.Fprintln(w)
	r.writeCodeBlock(w, signature{flat: f.Signature, wrapped: f.WrappedSignature}.text())
	doc := r.docMarkdown(f.Docstring)
	if doc == "" {
		doc = noDocumentation
	}
	fmt.Fprintln(w, doc)
	if f.Kind == kindFunction {
		r.record(kindFunction, header, f.Module, "function "+header, f.Summary)
	}
}

// renderMember writes the page of a single symbol target.
func (r *markdownRenderer) renderMember(w io.Writer, m *member) {
	switch {
	case m.Kind == kindModule:
		r.renderModule(w, m, 1)
	case m.Kind.isType():
		r.renderClass(w, m, 1)
	default:
		r.renderFunc(w, m, 1)
	}
}

func (r *markdownRenderer) funcHeader(f *member) string {
	if r.options.removePackagePrefix {
		return f.Name
	}
	return f.QualifiedName
}

// beginPage sets the page that subsequently recorded entries link to.
func (r *markdownRenderer) beginPage(page string) {
	r.page = page
}

func (r *markdownRenderer) record(kind memberKind, name, module, headingText, summary string) {
	page := r.page
	if page == "" {
		page = module
	}
	r.index = append(r.index, indexEntry{
		Kind:    kind,
		Name:    name,
		Module:  module,
		Page:    page,
		Anchor:  anchorTag(headingText),
		Summary: summary,
	})
}

// sourceLink returns the link target for m, or "" when no source root is
// configured or the file lives outside it.
func (r *markdownRenderer) sourceLink(m *member) string {
	if r.options.srcRootPath == "" || m.DeclaredAt == nil || m.DeclaredAt.Filename == "" {
		return ""
	}
	root, err := filepath.Abs(r.options.srcRootPath)
	if err != nil {
		return ""
	}
	file, err := filepath.Abs(m.DeclaredAt.Filename)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	link := filepath.ToSlash(rel)
	if base := strings.TrimSuffix(r.options.srcBaseURL, "/"); base != "" {
		link = base + "/" + strings.TrimPrefix(link, "/")
	}
	if m.DeclaredAt.Line > 0 {
		link += fmt.Sprintf("#L%d", m.DeclaredAt.Line)
	}
	return link
}

func (r *markdownRenderer) writeSourceLink(w io.Writer, m *member) {
	if link := r.sourceLink(m); link != "" {
		fmt.Fprintf(w, "\n[**Link to source**](%s)\n", link)
	}
}

func (r *markdownRenderer) writeCodeBlock(w io.Writer, code string) {
	if code == "" {
		return
	}
	fmt.Fprintf(w, "```go\n%s\n```\n\n", strings.TrimSpace(code))
}

func (r *markdownRenderer) docMarkdown(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return strings.TrimSpace(docstring.Transpile(text))
}

// overviewMarkdown renders the API overview from everything recorded so
// far.
func (r *markdownRenderer) overviewMarkdown() string {
	var buf bytes.Buffer
	buf.WriteString("# API Overview\n")
	for _, section := range []struct {
		title string
		kind  memberKind
		empty string
	}{
		{"Modules", kindModule, "- No modules"},
		{"Classes", kindClass, "- No classes"},
		{"Functions", kindFunction, "- No functions"},
	} {
		fmt.Fprintf(&buf, "\n## %s\n\n", section.title)
		n := 0
		for _, e := range r.index {
			if e.Kind != section.kind {
				continue
			}
			name := e.Name
			if e.Kind != kindModule {
				name = lastSegment(e.Module) + "." + e.Name
			}
			link := "./" + e.Page + ".md#" + e.Anchor
			fmt.Fprintf(&buf, "- [`%s`](%s)", name, link)
			if e.Summary != "" {
				buf.WriteString(": " + e.Summary)
			}
			buf.WriteString("\n")
			n++
		}
		if n == 0 {
			buf.WriteString(section.empty + "\n")
		}
	}
	return buf.String()
}

func heading(depth int) string {
	if depth < 1 {
		depth = 1
	}
	if depth > 6 {
		depth = 6
	}
	return strings.Repeat("#", depth)
}

func lastSegment(module string) string {
	if i := strings.LastIndex(module, "."); i >= 0 {
		return module[i+1:]
	}
	return module
}

var (
	reAnchorSpace   = regexp.MustCompile(`\s`)
	reAnchorInvalid = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// anchorTag returns the fragment a Markdown host generates for a heading.
func anchorTag(header string) string {
	tag := strings.ToLower(strings.TrimSpace(header))
	tag = reAnchorSpace.ReplaceAllString(tag, "-")
	return reAnchorInvalid.ReplaceAllString(tag, "")
}

func bulletLine(name, summary string) string {
	if summary == "" {
		return fmt.Sprintf("- **%s**", name)
	}
	return fmt.Sprintf("- **%s**: %s", name, summary)
}
