package docstring

import (
	"regexp"
	"strings"
)

var (
	reListHeader  = regexp.MustCompile(`(?i)^(Args:|Arg:|Arguments:|Parameters:|Kwargs:|Attributes:|Returns:|Yields:|Raises:).{0,2}$`)
	reTextHeader  = regexp.MustCompile(`(?i)^(Examples:|Example:|Todo:).{0,2}$`)
	reQuoteHeader = regexp.MustCompile(`(?i)^(Notes:|Note:).{0,2}$`)

	reTypedArg = regexp.MustCompile(`^(\**[\w\[\]]+?)\s*?\((.*?)\):(.{2,})`)
	reBareArg  = regexp.MustCompile(`^(\**[\w\[\]]+?)\s*?:(.{2,})?`)
)

// HeaderFamily groups section headers by the block they open.
type HeaderFamily int

const (
	NoHeader HeaderFamily = iota
	ListHeader
	TextHeader
	QuoteHeader
)

func (f HeaderFamily) String() string {
	switch f {
	case ListHeader:
		return "list"
	case TextHeader:
		return "text"
	case QuoteHeader:
		return "quote"
	default:
		return "none"
	}
}

// LineKind is the classification of a single physical line.
type LineKind int

const (
	TextLine LineKind = iota
	BlankLine
	HeaderLine
	FenceOpenLine
	FenceCloseLine
	FencedContentLine
	LiteralStartLine
	LiteralContentLine
	QuoteContentLine
	DoctestLine
	BulletLine
	TypedArgLine
	BareArgLine
	ContinuationLine
	IndentedLine
)

var lineKindNames = map[LineKind]string{
	TextLine:           "text",
	BlankLine:          "blank",
	HeaderLine:         "header",
	FenceOpenLine:      "fence-open",
	FenceCloseLine:     "fence-close",
	FencedContentLine:  "fenced-content",
	LiteralStartLine:   "literal-start",
	LiteralContentLine: "literal-content",
	QuoteContentLine:   "quote-content",
	DoctestLine:        "doctest",
	BulletLine:         "bullet",
	TypedArgLine:       "typed-arg",
	BareArgLine:        "bare-arg",
	ContinuationLine:   "continuation",
	IndentedLine:       "indented",
}

func (k LineKind) String() string {
	if name, ok := lineKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Line is a classified physical line together with the substructure the
// emitter needs.
type Line struct {
	Kind    LineKind
	Raw     string
	Indent  int
	Trimmed string // Raw without leading whitespace

	Family HeaderFamily // HeaderLine only

	// TypedArgLine and BareArgLine.
	Name        string
	Type        string
	Description string
}

// Blank reports whether the line holds nothing but whitespace.
func (l Line) Blank() bool {
	return strings.TrimSpace(l.Raw) == ""
}

// Classify decides which kind of line raw is, given the state left behind
// by the previous lines. The first matching rule wins.
func Classify(st State, raw string) Line {
	trimmed := strings.TrimLeft(raw, " \t")
	line := Line{
		Kind:    TextLine,
		Raw:     raw,
		Indent:  len(raw) - len(trimmed),
		Trimmed: trimmed,
	}
	stripped := strings.TrimSpace(raw)

	if st.Kind == FencedCode {
		if IsFence(trimmed) {
			line.Kind = FenceCloseLine
		} else {
			line.Kind = FencedContentLine
		}
		return line
	}
	if family := MatchHeader(trimmed); family != NoHeader {
		line.Kind = HeaderLine
		line.Family = family
		return line
	}
	if IsFence(trimmed) {
		line.Kind = FenceOpenLine
		return line
	}
	if st.Kind == Literal {
		line.Kind = LiteralContentLine
		return line
	}
	if st.Kind == Quote {
		line.Kind = QuoteContentLine
		return line
	}
	if IsLiteralTrigger(stripped) {
		line.Kind = LiteralStartLine
		return line
	}
	if IsDoctest(trimmed) {
		line.Kind = DoctestLine
		return line
	}
	if stripped == "" {
		line.Kind = BlankLine
		return line
	}
	if IsBullet(trimmed) {
		line.Kind = BulletLine
		return line
	}
	if line.Indent > st.BlockIndent {
		if st.Kind == ArgList {
			if name, typ, desc, ok := MatchTypedArg(trimmed); ok {
				line.Kind = TypedArgLine
				line.Name, line.Type, line.Description = name, typ, desc
				return line
			}
			if name, desc, ok := MatchBareArg(trimmed); ok {
				line.Kind = BareArgLine
				line.Name, line.Description = name, desc
				return line
			}
			if line.Indent > st.ArgIndent {
				line.Kind = ContinuationLine
				return line
			}
		}
		line.Kind = IndentedLine
		return line
	}
	return line
}

// MatchHeader reports which header family, if any, the left-trimmed line
// belongs to.
func MatchHeader(trimmed string) HeaderFamily {
	switch {
	case reListHeader.MatchString(trimmed):
		return ListHeader
	case reTextHeader.MatchString(trimmed):
		return TextHeader
	case reQuoteHeader.MatchString(trimmed):
		return QuoteHeader
	default:
		return NoHeader
	}
}

// HeaderName returns the header keyword without the trailing colon and
// anything after it, e.g. "Args" for "Args:".
func HeaderName(trimmed string) string {
	if idx := strings.Index(trimmed, ":"); idx >= 0 {
		return trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// IsFence reports whether the left-trimmed line is an explicit code fence.
func IsFence(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```")
}

// IsLiteralTrigger reports whether the stripped line ends with the
// reStructuredText literal-block marker.
func IsLiteralTrigger(stripped string) bool {
	return strings.HasSuffix(stripped, "::")
}

// IsDoctest reports whether the left-trimmed line is an interactive example.
func IsDoctest(trimmed string) bool {
	return strings.HasPrefix(trimmed, ">>>")
}

// IsBullet reports whether the left-trimmed line is a list item.
func IsBullet(trimmed string) bool {
	return strings.HasPrefix(trimmed, "-")
}

// MatchTypedArg matches "name (type): description".
func MatchTypedArg(trimmed string) (name, typ, desc string, ok bool) {
	m := reTypedArg.FindStringSubmatch(trimmed)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], strings.TrimSpace(m[3]), true
}

// MatchBareArg matches "name: description". The description is optional.
func MatchBareArg(trimmed string) (name, desc string, ok bool) {
	m := reBareArg.FindStringSubmatch(trimmed)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}
