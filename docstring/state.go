package docstring

import "strings"

// BlockKind is the kind of block currently open while a docstring is
// rewritten.
type BlockKind int

const (
	None BlockKind = iota
	ArgList
	Quote
	Literal
	FencedCode
)

func (k BlockKind) String() string {
	switch k {
	case ArgList:
		return "arg-list"
	case Quote:
		return "quote"
	case Literal:
		return "literal"
	case FencedCode:
		return "fenced-code"
	default:
		return "none"
	}
}

const fence = "```"

// State is threaded from line to line. The zero value is not ready for use;
// start from NewState.
type State struct {
	Kind BlockKind
	// Outer is the argument list a literal or fenced span was opened from.
	// It is suspended while the span is open and restored when it closes.
	Outer BlockKind

	BlockIndent   int
	ArgIndent     int
	FencedIndent  int
	LiteralIndent int

	literalFilled bool
	literalBlanks int
}

// NewState returns the state before the first line.
func NewState() State {
	return State{ArgIndent: 1}
}

// Step consumes one physical line and returns the next state together with
// the fragments to append to the output.
func Step(st State, raw string) (State, []string) {
	st, _, out := step(st, raw)
	return st, out
}

func step(st State, raw string) (State, Line, []string) {
	var out []string

	// A non-blank line at or left of the trigger line ends a literal block.
	if st.Kind == Literal && strings.TrimSpace(raw) != "" {
		trimmed := strings.TrimLeft(raw, " \t")
		if len(raw)-len(trimmed) <= st.LiteralIndent {
			st, out = closeLiteral(st, out)
		}
	}

	line := Classify(st, raw)
	switch line.Kind {
	case HeaderLine:
		st, out = closeLiteral(st, out)
		st.BlockIndent = line.Indent
		st.ArgIndent = line.Indent + 1
		st.Outer = None
		out = append(out, "\n\n**"+strings.TrimSpace(line.Trimmed)+"**\n")
		switch line.Family {
		case ListHeader:
			st.Kind = ArgList
		case QuoteHeader:
			st.Kind = Quote
			out = append(out, "\n>")
		default:
			st.Kind = None
		}

	case FenceOpenLine:
		st, out = closeLiteral(st, out)
		if st.Kind == ArgList {
			st.Outer = ArgList
		} else {
			st.Outer = None
		}
		st.Kind = FencedCode
		st.FencedIndent = line.Indent
		out = append(out, "\n"+line.Trimmed+"\n")

	case FencedContentLine:
		out = append(out, stripIndent(raw, st.FencedIndent)+"\n")

	case FenceCloseLine:
		out = append(out, stripIndent(raw, st.FencedIndent)+"\n")
		st.Kind = st.Outer
		st.Outer = None
		st.FencedIndent = 0

	case LiteralStartLine:
		text := strings.TrimSuffix(strings.TrimSpace(line.Trimmed), "::")
		out = append(out, text+":\n"+fence+"\n")
		if st.Kind == ArgList {
			st.Outer = ArgList
		} else {
			st.Outer = None
		}
		st.Kind = Literal
		st.LiteralIndent = line.Indent
		st.literalFilled = false
		st.literalBlanks = 0

	case LiteralContentLine:
		// Blank lines are held back until more code follows so the
		// fence never opens or closes on an empty line.
		if line.Blank() {
			if st.literalFilled {
				st.literalBlanks++
			}
			break
		}
		out = append(out, strings.Repeat("\n", st.literalBlanks)+raw+"\n")
		st.literalFilled = true
		st.literalBlanks = 0

	case QuoteContentLine:
		if line.Blank() {
			out = append(out, " ", "\n>")
			break
		}
		out = append(out, strings.TrimSpace(line.Trimmed)+" ")

	case DoctestLine:
		out = append(out, strings.Replace(line.Trimmed, ">>>", fence, 1)+fence+"\n")

	case BlankLine:
		out = append(out, "\n\n")

	case BulletLine:
		out = append(out, "\n"+strings.Repeat(" ", line.Indent)+line.Trimmed+" ")

	case TypedArgLine:
		out = append(out, "\n"+strings.Repeat(" ", st.BlockIndent)+"- **"+escapeName(line.Name)+"** ("+line.Type+"): "+line.Description)
		st.ArgIndent = line.Indent

	case BareArgLine:
		entry := "\n" + strings.Repeat(" ", st.BlockIndent) + "- **" + escapeName(line.Name) + "**:"
		if line.Description != "" {
			entry += " " + line.Description
		}
		out = append(out, entry)
		st.ArgIndent = line.Indent

	case ContinuationLine:
		out = append(out, " "+strings.TrimSpace(line.Trimmed))

	default: // TextLine, IndentedLine
		out = append(out, strings.TrimRight(line.Trimmed, " \t")+" ")
	}
	return st, line, out
}

// Finish closes whatever code span is still open at the end of the input.
func Finish(st State) []string {
	switch st.Kind {
	case Literal, FencedCode:
		return []string{fence + "\n"}
	default:
		return nil
	}
}

func closeLiteral(st State, out []string) (State, []string) {
	if st.Kind != Literal {
		return st, out
	}
	closing := fence + "\n"
	if st.literalBlanks > 0 {
		closing += "\n"
	}
	out = append(out, closing)
	st.Kind = st.Outer
	st.Outer = None
	st.LiteralIndent = 0
	st.literalFilled = false
	st.literalBlanks = 0
	return st, out
}

// stripIndent removes up to n leading blanks from line.
func stripIndent(line string, n int) string {
	i := 0
	for i < n && i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

// escapeName keeps "**kwargs" style names from breaking the bold markup.
func escapeName(name string) string {
	return strings.ReplaceAll(name, "*", `\*`)
}
