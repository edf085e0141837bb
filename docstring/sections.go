package docstring

import "strings"

// Section is a recognized section header and what followed it.
type Section struct {
	// Header is the keyword as written, without the colon ("Args").
	Header string
	Family HeaderFamily
	// Line is the zero-based line number of the header.
	Line int
	// Entries holds the argument entries of a list section.
	Entries []Entry
	// Empty is true when no non-blank line follows the header before the
	// next header or the end of the docstring.
	Empty bool
}

// Entry is one "name (type): description" item of a list section.
type Entry struct {
	Name        string
	Type        string
	Description string
	Line        int
}

// Sections walks a docstring with the same state machine Transpile uses
// and returns its sections in order.
func Sections(text string) []Section {
	var sections []Section
	st := NewState()
	for i, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		var line Line
		st, line, _ = step(st, raw)
		if line.Kind == HeaderLine {
			sections = append(sections, Section{
				Header: HeaderName(strings.TrimSpace(line.Trimmed)),
				Family: line.Family,
				Line:   i,
				Empty:  true,
			})
			continue
		}
		if len(sections) == 0 {
			continue
		}
		cur := &sections[len(sections)-1]
		if !line.Blank() {
			cur.Empty = false
		}
		switch line.Kind {
		case TypedArgLine, BareArgLine:
			cur.Entries = append(cur.Entries, Entry{
				Name:        line.Name,
				Type:        line.Type,
				Description: line.Description,
				Line:        i,
			})
		case ContinuationLine:
			if n := len(cur.Entries); n > 0 {
				cur.Entries[n-1].Description += " " + strings.TrimSpace(line.Trimmed)
			}
		}
	}
	return sections
}

// Lookup returns the first section whose header matches one of names,
// compared case-insensitively.
func Lookup(sections []Section, names ...string) (Section, bool) {
	for _, s := range sections {
		for _, name := range names {
			if strings.EqualFold(s.Header, name) {
				return s, true
			}
		}
	}
	return Section{}, false
}
