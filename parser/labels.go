// Copyright © 2024 The scenelint authors

package parser

import "regexp"

// labelDecl matches the opening of a label form and captures the name the
// same way Tokenize would read it.
var labelDecl = regexp.MustCompile(`\(\s*label\s+("[^"]*"|[^\s()]+)`)

// Label is one label declaration.
type Label struct {
	Name string
	// Offset is the byte offset of the declaring form's opening parenthesis.
	Offset int
}

// Labels is every label declaration in a script in source order.
// Repeated names are kept so that duplicates can be counted.
type Labels []Label

// ExtractLabels returns every label declared in text, in the order they
// appear.
func ExtractLabels(text string) Labels {
	matches := labelDecl.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	labels := make(Labels, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, Label{Name: text[m[2]:m[3]], Offset: m[0]})
	}
	return labels
}

// Names returns the label names in source order, duplicates included.
func (ls Labels) Names() []string {
	names := make([]string, len(ls))
	for i, l := range ls {
		names[i] = l.Name
	}
	return names
}

// Count returns the number of declarations of name.
func (ls Labels) Count(name string) int {
	n := 0
	for _, l := range ls {
		if l.Name == name {
			n++
		}
	}
	return n
}

// Has reports whether name is declared at least once.
func (ls Labels) Has(name string) bool {
	return ls.Count(name) > 0
}

// First returns the offset of the first declaration of name.
func (ls Labels) First(name string) (int, bool) {
	for _, l := range ls {
		if l.Name == name {
			return l.Offset, true
		}
	}
	return 0, false
}

// Unique returns each declared name once, in order of first declaration.
func (ls Labels) Unique() []string {
	seen := make(map[string]bool, len(ls))
	var names []string
	for _, l := range ls {
		if !seen[l.Name] {
			seen[l.Name] = true
			names = append(names, l.Name)
		}
	}
	return names
}

// labelRef matches a form whose first argument names a label.
var labelRef = regexp.MustCompile(`\(\s*(label|jump|start)\s+("[^"]*"|[^\s()]+)`)

// Ref is one occurrence of a label name: a declaration or a jump or start
// target.
type Ref struct {
	Name    string
	Keyword string // label, jump or start
	// Offset is the byte offset of the form's opening parenthesis.
	Offset int
	// NameStart and NameEnd delimit the name token.
	NameStart, NameEnd int
}

// IsDecl reports whether r declares its label.
func (r Ref) IsDecl() bool {
	return r.Keyword == "label"
}

// Contains reports whether the byte offset falls on the name token,
// including the position just past its last byte.
func (r Ref) Contains(offset int) bool {
	return offset >= r.NameStart && offset <= r.NameEnd
}

// ExtractRefs returns every label declaration and label target in text, in
// source order. A (jump end) target is not a label reference and is left
// out.
func ExtractRefs(text string) []Ref {
	var refs []Ref
	for _, m := range labelRef.FindAllStringSubmatchIndex(text, -1) {
		kw, name := text[m[2]:m[3]], text[m[4]:m[5]]
		if kw == "jump" && name == "end" {
			continue
		}
		refs = append(refs, Ref{
			Name:      name,
			Keyword:   kw,
			Offset:    m[0],
			NameStart: m[4],
			NameEnd:   m[5],
		})
	}
	return refs
}
