// Copyright © 2024 The scenelint authors

package lint

// Finding is a problem reported by a check, located by byte offsets.
type Finding struct {
	Check    string
	Severity Severity
	Span     Span
	Message  string
}

// Sink collects diagnostics in report order.
//
// A diagnostic is rejected when an earlier one starts at the same line and
// character with the same message. Severity and end position are not part
// of that comparison, so an error and a warning with the same text at the
// same place collapse into whichever came first.
type Sink struct {
	pm       PositionMapper
	source   string
	disabled map[string]bool
	diags    []Diagnostic
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithSource sets the source tag attached to diagnostics. An empty tag
// leaves DefaultSource in place.
func WithSource(source string) SinkOption {
	return func(s *Sink) {
		if source != "" {
			s.source = source
		}
	}
}

// WithDisabled drops findings from the named checks.
func WithDisabled(checks ...string) SinkOption {
	return func(s *Sink) {
		for _, c := range checks {
			s.disabled[c] = true
		}
	}
}

// NewSink returns an empty sink that converts offsets with pm.
func NewSink(pm PositionMapper, opts ...SinkOption) *Sink {
	s := &Sink{
		pm:       pm,
		source:   DefaultSource,
		disabled: make(map[string]bool),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Add converts f to a diagnostic and appends it. It returns false when the
// finding's check is disabled or the diagnostic duplicates one already held.
func (s *Sink) Add(f Finding) bool {
	if s.disabled[f.Check] {
		return false
	}
	if f.Span.End < f.Span.Start {
		f.Span.End = f.Span.Start
	}
	d := Diagnostic{
		Range: Range{
			Start: s.position(f.Span.Start),
			End:   s.position(f.Span.End),
		},
		Severity: f.Severity,
		Message:  f.Message,
		Source:   s.source,
		Check:    f.Check,
		Span:     f.Span,
	}
	for _, prev := range s.diags {
		if prev.Range.Start == d.Range.Start && prev.Message == d.Message {
			return false
		}
	}
	s.diags = append(s.diags, d)
	return true
}

func (s *Sink) position(offset int) Position {
	line, char := s.pm.PositionAt(offset)
	return Position{Line: line, Character: char}
}

// Diagnostics returns a copy of the collected diagnostics.
func (s *Sink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	return out
}

// Len returns the number of collected diagnostics.
func (s *Sink) Len() int {
	return len(s.diags)
}
