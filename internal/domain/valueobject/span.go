package valueobject

// Span is an inclusive (start, end) pair of line indices locating a
// contiguous sub-range of a report (Value Object). The zero value means
// the section was not found.
type Span struct {
	start int
	end   int
	found bool
}

// NewSpan creates a found span. The bounds are not reordered: a span with
// start > end is a legal result of boundary search (markers present but
// malformed) and selects no lines.
func NewSpan(start, end int) Span {
	return Span{
		start: start,
		end:   end,
		found: true,
	}
}

// Start returns the first line index of the span.
func (s Span) Start() int {
	return s.start
}

// End returns the last line index of the span.
func (s Span) End() int {
	return s.end
}

// Found reports whether the boundary search located both ends of the span.
func (s Span) Found() bool {
	return s.found
}

// Empty reports whether the span selects no lines, either because it was
// not found or because its bounds are inverted. Callers must not join an
// empty span.
func (s Span) Empty() bool {
	return !s.found || s.start > s.end
}

// Len returns the number of lines the span selects.
func (s Span) Len() int {
	if s.Empty() {
		return 0
	}
	return s.end - s.start + 1
}
