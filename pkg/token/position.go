package token

// Position represents a location in an expression.
type Position struct {
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (column > 0).
func (p Position) IsValid() bool {
	return p.Column > 0
}

// Span represents a range in the source text.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}
