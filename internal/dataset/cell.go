package dataset

import "strconv"

// CellKind discriminates the value held by a Cell.
type CellKind uint8

const (
	// KindAbsent is the explicit missing marker. Blank and unparseable
	// cells are normalized to this; no raw empty strings survive cleaning.
	KindAbsent CellKind = iota
	// KindInt holds a nullable-integer column value.
	KindInt
	// KindText holds everything else.
	KindText
)

// Cell is a single table value: absent, integer, or text. The zero value
// is absent.
type Cell struct {
	kind CellKind
	n    int64
	s    string
}

// Absent returns the missing marker.
func Absent() Cell {
	return Cell{kind: KindAbsent}
}

// Int returns an integer cell.
func Int(n int64) Cell {
	return Cell{kind: KindInt, n: n}
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{kind: KindText, s: s}
}

// Kind returns the cell's discriminator.
func (c Cell) Kind() CellKind {
	return c.kind
}

// IsAbsent reports whether the cell is the missing marker.
func (c Cell) IsAbsent() bool {
	return c.kind == KindAbsent
}

// Int returns the integer value and whether the cell holds one.
func (c Cell) Int() (int64, bool) {
	if c.kind != KindInt {
		return 0, false
	}
	return c.n, true
}

// Text returns the text value and whether the cell holds one.
func (c Cell) Text() (string, bool) {
	if c.kind != KindText {
		return "", false
	}
	return c.s, true
}

// String renders the cell for serialization: absent cells render empty,
// integers in base 10, text verbatim.
func (c Cell) String() string {
	switch c.kind {
	case KindInt:
		return strconv.FormatInt(c.n, 10)
	case KindText:
		return c.s
	default:
		return ""
	}
}

// Key returns a kind-tagged canonical form so Int(5) and Text("5") never
// collide in duplicate detection.
func (c Cell) Key() string {
	switch c.kind {
	case KindInt:
		return "i:" + strconv.FormatInt(c.n, 10)
	case KindText:
		return "t:" + c.s
	default:
		return "-"
	}
}

// Equal reports value equality across kind, integer, and text.
func (c Cell) Equal(other Cell) bool {
	return c.kind == other.kind && c.n == other.n && c.s == other.s
}
