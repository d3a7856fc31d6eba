package hex

type Side int8

const (
	NoSide Side = iota
	// SideA connects the left edge to the right edge.
	SideA
	// SideB connects the top edge to the bottom edge.
	SideB
)

func (s Side) Flip() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	}
	return NoSide
}

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	case NoSide:
		return "-"
	}
	return "?"
}
