package effort

import (
	"fmt"
	"strings"
)

// Size represents a discrete effort estimate for a task.
type Size string

const (
	// SizeNone indicates a task that carries no schedulable effort.
	SizeNone Size = "none"
	SizeXS   Size = "xs"
	SizeS    Size = "s"
	SizeM    Size = "m"
	SizeL    Size = "l"
	SizeXL   Size = "xl"
	SizeXXL  Size = "xxl"
	SizeXXXL Size = "xxxl"
)

// points maps each size to its effort point value. Values double with each
// size rank so relative estimates stay coarse on purpose.
var points = map[Size]int{
	SizeNone: 0,
	SizeXS:   1,
	SizeS:    2,
	SizeM:    4,
	SizeL:    8,
	SizeXL:   16,
	SizeXXL:  32,
	SizeXXXL: 64,
}

// sizesByRank lists the defined sizes in ascending effort order.
var sizesByRank = []Size{SizeNone, SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeXXXL}

// Points returns the effort point value for the size. Unknown sizes yield 0;
// callers that need to surface the condition should check Known first.
func Points(size Size) int {
	return points[size]
}

// Known reports whether the size is a defined enumeration value.
func Known(size Size) bool {
	_, ok := points[size]
	return ok
}

// Sizes returns the defined sizes in ascending effort order.
func Sizes() []Size {
	out := make([]Size, len(sizesByRank))
	copy(out, sizesByRank)
	return out
}

// ParseSize converts a stored string into a Size, accepting any casing.
func ParseSize(value string) (Size, error) {
	size := Size(strings.ToLower(strings.TrimSpace(value)))
	if !Known(size) {
		return SizeNone, fmt.Errorf("effort: unknown size %q", value)
	}
	return size, nil
}
