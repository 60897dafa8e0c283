package gcode

import "fmt"

// Violation is a burn move leaving the work area.
type Violation struct {
	Index int // index into the parsed moves
	X, Y  float64
}

func (v Violation) String() string {
	return fmt.Sprintf("move %d reaches (%.2f, %.2f)", v.Index, v.X, v.Y)
}

// CheckBounds reports burn moves outside the bed, [0,width] x [0,height].
// Only the first offending end point of each move is reported.
func CheckBounds(moves []Move, width, height float64) []Violation {
	if width <= 0 || height <= 0 {
		return nil
	}
	outside := func(x, y float64) bool {
		return x < 0 || y < 0 || x > width || y > height
	}
	var out []Violation
	for i, m := range moves {
		if m.Type != MoveBurn {
			continue
		}
		switch {
		case outside(m.FromX, m.FromY):
			out = append(out, Violation{Index: i, X: m.FromX, Y: m.FromY})
		case outside(m.ToX, m.ToY):
			out = append(out, Violation{Index: i, X: m.ToX, Y: m.ToY})
		}
	}
	return out
}
