package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoveType represents the type of toolpath movement.
type MoveType int

const (
	MoveRapid  MoveType = iota // G0: positioning, laser off
	MoveTravel                 // G1 with the laser off
	MoveBurn                   // G1 with the laser on
)

// Move represents a single parsed movement.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	ToX      float64
	ToY      float64
	FeedRate float64
	Power    int
}

// Length returns the XY distance covered by the move.
func (m Move) Length() float64 {
	return math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)
}

var wordRe = regexp.MustCompile(`([XYFS])(-?\d+\.?\d*)`)

// ParseGCode parses a program into a slice of structured moves. It tracks
// absolute position, feed rate and laser state (M3/M4 on, M5 off).
func ParseGCode(code string) []Move {
	var moves []Move

	curX, curY := 0.0, 0.0
	curFeed := 0.0
	power, laserOn := 0, false

	for _, line := range strings.Split(code, "\n") {
		line = stripComment(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		fields := strings.Fields(upper)

		switch fields[0] {
		case "M3", "M03", "M4", "M04":
			laserOn = true
			if m := wordRe.FindStringSubmatch(upper); m != nil && m[1] == "S" {
				power, _ = strconv.Atoi(strings.Split(m[2], ".")[0])
			}
			continue
		case "M5", "M05":
			laserOn = false
			continue
		case "G0", "G00", "G1", "G01":
		default:
			continue
		}
		rapid := fields[0] == "G0" || fields[0] == "G00"

		newX, newY, newFeed := curX, curY, curFeed
		for _, m := range wordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Y":
				newY = val
			case "F":
				newFeed = val
			}
		}

		mv := Move{FromX: curX, FromY: curY, ToX: newX, ToY: newY, FeedRate: newFeed}
		switch {
		case rapid:
			mv.Type = MoveRapid
		case laserOn:
			mv.Type = MoveBurn
			mv.Power = power
		default:
			mv.Type = MoveTravel
		}
		moves = append(moves, mv)
		curX, curY, curFeed = newX, newY, newFeed
	}
	return moves
}

// stripComment removes semicolon and parenthetical comments.
func stripComment(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.Index(line, "("); idx >= 0 {
		if end := strings.Index(line, ")"); end > idx {
			line = line[:idx] + line[end+1:]
		}
	}
	return strings.TrimSpace(line)
}

// Stats summarises a parsed program.
type Stats struct {
	BurnLength   float64
	TravelLength float64
	Burns        int
	// Bounds of the burnt area.
	MinX, MinY, MaxX, MaxY float64
}

// Summarize computes lengths and the burnt area of moves.
func Summarize(moves []Move) Stats {
	s := Stats{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, m := range moves {
		if m.Type != MoveBurn {
			s.TravelLength += m.Length()
			continue
		}
		s.Burns++
		s.BurnLength += m.Length()
		s.MinX = min(s.MinX, m.FromX, m.ToX)
		s.MaxX = max(s.MaxX, m.FromX, m.ToX)
		s.MinY = min(s.MinY, m.FromY, m.ToY)
		s.MaxY = max(s.MaxY, m.FromY, m.ToY)
	}
	if s.Burns == 0 {
		s.MinX, s.MinY, s.MaxX, s.MaxY = 0, 0, 0, 0
	}
	return s
}

// EstimatedMinutes returns the burn time at the programmed feed rates.
func EstimatedMinutes(moves []Move) float64 {
	var t float64
	for _, m := range moves {
		if m.Type == MoveBurn && m.FeedRate > 0 {
			t += m.Length() / m.FeedRate
		}
	}
	return t
}
