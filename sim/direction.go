package sim

import (
	"fmt"
	"math/rand"
)

// Direction is the four-way compass facing of a bot.
type Direction uint8

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

var directionNames = [...]string{
	DirLeft:  "left",
	DirRight: "right",
	DirUp:    "up",
	DirDown:  "down",
}

// RandomDirection picks one of the four directions uniformly.
func RandomDirection(rng *rand.Rand) Direction {
	return Direction(rng.Intn(4))
}

// Apply returns the coordinate one step in this direction, wrapping
// toroidally against the given field dimensions. The result is always a
// valid coordinate, so grid lookups on it never miss.
func (d Direction) Apply(x, y, width, height int) (int, int) {
	switch d {
	case DirLeft:
		if x == 0 {
			return width - 1, y
		}
		return x - 1, y
	case DirRight:
		if x == width-1 {
			return 0, y
		}
		return x + 1, y
	case DirUp:
		if y == 0 {
			return x, height - 1
		}
		return x, y - 1
	case DirDown:
		if y == height-1 {
			return x, 0
		}
		return x, y + 1
	}
	panic(fmt.Sprintf("sim: invalid direction %d", d))
}

// Left returns the facing rotated 90 degrees counterclockwise.
// Position is untouched; turning is a pure rotation.
func (d Direction) Left() Direction {
	switch d {
	case DirLeft:
		return DirDown
	case DirDown:
		return DirRight
	case DirRight:
		return DirUp
	default:
		return DirLeft
	}
}

// Right returns the facing rotated 90 degrees clockwise.
func (d Direction) Right() Direction {
	switch d {
	case DirLeft:
		return DirUp
	case DirUp:
		return DirRight
	case DirRight:
		return DirDown
	default:
		return DirLeft
	}
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", d)
}

// MarshalText encodes the direction as its lowercase name.
func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, fmt.Errorf("sim: invalid direction %d", d)
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText decodes a direction from its lowercase name.
func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if string(text) == name {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("sim: unknown direction %q", text)
}
