package tuitest

// Mouse reports are encoded in the X10 form: ESC [ M followed by the
// button, column and row, each offset by 32. Coordinates are zero based
// here and one based on the wire.

const (
	x10Offset     = 32
	x10LeftButton = 0
	x10Release    = 3
	x10Motion     = 32
	// x10MaxCoord is the largest zero based coordinate one byte can carry.
	x10MaxCoord = 255 - x10Offset - 1
)

func x10(button, x, y int) []byte {
	x = clampCoord(x)
	y = clampCoord(y)
	return []byte{0x1b, '[', 'M', byte(x10Offset + button), byte(x10Offset + x + 1), byte(x10Offset + y + 1)}
}

func clampCoord(v int) int {
	if v < 0 {
		return 0
	}
	if v > x10MaxCoord {
		return x10MaxCoord
	}
	return v
}

// MouseMotion reports the pointer moving to column x, row y with no button
// held.
func MouseMotion(x, y int) []byte {
	return x10(x10Motion+x10Release, x, y)
}

// MouseClick presses and releases the left button at column x, row y.
func MouseClick(x, y int) []byte {
	press := x10(x10LeftButton, x, y)
	release := x10(x10Release, x, y)
	return append(press, release...)
}
