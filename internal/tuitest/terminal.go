package tuitest

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Private modes worth asserting on. The responder records every mode the
// program enables, these are just the ones photoscout cares about.
const (
	ModeMouseAllMotion = 1003
	ModeAltScreen      = 1049
)

const (
	foregroundReply = "rgb:cccc/cccc/cccc"
	backgroundReply = "rgb:0000/0000/0000"
	// maxPending bounds an unterminated sequence carried between reads.
	maxPending = 512
)

// terminalResponder plays the terminal side of the queries termenv and
// Bubble Tea send at start-up. It answers against the PTY size the harness
// configured, follows absolute cursor moves so position reports stay
// plausible, and notes which DEC private modes were switched on.
type terminalResponder struct {
	w       io.Writer
	width   int
	height  int
	row     int
	col     int
	enabled map[int]bool
	pending []byte
}

func newTerminalResponder(w io.Writer, width, height int) *terminalResponder {
	return &terminalResponder{
		w:       w,
		width:   width,
		height:  height,
		row:     1,
		col:     1,
		enabled: map[int]bool{},
	}
}

// Process consumes program output. Sequences split across reads are held
// until their terminator arrives.
func (tr *terminalResponder) Process(chunk []byte) {
	data := append(tr.pending, chunk...)
	tr.pending = nil
	for i := 0; i < len(data); i++ {
		if data[i] != 0x1b {
			continue
		}
		n, complete := tr.sequence(data[i:])
		if !complete {
			if len(data)-i <= maxPending {
				tr.pending = append([]byte(nil), data[i:]...)
			}
			return
		}
		i += n - 1
	}
}

// Enabled returns the private modes the program turned on at any point.
func (tr *terminalResponder) Enabled() map[int]bool {
	out := make(map[int]bool, len(tr.enabled))
	for mode := range tr.enabled {
		out[mode] = true
	}
	return out
}

// sequence handles the escape sequence at the start of b and reports its
// length, or false when b ends before the sequence does.
func (tr *terminalResponder) sequence(b []byte) (int, bool) {
	if len(b) < 2 {
		return 0, false
	}
	switch b[1] {
	case '[':
		for j := 2; j < len(b); j++ {
			if b[j] >= 0x40 && b[j] <= 0x7e {
				tr.csi(string(b[2:j]), b[j])
				return j + 1, true
			}
		}
		return 0, false
	case ']':
		for j := 2; j < len(b); j++ {
			if b[j] == 0x07 {
				tr.osc(string(b[2:j]), "\x07")
				return j + 1, true
			}
			if b[j] == 0x1b && j+1 < len(b) && b[j+1] == '\\' {
				tr.osc(string(b[2:j]), "\x1b\\")
				return j + 2, true
			}
		}
		return 0, false
	}
	return 2, true
}

func (tr *terminalResponder) csi(params string, final byte) {
	switch final {
	case 'H', 'f':
		args := numbers(params)
		tr.moveTo(arg(args, 0, 1), arg(args, 1, 1))
	case 'n':
		if params == "6" {
			tr.reply(fmt.Sprintf("\x1b[%d;%dR", tr.row, tr.col))
		}
	case 't':
		if params == "18" {
			tr.reply(fmt.Sprintf("\x1b[8;%d;%dt", tr.height, tr.width))
		}
	case 'h', 'l':
		if !strings.HasPrefix(params, "?") {
			return
		}
		for _, mode := range numbers(params[1:]) {
			if final == 'h' {
				tr.enabled[mode] = true
				if mode == ModeAltScreen {
					tr.moveTo(1, 1)
				}
			}
		}
	}
}

func (tr *terminalResponder) osc(body, terminator string) {
	switch body {
	case "10;?":
		tr.reply("\x1b]10;" + foregroundReply + terminator)
	case "11;?":
		tr.reply("\x1b]11;" + backgroundReply + terminator)
	}
}

func (tr *terminalResponder) moveTo(row, col int) {
	tr.row = min(max(row, 1), tr.height)
	tr.col = min(max(col, 1), tr.width)
}

func (tr *terminalResponder) reply(s string) {
	_, _ = io.WriteString(tr.w, s)
}

func numbers(params string) []int {
	if params == "" {
		return nil
	}
	fields := strings.Split(params, ";")
	out := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}

// arg returns args[i], treating missing or zero values as def the way CSI
// parameters do.
func arg(args []int, i, def int) int {
	if i >= len(args) || args[i] == 0 {
		return def
	}
	return args[i]
}
