package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one page of output: everything drawn between two points where the
// screen starts blank.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	// pageBreak matches erase-display and entering the alternate screen.
	pageBreak = regexp.MustCompile(`\x1b\[[0-9]*J|\x1b\[\?1049h`)
	// escapes matches OSC strings, CSI sequences, charset designators and
	// the shift and NUL bytes some renderers emit.
	escapes = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)|\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b[()][0-9A-Za-z]|[\x00\x0e\x0f]`)
)

func parseFrames(raw []byte) []Frame {
	var frames []Frame
	for _, page := range pageBreak.Split(strings.ReplaceAll(string(raw), "\r", ""), -1) {
		plain := plainText(page)
		if plain == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: page, Plain: plain})
	}
	return frames
}

// plainText drops escape sequences, trailing spaces on each line, and
// trailing blank lines.
func plainText(s string) string {
	lines := strings.Split(escapes.ReplaceAllString(s, ""), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func screenText(raw []byte) string {
	return plainText(strings.ReplaceAll(string(raw), "\r", ""))
}

// FinalFrame returns the last captured frame, or false when nothing was drawn.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Find returns the first frame showing text.
func (r *Recording) Find(text string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for _, frame := range r.Frames {
		if strings.Contains(frame.Plain, text) {
			return frame, true
		}
	}
	return Frame{}, false
}

// Contains reports whether any captured frame shows text.
func (r *Recording) Contains(text string) bool {
	_, ok := r.Find(text)
	return ok
}
