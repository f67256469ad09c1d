// Package hover tracks a single debounced hover preview.
//
// Only one delay is ever live. Starting a new hover invalidates the pending
// one, so a timer that fires late for an item the pointer already left is
// ignored instead of revealing a stale overlay.
package hover

import "time"

// DefaultDelay is how long a hover must rest before the overlay appears.
const DefaultDelay = 500 * time.Millisecond

// Token identifies one scheduled delay.
type Token uint64

// Debouncer holds the hover and overlay state for one view.
type Debouncer struct {
	delay   time.Duration
	live    Token
	next    Token
	pending string
	hovered string
	visible bool
}

// New returns a debouncer with the given delay; non-positive values fall
// back to DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay reports the configured debounce delay.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Start begins a hover over id. Any pending delay is cancelled and any
// visible overlay is hidden. The caller schedules Fire(token) after Delay.
func (d *Debouncer) Start(id string) Token {
	d.next++
	d.live = d.next
	d.pending = id
	d.hovered = ""
	d.visible = false
	return d.live
}

// Fire notifies the debouncer that the delay for token elapsed. It reveals
// the overlay and reports true only when token is still live.
func (d *Debouncer) Fire(token Token) bool {
	if token == 0 || token != d.live {
		return false
	}
	d.live = 0
	d.hovered = d.pending
	d.pending = ""
	d.visible = true
	return true
}

// End cancels the pending delay and hides the overlay.
func (d *Debouncer) End() {
	d.live = 0
	d.pending = ""
	d.hovered = ""
	d.visible = false
}

// Pending returns the id waiting for its delay, if any.
func (d *Debouncer) Pending() (string, bool) {
	if d.live == 0 {
		return "", false
	}
	return d.pending, true
}

// Hovered returns the id whose overlay is showing.
func (d *Debouncer) Hovered() string { return d.hovered }

// Visible reports whether an overlay is showing.
func (d *Debouncer) Visible() bool { return d.visible }

// Showing reports whether the overlay for id is visible.
func (d *Debouncer) Showing(id string) bool {
	return d.visible && d.hovered == id
}
