package tui

import (
	"fmt"

	"github.com/csheth/photoscout/internal/unsplash"
)

const (
	// gridTop is the first screen row of the card grid: title, input and a
	// spacer precede it.
	gridTop       = 3
	cardGap       = 1
	minCardWidth  = 22
	maxCardWidth  = 40
	minCardHeight = 6
	maxCardHeight = 14
	maxColumns    = 3
	// chromeLines counts every non-grid row: title, input, spacer, spacer,
	// pager and status.
	chromeLines = 6
)

// gridLayout maps the result grid onto screen cells. Card sizes include
// the border.
type gridLayout struct {
	width      int
	height     int
	cols       int
	cardWidth  int
	cardHeight int
	gridRows   int
	count      int
}

func newGridLayout() gridLayout {
	var l gridLayout
	l.Update(80, 24, 0)
	return l
}

// Update recomputes the geometry for a width by height window showing count
// cards. Card height is sized for a full page so the grid does not jump
// when a short page arrives.
func (l *gridLayout) Update(width, height, count int) {
	l.width = width
	l.height = height
	l.count = count

	cols := maxColumns
	for cols > 1 && cols*minCardWidth+(cols-1)*cardGap > width {
		cols--
	}
	l.cols = cols

	cardWidth := (width - (cols-1)*cardGap) / cols
	if cardWidth > maxCardWidth {
		cardWidth = maxCardWidth
	}
	if cardWidth < 4 {
		cardWidth = 4
	}
	l.cardWidth = cardWidth

	fullRows := ceilDiv(unsplash.DefaultPerPage, cols)
	cardHeight := (height - chromeLines) / fullRows
	if cardHeight > maxCardHeight {
		cardHeight = maxCardHeight
	}
	if cardHeight < minCardHeight {
		cardHeight = minCardHeight
	}
	l.cardHeight = cardHeight
	l.gridRows = ceilDiv(count, cols)
}

// cardOrigin returns the top-left screen cell of card i.
func (l gridLayout) cardOrigin(i int) (int, int) {
	row, col := i/l.cols, i%l.cols
	return col * (l.cardWidth + cardGap), gridTop + row*l.cardHeight
}

// cardAt returns the index of the card under x, y or -1.
func (l gridLayout) cardAt(x, y int) int {
	if x < 0 || y < gridTop || l.cols == 0 {
		return -1
	}
	col := x / (l.cardWidth + cardGap)
	if col >= l.cols || x%(l.cardWidth+cardGap) >= l.cardWidth {
		return -1
	}
	row := (y - gridTop) / l.cardHeight
	if row >= l.gridRows {
		return -1
	}
	idx := row*l.cols + col
	if idx >= l.count {
		return -1
	}
	return idx
}

func (l gridLayout) pagerRow() int {
	return gridTop + l.gridRows*l.cardHeight + 1
}

// pagerAt reports which pager button covers x, y for the given page.
func (l gridLayout) pagerAt(x, y, page int) pagerButton {
	if l.count == 0 || y != l.pagerRow() || x < 0 {
		return pagerNone
	}
	if x < len(prevLabel) {
		return pagerPrev
	}
	nextStart := len(prevLabel) + len(pagerCaption(page))
	if x >= nextStart && x < nextStart+len(nextLabel) {
		return pagerNext
	}
	return pagerNone
}

// innerSize is the card content box inside the border.
func (l gridLayout) innerSize() (int, int) {
	return l.cardWidth - 2, l.cardHeight - 2
}

// artSize leaves one inner row for the photographer caption.
func (l gridLayout) artSize() (int, int) {
	w, h := l.innerSize()
	if h > 1 {
		h--
	}
	return w, h
}

// move returns the focus index after stepping dx columns and dy rows from
// current. edge is -1 or +1 when a horizontal step leaves the grid.
func (l gridLayout) move(current, dx, dy int) (next int, edge int) {
	if l.count == 0 {
		return -1, 0
	}
	if current < 0 || current >= l.count {
		return 0, 0
	}
	row, col := current/l.cols, current%l.cols
	if dx != 0 {
		col += dx
		if col < 0 {
			return current, -1
		}
		if col >= l.cols || row*l.cols+col >= l.count {
			return current, +1
		}
	}
	if dy != 0 {
		row += dy
		if row < 0 || row*l.cols+col >= l.count {
			return current, 0
		}
	}
	return row*l.cols + col, 0
}

func pagerCaption(page int) string {
	return fmt.Sprintf("  Page %d  ", page)
}

func ceilDiv(n, d int) int {
	if n <= 0 || d <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
