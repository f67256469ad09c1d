package tui

import "testing"

func TestGridLayoutUpdate(t *testing.T) {
	cases := []struct {
		name       string
		width      int
		height     int
		cols       int
		cardWidth  int
		cardHeight int
	}{
		{name: "standard", width: 80, height: 40, cols: 3, cardWidth: 26, cardHeight: 11},
		{name: "narrow", width: 50, height: 40, cols: 2, cardWidth: 24, cardHeight: 6},
		{name: "wide", width: 200, height: 60, cols: 3, cardWidth: 40, cardHeight: 14},
		{name: "tiny", width: 30, height: 24, cols: 1, cardWidth: 30, cardHeight: 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newGridLayout()
			layout.Update(tc.width, tc.height, 9)
			if layout.cols != tc.cols {
				t.Fatalf("cols mismatch: got %d want %d", layout.cols, tc.cols)
			}
			if layout.cardWidth != tc.cardWidth {
				t.Fatalf("card width mismatch: got %d want %d", layout.cardWidth, tc.cardWidth)
			}
			if layout.cardHeight != tc.cardHeight {
				t.Fatalf("card height mismatch: got %d want %d", layout.cardHeight, tc.cardHeight)
			}
		})
	}
}

func TestGridLayoutCardAt(t *testing.T) {
	layout := newGridLayout()
	layout.Update(80, 40, 4)

	cases := []struct {
		name string
		x, y int
		want int
	}{
		{"first card corner", 0, gridTop, 0},
		{"second card", 30, gridTop, 1},
		{"gap between cards", 26, gridTop + 2, -1},
		{"above grid", 10, gridTop - 1, -1},
		{"second row", 2, gridTop + 11, 3},
		{"empty slot", 30, gridTop + 11, -1},
		{"below grid", 2, gridTop + 22, -1},
	}
	for _, tc := range cases {
		if got := layout.cardAt(tc.x, tc.y); got != tc.want {
			t.Errorf("%s: cardAt(%d,%d) = %d, want %d", tc.name, tc.x, tc.y, got, tc.want)
		}
	}
	if x, y := layout.cardOrigin(3); x != 0 || y != gridTop+11 {
		t.Fatalf("cardOrigin(3) = %d,%d", x, y)
	}
}

func TestGridLayoutPagerAt(t *testing.T) {
	layout := newGridLayout()
	layout.Update(80, 40, 9)
	row := layout.pagerRow()
	if row != gridTop+3*11+1 {
		t.Fatalf("pager row = %d", row)
	}
	nextStart := len(prevLabel) + len(pagerCaption(1))

	if got := layout.pagerAt(0, row, 1); got != pagerPrev {
		t.Fatalf("expected prev, got %v", got)
	}
	if got := layout.pagerAt(nextStart, row, 1); got != pagerNext {
		t.Fatalf("expected next, got %v", got)
	}
	if got := layout.pagerAt(len(prevLabel)+2, row, 1); got != pagerNone {
		t.Fatalf("page caption is not a button, got %v", got)
	}
	if got := layout.pagerAt(0, row-1, 1); got != pagerNone {
		t.Fatalf("other rows are not buttons, got %v", got)
	}

	layout.Update(80, 40, 0)
	if got := layout.pagerAt(0, layout.pagerRow(), 1); got != pagerNone {
		t.Fatalf("hidden pager has no buttons, got %v", got)
	}
}

func TestGridLayoutMove(t *testing.T) {
	layout := newGridLayout()
	layout.Update(80, 40, 8)

	cases := []struct {
		name     string
		current  int
		dx, dy   int
		want     int
		wantEdge int
	}{
		{"no focus starts at first", -1, 1, 0, 0, 0},
		{"right", 0, 1, 0, 1, 0},
		{"right edge pages forward", 2, 1, 0, 2, 1},
		{"left edge pages back", 3, -1, 0, 3, -1},
		{"down", 1, 0, 1, 4, 0},
		{"down into empty slot stays", 5, 0, 1, 5, 0},
		{"right past last item pages forward", 7, 1, 0, 7, 1},
		{"up from top stays", 1, 0, -1, 1, 0},
	}
	for _, tc := range cases {
		got, edge := layout.move(tc.current, tc.dx, tc.dy)
		if got != tc.want || edge != tc.wantEdge {
			t.Errorf("%s: move(%d,%d,%d) = %d,%d want %d,%d", tc.name, tc.current, tc.dx, tc.dy, got, edge, tc.want, tc.wantEdge)
		}
	}
}
