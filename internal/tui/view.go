package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/csheth/photoscout/internal/session"
	"github.com/csheth/photoscout/internal/thumb"
	"github.com/csheth/photoscout/internal/unsplash"
)

// View stacks the frame top to bottom. Row positions must stay in step with
// gridLayout so mouse hit testing lands on what is drawn.
func (m *model) View() string {
	parts := []string{m.titleView(), m.input.View(), ""}
	if grid := m.gridView(); grid != "" {
		parts = append(parts, grid)
	}
	parts = append(parts, "", m.pagerView(), m.statusView())
	if m.helpVisible {
		parts = append(parts, helpBoxStyle.Render(m.help.View(m.keys)))
	}
	return strings.Join(parts, "\n")
}

func (m *model) titleView() string {
	return heroTitleStyle.Render("PhotoScout") + "  " + taglineStyle.Render(heroTagline)
}

func (m *model) gridView() string {
	results := m.session.Results()
	if len(results) == 0 {
		return ""
	}
	gap := strings.Repeat(" ", cardGap)
	rows := make([]string, 0, m.layout.gridRows)
	for start := 0; start < len(results); start += m.layout.cols {
		end := min(start+m.layout.cols, len(results))
		cells := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cells = append(cells, gap)
			}
			cells = append(cells, m.cardView(i, results[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m *model) cardView(idx int, photo unsplash.Photo) string {
	innerW, innerH := m.layout.innerSize()
	style := cardStyle
	if idx == m.focus {
		style = focusedCardStyle
	}

	var body string
	if m.hover.Showing(photo.ID) {
		body = overlayView(photo, innerW)
	} else {
		artW, artH := m.layout.artSize()
		art, ok := m.thumbArt[thumbKey(photo.ID, artW, artH)]
		if !ok {
			art = thumb.Placeholder(photo.Color, artW, artH)
		}
		body = art + "\n" + captionStyle.Render(truncate.StringWithTail(cardCaption(photo), uint(innerW), "…"))
	}
	return style.Width(innerW).Height(innerH).Render(clampLines(body, innerH))
}

// overlayView is the revealed hover content: the description in bold and
// the alternative description below it.
func overlayView(photo unsplash.Photo, width int) string {
	if !photo.HasDetails() {
		return helperStyle.Render("No description.")
	}
	var parts []string
	if d := strings.TrimSpace(photo.Description); d != "" {
		parts = append(parts, overlayTitleStyle.Render(wrapText(d, width)))
	}
	if a := strings.TrimSpace(photo.AltDescription); a != "" {
		parts = append(parts, helperStyle.Render(wrapText(a, width)))
	}
	return strings.Join(parts, "\n")
}

func cardCaption(photo unsplash.Photo) string {
	if photo.User.Name != "" {
		return "by " + photo.User.Name
	}
	if caption := photo.Caption(); caption != "" {
		return caption
	}
	return photo.ID
}

func (m *model) pagerView() string {
	if !m.session.PagerVisible() {
		if m.searching() {
			return helperStyle.Render("Loading photos…")
		}
		return helperStyle.Render("No photos to show. Press / to search.")
	}
	prev := buttonStyle.Render(prevLabel)
	if m.session.PrevDisabled() {
		prev = disabledButtonStyle.Render(prevLabel)
	}
	return prev + pagerCaption(m.session.Page()) + buttonStyle.Render(nextLabel)
}

func (m *model) statusView() string {
	total, pages := m.session.Totals()
	status := fmt.Sprintf("%q · %d photos · %d pages", m.session.Query(), total, pages)
	if m.searching() {
		status = m.spinner.View() + " searching " + status
	}
	line := statusBarStyle.Render(status)
	if m.session.Policy() == session.Legacy() {
		line += " " + legacyBadgeStyle.Render("legacy")
	}
	return line + "  " + helperStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}

func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
