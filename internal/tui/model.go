package tui

import (
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/photoscout/internal/hover"
	"github.com/csheth/photoscout/internal/session"
	"github.com/csheth/photoscout/internal/unsplash"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Searcher     Searcher
	Thumbs       Thumbnailer
	Policy       session.Policy
	HoverDelay   time.Duration
	DefaultQuery string
}

type model struct {
	config Config
	stage  stage
	keys   keyMap

	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	session *session.Session
	hover   *hover.Debouncer
	jobs    *jobBus
	layout  gridLayout

	focus          int
	helpVisible    bool
	running        map[string]jobSnapshot
	thumbArt       map[string]string
	thumbRequested map[string]bool
	width          int
	height         int
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	sess := session.New(config.Policy)
	if q := strings.TrimSpace(config.DefaultQuery); q != "" {
		sess.ChangeQuery(q)
	}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = inputPlaceholder
	input.CharLimit = inputCharLimit
	input.Width = 60
	input.SetValue(sess.Query())

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &model{
		config:         config,
		stage:          stageBrowse,
		keys:           defaultKeyMap(),
		input:          input,
		spinner:        spin,
		help:           help.New(),
		session:        sess,
		hover:          hover.New(config.HoverDelay),
		jobs:           newJobBus(),
		layout:         newGridLayout(),
		focus:          -1,
		running:        map[string]jobSnapshot{},
		thumbArt:       map[string]string{},
		thumbRequested: map[string]bool{},
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startSearch(m.session.Initial()))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-len(m.input.Prompt)-2)
		m.help.Width = msg.Width
		m.relayout()
		return m, m.requestThumbs()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case jobSignalMsg:
		m.running[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.running, msg.Snapshot.ID)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case searchResultMsg:
		return m.applySearch(msg)
	case thumbResultMsg:
		if msg.err != nil {
			// Forget the request so the next layout pass retries it.
			delete(m.thumbRequested, msg.key)
			log.Printf("[thumb] %s failed: %v", msg.key, msg.err)
			return m, nil
		}
		m.thumbArt[msg.key] = msg.art
		return m, nil
	case hoverFireMsg:
		m.hover.Fire(msg.token)
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.stage == stageInput {
		return m.handleInputKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		return m, m.focusInput()
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.Next):
		return m, m.nextPage()
	case key.Matches(msg, m.keys.Prev):
		return m, m.prevPage()
	case key.Matches(msg, m.keys.Up):
		return m, m.moveFocus(0, -1)
	case key.Matches(msg, m.keys.Down):
		return m, m.moveFocus(0, 1)
	case key.Matches(msg, m.keys.Left):
		return m, m.moveFocus(-1, 0)
	case key.Matches(msg, m.keys.Right):
		return m, m.moveFocus(1, 0)
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		return m, nil
	case key.Matches(msg, m.keys.Blur):
		m.clearHover()
		return m, nil
	}
	return m, nil
}

func (m *model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		cmd := m.submit()
		if cmd != nil {
			m.blurInput()
		}
		return m, cmd
	case tea.KeyEsc:
		m.blurInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != m.session.Query() {
		m.session.ChangeQuery(value)
	}
	return m, cmd
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.MouseMotion:
		idx := m.layout.cardAt(msg.X, msg.Y)
		if idx < 0 {
			m.clearHover()
			return m, nil
		}
		return m, m.hoverCard(idx)
	case tea.MouseLeft:
		switch m.layout.pagerAt(msg.X, msg.Y, m.session.Page()) {
		case pagerPrev:
			return m, m.prevPage()
		case pagerNext:
			return m, m.nextPage()
		}
	}
	return m, nil
}

func (m *model) focusInput() tea.Cmd {
	m.stage = stageInput
	m.input.Focus()
	return textinput.Blink
}

func (m *model) blurInput() {
	m.stage = stageBrowse
	m.input.Blur()
}

func (m *model) submit() tea.Cmd {
	req, ok := m.session.Submit()
	if !ok {
		log.Printf("[search] empty query ignored")
		return nil
	}
	return m.startSearch(req)
}

func (m *model) nextPage() tea.Cmd {
	return m.startSearch(m.session.NextPage())
}

func (m *model) prevPage() tea.Cmd {
	req, ok := m.session.PrevPage()
	if !ok {
		return nil
	}
	return m.startSearch(req)
}

func (m *model) startSearch(req session.Request) tea.Cmd {
	if m.config.Searcher == nil {
		log.Printf("[search] no searcher configured, dropping %s", searchLabel(req))
		return nil
	}
	return m.jobs.Start(jobKindSearch, searchLabel(req), searchJob(m.config.Searcher, req))
}

func (m *model) applySearch(msg searchResultMsg) (tea.Model, tea.Cmd) {
	outcome := m.session.Apply(msg.seq, msg.data, msg.err)
	switch outcome {
	case session.Stale:
		log.Printf("[search] discarded stale response seq=%d query=%q page=%d", msg.seq, msg.query, msg.page)
		return m, nil
	case session.Rejected:
		log.Printf("[search] query=%q page=%d failed: %v", msg.query, msg.page, msg.err)
		return m, nil
	case session.AppliedWithError:
		log.Printf("[search] query=%q page=%d applied error body: %v", msg.query, msg.page, msg.err)
	}
	m.clearHover()
	m.relayout()
	return m, m.requestThumbs()
}

func (m *model) moveFocus(dx, dy int) tea.Cmd {
	next, edge := m.layout.move(m.focus, dx, dy)
	switch {
	case edge > 0:
		return m.nextPage()
	case edge < 0:
		return m.prevPage()
	case next < 0:
		return nil
	}
	return m.hoverCard(next)
}

// hoverCard moves the hover to card idx. Repeated events over the card that
// is already pending or showing keep the running delay.
func (m *model) hoverCard(idx int) tea.Cmd {
	results := m.session.Results()
	if idx < 0 || idx >= len(results) {
		return nil
	}
	m.focus = idx
	id := results[idx].ID
	if pending, ok := m.hover.Pending(); ok && pending == id {
		return nil
	}
	if m.hover.Showing(id) {
		return nil
	}
	token := m.hover.Start(id)
	return hoverTick(m.hover.Delay(), token)
}

func (m *model) clearHover() {
	m.focus = -1
	m.hover.End()
}

func (m *model) relayout() {
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = 80, 24
	}
	m.layout.Update(width, height, len(m.session.Results()))
}

// requestThumbs starts downloads for every visible photo whose art at the
// current card size is not cached or in flight. Nothing is requested until
// the terminal size is known.
func (m *model) requestThumbs() tea.Cmd {
	if m.config.Thumbs == nil || m.width <= 0 {
		return nil
	}
	cols, rows := m.layout.artSize()
	var cmds []tea.Cmd
	for _, photo := range m.session.Results() {
		imageURL := previewURL(photo)
		if imageURL == "" {
			continue
		}
		artKey := thumbKey(photo.ID, cols, rows)
		if m.thumbRequested[artKey] {
			continue
		}
		m.thumbRequested[artKey] = true
		cmds = append(cmds, m.jobs.Start(jobKindThumb, "photo="+photo.ID, thumbJob(m.config.Thumbs, artKey, imageURL, cols, rows)))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func previewURL(photo unsplash.Photo) string {
	if photo.URLs.Small != "" {
		return photo.URLs.Small
	}
	return photo.URLs.Thumb
}

func (m *model) searching() bool {
	for _, job := range m.running {
		if job.Kind == jobKindSearch {
			return true
		}
	}
	return m.session.Pending()
}
