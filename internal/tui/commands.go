package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/photoscout/internal/hover"
	"github.com/csheth/photoscout/internal/session"
	"github.com/csheth/photoscout/internal/unsplash"
)

const (
	searchTimeout = 20 * time.Second
	thumbTimeout  = 30 * time.Second
)

// Searcher runs one photo search. *unsplash.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, page int) (unsplash.Page, error)
}

// Thumbnailer turns an image URL into cols by rows cells of terminal art.
// *thumb.Cache satisfies it.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, imageURL string, cols, rows int) (string, error)
}

func searchJob(searcher Searcher, req session.Request) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, searchTimeout)
		defer cancel()
		data, err := searcher.Search(ctx, req.Query, req.Page)
		return searchResultMsg{seq: req.Seq, query: req.Query, page: req.Page, data: data, err: err}, err
	}
}

func thumbJob(thumbs Thumbnailer, key, imageURL string, cols, rows int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, thumbTimeout)
		defer cancel()
		art, err := thumbs.Thumbnail(ctx, imageURL, cols, rows)
		return thumbResultMsg{key: key, art: art, err: err}, err
	}
}

func hoverTick(delay time.Duration, token hover.Token) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return hoverFireMsg{token: token}
	})
}

func searchLabel(req session.Request) string {
	return fmt.Sprintf("query=%q page=%d seq=%d", req.Query, req.Page, req.Seq)
}

func thumbKey(photoID string, cols, rows int) string {
	return fmt.Sprintf("%s@%dx%d", photoID, cols, rows)
}
