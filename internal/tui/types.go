package tui

import (
	"github.com/csheth/photoscout/internal/hover"
	"github.com/csheth/photoscout/internal/unsplash"
)

type stage int

const (
	stageBrowse stage = iota
	stageInput
)

const heroTagline = "Search Unsplash from your terminal."

const (
	inputCharLimit   = 120
	inputPlaceholder = "search Unsplash"
	prevLabel        = "[ Prev ]"
	nextLabel        = "[ Next ]"
)

type pagerButton int

const (
	pagerNone pagerButton = iota
	pagerPrev
	pagerNext
)

type searchResultMsg struct {
	seq   uint64
	query string
	page  int
	data  unsplash.Page
	err   error
}

type hoverFireMsg struct {
	token hover.Token
}

type thumbResultMsg struct {
	key string
	art string
	err error
}
