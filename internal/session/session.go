// Package session holds the state of one search session: the query being
// edited, the page being viewed and the most recently applied result list.
//
// The session never performs I/O. Operations that need a fetch return a
// Request, and the caller reports the outcome back through Apply.
package session

import (
	"errors"

	"github.com/csheth/photoscout/internal/unsplash"
)

// DefaultQuery is searched when the session starts.
const DefaultQuery = "Random"

// Policy toggles the paging and error quirks of the legacy web client. The
// zero value is the corrected behaviour.
type Policy struct {
	// ApplyErrorBodies applies a decoded body even when the HTTP status
	// reported failure, then surfaces the status error.
	ApplyErrorBodies bool
	// UnboundedPrev lets PrevPage go below page 1.
	UnboundedPrev bool
	// PrevOnlyByCount disables Prev only when exactly one result is shown,
	// ignoring the page number.
	PrevOnlyByCount bool
}

// Legacy returns the policy that mirrors the legacy web client.
func Legacy() Policy {
	return Policy{ApplyErrorBodies: true, UnboundedPrev: true, PrevOnlyByCount: true}
}

// Request describes one outbound search. Seq orders requests; only the
// response to the latest Seq is ever applied.
type Request struct {
	Seq   uint64
	Query string
	Page  int
}

// Outcome reports what Apply did with a response.
type Outcome int

const (
	// Applied means the result list was replaced.
	Applied Outcome = iota
	// AppliedWithError means the body was applied and an error remains.
	AppliedWithError
	// Rejected means the response was an error and state is unchanged.
	Rejected
	// Stale means a newer request superseded this response.
	Stale
)

// Changed reports whether the result list was replaced.
func (o Outcome) Changed() bool {
	return o == Applied || o == AppliedWithError
}

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case AppliedWithError:
		return "applied-with-error"
	case Rejected:
		return "rejected"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Session is the search session controller state.
type Session struct {
	policy  Policy
	query   string
	page    int
	results []unsplash.Photo
	total   int
	pages   int
	lastSeq uint64
	pending bool
	// absent marks an applied error body that carried no results list at
	// all, as opposed to an empty one.
	absent bool
}

// New returns a session on page 1 with the default query.
func New(policy Policy) *Session {
	return &Session{policy: policy, query: DefaultQuery, page: 1}
}

// Query returns the text currently held for the next submission.
func (s *Session) Query() string { return s.query }

// Page returns the current page number.
func (s *Session) Page() int { return s.page }

// Results returns the applied result list. The slice must not be modified.
func (s *Session) Results() []unsplash.Photo { return s.results }

// Totals returns the total hit and page counts from the last applied page.
func (s *Session) Totals() (total, pages int) { return s.total, s.pages }

// Pending reports whether the latest request has not been answered yet.
func (s *Session) Pending() bool { return s.pending }

// Policy returns the policy the session was built with.
func (s *Session) Policy() Policy { return s.policy }

// Initial issues the start-up fetch for the current query and page.
func (s *Session) Initial() Request {
	return s.begin()
}

// ChangeQuery replaces the stored query without fetching.
func (s *Session) ChangeQuery(text string) {
	s.query = text
}

// SubmitQuery stores text and submits it. See Submit.
func (s *Session) SubmitQuery(text string) (Request, bool) {
	s.ChangeQuery(text)
	return s.Submit()
}

// Submit issues a request for the stored query at the current page. An
// empty query is ignored and reports false.
func (s *Session) Submit() (Request, bool) {
	if len(s.query) == 0 {
		return Request{}, false
	}
	return s.begin(), true
}

// NextPage advances one page and issues a request for it.
func (s *Session) NextPage() Request {
	s.page++
	return s.begin()
}

// PrevPage steps back one page and issues a request for it. It reports
// false, without changing the page, when Prev is disabled or the page
// would drop below 1 under a bounded policy.
func (s *Session) PrevPage() (Request, bool) {
	if s.PrevDisabled() {
		return Request{}, false
	}
	if !s.policy.UnboundedPrev && s.page <= 1 {
		return Request{}, false
	}
	s.page--
	return s.begin(), true
}

// PrevDisabled reports whether the Prev control is inactive. A single
// result always disables it.
func (s *Session) PrevDisabled() bool {
	if len(s.results) == 1 {
		return true
	}
	return !s.policy.PrevOnlyByCount && s.page <= 1
}

// PagerVisible reports whether the pager should be drawn at all. The legacy
// client kept it on screen after applying an error body without results.
func (s *Session) PagerVisible() bool {
	return len(s.results) > 0 || s.absent
}

// IsLatest reports whether seq belongs to the newest issued request.
func (s *Session) IsLatest(seq uint64) bool {
	return seq == s.lastSeq
}

// Apply records the response to the request numbered seq.
func (s *Session) Apply(seq uint64, page unsplash.Page, err error) Outcome {
	if !s.IsLatest(seq) {
		return Stale
	}
	s.pending = false
	if err == nil {
		s.replace(page)
		return Applied
	}
	var statusErr *unsplash.StatusError
	if s.policy.ApplyErrorBodies && errors.As(err, &statusErr) && statusErr.BodyDecoded {
		s.replace(page)
		s.absent = page.Results == nil
		return AppliedWithError
	}
	return Rejected
}

func (s *Session) replace(page unsplash.Page) {
	s.results = append([]unsplash.Photo(nil), page.Results...)
	s.absent = false
	s.total = page.Total
	s.pages = page.TotalPages
}

func (s *Session) begin() Request {
	return s.Begin(s.query, s.page)
}

// Begin allocates the next sequence number for a fetch of query at page.
// Every earlier request becomes stale.
func (s *Session) Begin(query string, page int) Request {
	s.lastSeq++
	s.pending = true
	return Request{Seq: s.lastSeq, Query: query, Page: page}
}
