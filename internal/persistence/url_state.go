package persistence

import (
	"net/url"
	"sync"
)

// URLState is the query-string side of the page location. Writes replace
// the current entry; there is no way to push a new history entry.
type URLState interface {
	Get(param string) (string, bool)
	Replace(param string, value string)
}

// QueryURL is a URLState over a parsed request URL. After a request has been
// handled, String returns the location the page should replace itself with.
// A URL without a path renders as a bare query ("?step=2").
type QueryURL struct {
	mu       sync.Mutex
	path     string
	query    url.Values
	replaced int
}

func NewQueryURL(u *url.URL) *QueryURL {
	if u == nil {
		return &QueryURL{path: "/", query: url.Values{}}
	}
	return &QueryURL{path: u.Path, query: u.Query()}
}

// ParseQueryURL is a convenience for tests and CLIs.
func ParseQueryURL(raw string) (*QueryURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return NewQueryURL(u), nil
}

func (q *QueryURL) Get(param string) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	vals, ok := q.query[param]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func (q *QueryURL) Replace(param string, value string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.query.Set(param, value)
	q.replaced++
}

// Replacements counts writes since construction.
func (q *QueryURL) Replacements() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.replaced
}

func (q *QueryURL) String() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	u := url.URL{Path: q.path, RawQuery: q.query.Encode()}
	return u.String()
}
