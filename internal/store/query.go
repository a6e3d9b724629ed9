package store

import (
	"strconv"
	"strings"
	"time"

	"bookshop/internal/util"
	"bookshop/pkg/domain"
)

// SearchSentinel is the path-parameter value meaning "no search filter".
const SearchSentinel = "0"

// Default page sizes per listing kind.
const (
	DefaultBookPageSize  = 15
	DefaultListPageSize  = 10
	DefaultOrderPageSize = 3
)

// Page is a normalized pagination request.
type Page struct {
	Number int
	Size   int
}

// NormalizePage clamps raw path parameters into a valid page. Non-numeric or
// out-of-range values fall back to page 1 and the given default size.
func NormalizePage(pageNo, perPage string, defaultSize int) Page {
	number, err := strconv.Atoi(pageNo)
	if err != nil || number < 1 {
		number = 1
	}
	size, err := strconv.Atoi(perPage)
	if err != nil || size < 1 {
		size = defaultSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit returns the maximum number of rows for the page.
func (p Page) Limit() int {
	return p.Size
}

// SearchTerm resolves the search path parameter. The literal "0" is a
// sentinel for "no filter", not a search term.
func SearchTerm(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == SearchSentinel {
		return "", false
	}
	return raw, true
}

// OrderListQuery carries the normalized parameters of the status-filtered
// order listings.
type OrderListQuery struct {
	Status domain.OrderStatus
	Page   Page
	Search string
}

// NewOrderListQuery builds an order listing query from raw path parameters.
func NewOrderListQuery(status domain.OrderStatus, pageNo, pageSize, search string) OrderListQuery {
	term, _ := SearchTerm(search)
	return OrderListQuery{
		Status: status,
		Page:   NormalizePage(pageNo, pageSize, DefaultOrderPageSize),
		Search: term,
	}
}

// HasSearch reports whether a search term was supplied.
func (q OrderListQuery) HasSearch() bool {
	return q.Search != ""
}

// SearchID returns the search term as an order identifier filter when it
// parses as a legal ID; otherwise the term only matches user fields.
func (q OrderListQuery) SearchID() (string, bool) {
	if q.Search == "" || !util.IsID(q.Search) {
		return "", false
	}
	return q.Search, true
}

// BookFilter is the explicit configuration of the filter-books operation.
// Page is always caller-controlled.
type BookFilter struct {
	Page        Page
	Sort        string // "atoz", "ztoa" or empty
	Category    string // category name
	Publication string // publication name
	Author      string // writer name
	MinPrice    *float64
	MaxPrice    *float64
}

// DayWindow is an inclusive [Start, End] time window.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, inclusive on both ends.
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Today returns the window [00:00:00.000, 23:59:59.999] of now's calendar day.
func Today(now time.Time) DayWindow {
	return DaysAgo(now, 0)
}

// DaysAgo returns the full-day window of the calendar day n days before now.
func DaysAgo(now time.Time, n int) DayWindow {
	if n < 0 {
		n = 0
	}
	day := now.AddDate(0, 0, -n)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), day.Location())
	return DayWindow{Start: start, End: end}
}

// LastSevenDays returns the rolling window [now - 7 days, now].
func LastSevenDays(now time.Time) DayWindow {
	return DayWindow{Start: now.AddDate(0, 0, -7), End: now}
}

// WeekdayNumber maps Sunday=1 .. Saturday=7.
func WeekdayNumber(d time.Weekday) int {
	return int(d) + 1
}

// WeekdayName returns the English weekday label for a bucket.
func WeekdayName(d time.Weekday) string {
	return d.String()
}

// DayLabel formats a calendar date the way the revenue-per-day report
// groups it.
func DayLabel(t time.Time) string {
	return t.Format("02-01-2006")
}
