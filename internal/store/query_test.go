package store

import (
	"testing"
	"time"

	"bookshop/pkg/domain"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name        string
		pageNo      string
		perPage     string
		defaultSize int
		want        Page
	}{
		{"valid", "2", "5", 10, Page{Number: 2, Size: 5}},
		{"non numeric page", "abc", "5", 10, Page{Number: 1, Size: 5}},
		{"zero page", "0", "5", 10, Page{Number: 1, Size: 5}},
		{"negative page", "-3", "5", 10, Page{Number: 1, Size: 5}},
		{"non numeric size", "2", "lots", 10, Page{Number: 2, Size: 10}},
		{"zero size", "2", "0", 15, Page{Number: 2, Size: 15}},
		{"both bad", "", "", 3, Page{Number: 1, Size: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePage(tt.pageNo, tt.perPage, tt.defaultSize)
			if got != tt.want {
				t.Errorf("NormalizePage(%q, %q, %d) = %+v, want %+v",
					tt.pageNo, tt.perPage, tt.defaultSize, got, tt.want)
			}
		})
	}
}

func TestPageOffsetLimit(t *testing.T) {
	p := Page{Number: 3, Size: 5}
	if p.Offset() != 10 {
		t.Errorf("Offset() = %d, want 10", p.Offset())
	}
	if p.Limit() != 5 {
		t.Errorf("Limit() = %d, want 5", p.Limit())
	}
}

func TestSearchTerm(t *testing.T) {
	tests := []struct {
		raw      string
		want     string
		wantTerm bool
	}{
		{"0", "", false},
		{"", "", false},
		{"  ", "", false},
		{"go", "go", true},
		{" go ", "go", true},
		{"00", "00", true},
	}
	for _, tt := range tests {
		got, ok := SearchTerm(tt.raw)
		if got != tt.want || ok != tt.wantTerm {
			t.Errorf("SearchTerm(%q) = (%q, %v), want (%q, %v)",
				tt.raw, got, ok, tt.want, tt.wantTerm)
		}
	}
}

func TestNewOrderListQuery(t *testing.T) {
	q := NewOrderListQuery(domain.OrderPending, "bad", "bad", SearchSentinel)
	if q.Page.Number != 1 || q.Page.Size != DefaultOrderPageSize {
		t.Errorf("page = %+v, want page 1 size %d", q.Page, DefaultOrderPageSize)
	}
	if q.HasSearch() {
		t.Error("sentinel search should not count as a search term")
	}

	q = NewOrderListQuery(domain.OrderPending, "1", "3", "alice")
	if !q.HasSearch() {
		t.Error("expected a search term")
	}
	if _, ok := q.SearchID(); ok {
		t.Error("plain text must not resolve to an order ID filter")
	}

	const id = "4f2d7b0e-9a4c-4a9e-a1a7-0d6e5b2f8c31"
	q = NewOrderListQuery(domain.OrderPending, "1", "3", id)
	got, ok := q.SearchID()
	if !ok || got != id {
		t.Errorf("SearchID() = (%q, %v), want (%q, true)", got, ok, id)
	}
}

func TestDayWindows(t *testing.T) {
	now := time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)

	today := Today(now)
	if !today.Contains(now) {
		t.Error("today's window must contain now")
	}
	if !today.Contains(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("window must include midnight")
	}
	if today.Contains(time.Date(2024, time.March, 14, 23, 59, 59, 0, time.UTC)) {
		t.Error("window must exclude the previous day")
	}
	if today.Contains(time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)) {
		t.Error("window must exclude the next day")
	}

	twoAgo := DaysAgo(now, 2)
	if !twoAgo.Contains(time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)) {
		t.Error("daysAgo window must cover the target day")
	}
	if twoAgo.Contains(now) {
		t.Error("daysAgo window must not cover today")
	}

	// Negative offsets clamp to today.
	if got := DaysAgo(now, -5); !got.Contains(now) {
		t.Error("negative offset should clamp to today's window")
	}

	week := LastSevenDays(now)
	if !week.Contains(now.AddDate(0, 0, -7)) {
		t.Error("rolling window must include the boundary instant")
	}
	if week.Contains(now.AddDate(0, 0, -8)) {
		t.Error("rolling window must exclude older instants")
	}
}

func TestWeekdayNumber(t *testing.T) {
	if got := WeekdayNumber(time.Sunday); got != 1 {
		t.Errorf("Sunday = %d, want 1", got)
	}
	if got := WeekdayNumber(time.Saturday); got != 7 {
		t.Errorf("Saturday = %d, want 7", got)
	}
}

func TestDayLabel(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	if got := DayLabel(ts); got != "05-03-2024" {
		t.Errorf("DayLabel = %q, want %q", got, "05-03-2024")
	}
}
