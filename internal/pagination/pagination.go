// Package pagination turns raw path segments into page windows and reports
// page counts for list endpoints.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const MaxPerPage = 100

// MaxPage keeps (Number-1)*PerPage inside an int for any PerPage.
const MaxPage = math.MaxInt / MaxPerPage

const (
	DefaultUsers        = 5
	DefaultFollows      = 4
	DefaultTimeline     = 2
	DefaultPublications = 4
	DefaultMessages     = 4
)

type Page struct {
	Number  int
	PerPage int
}

// Parse reads a 1-based page number and page size. Missing, non-numeric or
// non-positive values fall back to page 1 and defaultPerPage. Page numbers
// beyond MaxPage are clamped, which yields an empty page.
func Parse(rawPage, rawPerPage string, defaultPerPage int) Page {
	if defaultPerPage <= 0 {
		defaultPerPage = 1
	}
	page := Page{
		Number:  positiveOr(rawPage, 1),
		PerPage: positiveOr(rawPerPage, defaultPerPage),
	}
	if page.PerPage > MaxPerPage {
		page.PerPage = MaxPerPage
	}
	if page.Number > MaxPage {
		page.Number = MaxPage
	}
	return page
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) Limit() int {
	return p.PerPage
}

// Pages is ceil(total/perPage).
func Pages(total int64, perPage int) int64 {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}

// Result is one page of a listing plus the counts clients page with.
type Result[T any] struct {
	Items   []T
	Total   int64
	Page    int
	PerPage int
	Pages   int64
}

func NewResult[T any](items []T, total int64, page Page) Result[T] {
	return Result[T]{
		Items:   items,
		Total:   total,
		Page:    page.Number,
		PerPage: page.PerPage,
		Pages:   Pages(total, page.PerPage),
	}
}

func (r Result[T]) Empty() bool {
	return len(r.Items) == 0
}

func positiveOr(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
