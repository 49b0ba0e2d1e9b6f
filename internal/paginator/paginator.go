// Package paginator slices ordered sequences into fixed-size, 1-indexed pages.
//
// Page number resolution:
//   - missing or non-numeric -> page 1
//   - past the last page     -> last page
//   - below 1                -> last page
//
// An empty sequence still has one (empty) page.
package paginator

import (
	"errors"
	"strconv"
)

// DefaultPageSize is used when a paginator is built with a non-positive size.
const DefaultPageSize = 10

// Paginator computes page windows for a fixed page size.
type Paginator struct {
	pageSize int
}

// New creates a paginator with the given page size.
func New(pageSize int) Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Paginator{pageSize: pageSize}
}

// PageSize returns the configured number of items per page.
func (p Paginator) PageSize() int {
	return p.pageSize
}

// Window describes which slice of a sequence of Count items makes up page Number.
type Window struct {
	Number   int
	NumPages int
	Count    int
	PageSize int
	Offset   int
	Limit    int
}

// Window resolves rawPage against count items.
func (p Paginator) Window(count int, rawPage string) Window {
	if count < 0 {
		count = 0
	}
	numPages := NumPages(count, p.pageSize)
	number := resolve(rawPage, numPages)

	offset := (number - 1) * p.pageSize
	limit := p.pageSize
	if offset+limit > count {
		limit = count - offset
	}

	return Window{
		Number:   number,
		NumPages: numPages,
		Count:    count,
		PageSize: p.pageSize,
		Offset:   offset,
		Limit:    limit,
	}
}

// NumPages returns ceil(count/pageSize), never less than 1.
func NumPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

func resolve(rawPage string, numPages int) int {
	if rawPage == "" {
		return 1
	}
	n, err := strconv.ParseInt(rawPage, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// a number too large (or small) to represent is still out of range
		return numPages
	}
	if err != nil {
		return 1
	}
	if n < 1 || n > int64(numPages) {
		return numPages
	}
	return int(n)
}

// Page is one page of items plus the metadata templates need for navigation.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int
	PageSize int
}

// NewPage pairs a window with the items fetched for it.
func NewPage[T any](w Window, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Number:   w.Number,
		NumPages: w.NumPages,
		Count:    w.Count,
		PageSize: w.PageSize,
	}
}

// Paginate returns the requested page of items. It does not modify items.
func Paginate[T any](items []T, pageSize int, rawPage string) Page[T] {
	w := New(pageSize).Window(len(items), rawPage)
	return NewPage(w, items[w.Offset:w.Offset+w.Limit])
}

func (p Page[T]) Len() int { return len(p.Items) }

func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }

func (p Page[T]) HasOtherPages() bool { return p.HasPrevious() || p.HasNext() }

func (p Page[T]) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

func (p Page[T]) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

// StartIndex is the 1-based position of the first item on the page, 0 when empty.
func (p Page[T]) StartIndex() int {
	if p.Count == 0 {
		return 0
	}
	return (p.Number-1)*p.PageSize + 1
}

// EndIndex is the 1-based position of the last item on the page.
func (p Page[T]) EndIndex() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.StartIndex() + len(p.Items) - 1
}
