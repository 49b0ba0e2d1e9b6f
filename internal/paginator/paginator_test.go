package paginator

import (
	"fmt"
	"testing"
)

func seq(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		pageSize   int
		rawPage    string
		wantNumber int
		wantLen    int
		wantPages  int
		wantFirst  int
	}{
		{name: "first page by default", count: 13, pageSize: 10, rawPage: "", wantNumber: 1, wantLen: 10, wantPages: 2, wantFirst: 1},
		{name: "second page holds the remainder", count: 13, pageSize: 10, rawPage: "2", wantNumber: 2, wantLen: 3, wantPages: 2, wantFirst: 11},
		{name: "past the last page clamps", count: 13, pageSize: 10, rawPage: "3", wantNumber: 2, wantLen: 3, wantPages: 2, wantFirst: 11},
		{name: "far past the last page clamps", count: 13, pageSize: 10, rawPage: "999", wantNumber: 2, wantLen: 3, wantPages: 2, wantFirst: 11},
		{name: "non-numeric defaults to first", count: 13, pageSize: 10, rawPage: "abc", wantNumber: 1, wantLen: 10, wantPages: 2, wantFirst: 1},
		{name: "zero goes to last page", count: 13, pageSize: 10, rawPage: "0", wantNumber: 2, wantLen: 3, wantPages: 2, wantFirst: 11},
		{name: "negative goes to last page", count: 13, pageSize: 10, rawPage: "-4", wantNumber: 2, wantLen: 3, wantPages: 2, wantFirst: 11},
		{name: "overflowing number goes to last page", count: 13, pageSize: 10, rawPage: "99999999999999999999", wantNumber: 2, wantLen: 3, wantPages: 2, wantFirst: 11},
		{name: "overflowing negative goes to last page", count: 13, pageSize: 10, rawPage: "-99999999999999999999", wantNumber: 2, wantLen: 3, wantPages: 2, wantFirst: 11},
		{name: "empty sequence has one empty page", count: 0, pageSize: 10, rawPage: "5", wantNumber: 1, wantLen: 0, wantPages: 1},
		{name: "exact multiple", count: 20, pageSize: 10, rawPage: "2", wantNumber: 2, wantLen: 10, wantPages: 2, wantFirst: 11},
		{name: "eleven posts second page", count: 11, pageSize: 10, rawPage: "2", wantNumber: 2, wantLen: 1, wantPages: 2, wantFirst: 11},
		{name: "non-positive size falls back to default", count: 25, pageSize: 0, rawPage: "3", wantNumber: 3, wantLen: 5, wantPages: 3, wantFirst: 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(seq(tt.count), tt.pageSize, tt.rawPage)
			if page.Number != tt.wantNumber {
				t.Errorf("Number = %d, want %d", page.Number, tt.wantNumber)
			}
			if page.Len() != tt.wantLen {
				t.Errorf("Len = %d, want %d", page.Len(), tt.wantLen)
			}
			if page.NumPages != tt.wantPages {
				t.Errorf("NumPages = %d, want %d", page.NumPages, tt.wantPages)
			}
			if tt.wantLen > 0 && page.Items[0] != tt.wantFirst {
				t.Errorf("first item = %d, want %d", page.Items[0], tt.wantFirst)
			}
		})
	}
}

func TestPaginatePageSizes(t *testing.T) {
	for _, size := range []int{1, 3, 7, 10} {
		for _, n := range []int{0, 1, 9, 10, 11, 29, 30, 31} {
			t.Run(fmt.Sprintf("size=%d/n=%d", size, n), func(t *testing.T) {
				items := seq(n)
				wantPages := (n + size - 1) / size
				if wantPages == 0 {
					wantPages = 1
				}

				total := 0
				for p := 1; p <= wantPages; p++ {
					page := Paginate(items, size, fmt.Sprint(p))
					if page.NumPages != wantPages {
						t.Fatalf("page %d: NumPages = %d, want %d", p, page.NumPages, wantPages)
					}
					wantLen := size
					if p == wantPages {
						wantLen = n - size*(wantPages-1)
					}
					if page.Len() != wantLen {
						t.Errorf("page %d: Len = %d, want %d", p, page.Len(), wantLen)
					}
					total += page.Len()
				}
				if total != n {
					t.Errorf("items across pages = %d, want %d", total, n)
				}
			})
		}
	}
}

func TestWindow(t *testing.T) {
	p := New(10)
	w := p.Window(13, "2")
	if w.Offset != 10 || w.Limit != 3 {
		t.Errorf("Window(13, 2) offset/limit = %d/%d, want 10/3", w.Offset, w.Limit)
	}

	w = p.Window(0, "")
	if w.Offset != 0 || w.Limit != 0 || w.NumPages != 1 {
		t.Errorf("Window(0) = %+v, want empty single page", w)
	}

	if New(-1).PageSize() != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", New(-1).PageSize(), DefaultPageSize)
	}
}

func TestPageNavigation(t *testing.T) {
	items := seq(25)

	first := Paginate(items, 10, "1")
	if first.HasPrevious() || !first.HasNext() || first.NextNumber() != 2 {
		t.Errorf("first page navigation wrong: prev=%v next=%v nextNum=%d",
			first.HasPrevious(), first.HasNext(), first.NextNumber())
	}

	middle := Paginate(items, 10, "2")
	if !middle.HasPrevious() || !middle.HasNext() || middle.PreviousNumber() != 1 {
		t.Errorf("middle page navigation wrong")
	}
	if middle.StartIndex() != 11 || middle.EndIndex() != 20 {
		t.Errorf("middle indices = %d..%d, want 11..20", middle.StartIndex(), middle.EndIndex())
	}

	last := Paginate(items, 10, "3")
	if last.HasNext() || last.NextNumber() != 3 {
		t.Errorf("last page should not have next")
	}

	single := Paginate(seq(3), 10, "")
	if single.HasOtherPages() {
		t.Errorf("single page should not report other pages")
	}

	empty := Paginate([]int(nil), 10, "")
	if empty.Items == nil {
		t.Errorf("empty page items should be non-nil")
	}
	if empty.StartIndex() != 0 {
		t.Errorf("empty StartIndex = %d, want 0", empty.StartIndex())
	}
	if empty.EndIndex() != 0 {
		t.Errorf("empty EndIndex = %d, want 0", empty.EndIndex())
	}
}

func TestPaginateDoesNotModifyInput(t *testing.T) {
	items := seq(5)
	Paginate(items, 2, "2")
	for i, v := range items {
		if v != i+1 {
			t.Fatalf("input modified at %d: %d", i, v)
		}
	}
}
