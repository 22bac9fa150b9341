package utils

import (
	"net/url"
	"testing"
)

func TestParsePagination_Defaults(t *testing.T) {
	opts := ParsePagination(url.Values{})
	if opts.Page != 1 || opts.Limit != 10 || opts.Offset != 0 {
		t.Fatalf("дефолты нарушены: %+v", opts)
	}
}

func TestParsePagination_NonNumeric(t *testing.T) {
	q := url.Values{"page": {"abc"}, "limit": {"xyz"}}
	opts := ParsePagination(q)
	if opts.Page != 1 || opts.Limit != 10 {
		t.Fatalf("нечисловой ввод должен давать page 1 / limit 10, получено %+v", opts)
	}
}

func TestParsePagination_Clamping(t *testing.T) {
	cases := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"0", "0", 1, 1},
		{"-5", "-1", 1, 1},
		{"3", "100", 3, 50},
		{"2", "25", 2, 25},
	}
	for _, c := range cases {
		opts := ParsePagination(url.Values{"page": {c.page}, "limit": {c.limit}})
		if opts.Page != c.wantPage || opts.Limit != c.wantLimit {
			t.Errorf("page=%s limit=%s: получено %+v, ожидалось page %d limit %d",
				c.page, c.limit, opts, c.wantPage, c.wantLimit)
		}
		if opts.Offset != (opts.Page-1)*opts.Limit {
			t.Errorf("offset не согласован: %+v", opts)
		}
	}
}

func TestBuildPaginationMeta(t *testing.T) {
	meta := BuildPaginationMeta(25, PaginationOptions{Page: 2, Limit: 10, Offset: 10})
	if meta.TotalPages != 3 {
		t.Errorf("totalPages = %d, ожидалось 3", meta.TotalPages)
	}
	if !meta.HasNextPage || !meta.HasPrevPage {
		t.Errorf("на средней странице должны быть обе ссылки: %+v", meta)
	}
	if meta.NextPage == nil || *meta.NextPage != 3 {
		t.Errorf("nextPage = %v, ожидалось 3", meta.NextPage)
	}
	if meta.PrevPage == nil || *meta.PrevPage != 1 {
		t.Errorf("prevPage = %v, ожидалось 1", meta.PrevPage)
	}
}

func TestBuildPaginationMeta_Empty(t *testing.T) {
	meta := BuildPaginationMeta(0, PaginationOptions{Page: 1, Limit: 10})
	if meta.TotalPages != 1 {
		t.Errorf("totalPages при нуле строк = %d, ожидалось 1", meta.TotalPages)
	}
	if meta.HasNextPage || meta.HasPrevPage {
		t.Errorf("пустая выборка не имеет соседних страниц: %+v", meta)
	}
	if meta.NextPage != nil || meta.PrevPage != nil {
		t.Errorf("указатели на краях должны быть nil: %+v", meta)
	}
}

func TestBuildPaginationMeta_LastPage(t *testing.T) {
	meta := BuildPaginationMeta(30, PaginationOptions{Page: 3, Limit: 10, Offset: 20})
	if meta.HasNextPage {
		t.Error("на последней странице hasNextPage должен быть false")
	}
	if !meta.HasPrevPage || meta.PrevPage == nil || *meta.PrevPage != 2 {
		t.Errorf("prevPage = %v, ожидалось 2", meta.PrevPage)
	}
}
