package pagination

import "testing"

func TestPageRequest_Defaults(t *testing.T) {
	var p PageRequest
	p.Defaults()
	if p.Page != 1 || p.PageSize != DefaultPageSize || p.Sort != "due_date" {
		t.Errorf("Defaults() = %+v, want page 1 size 20 sort due_date", p)
	}
	if p.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", p.Offset())
	}

	p = PageRequest{Page: 3, PageSize: 500}
	p.Defaults()
	if p.PageSize != MaxPageSize {
		t.Errorf("PageSize = %d, want clamp to %d", p.PageSize, MaxPageSize)
	}
	if p.Offset() != 200 {
		t.Errorf("Offset() = %d, want 200", p.Offset())
	}
}

func TestPageRequest_OrderClause(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"due_date", "due_date ASC"},
		{"-due_date", "due_date DESC"},
		{"-amount", "amount DESC"},
		{"name", "name ASC"},
		{"password_hash", "due_date ASC"},
		{"-; DROP TABLE users", "due_date ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			if got := (PageRequest{Sort: tt.sort}).OrderClause(); got != tt.want {
				t.Errorf("OrderClause() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[string](nil, 2, 10, 21)
	if resp.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", resp.TotalPages)
	}
	if !resp.HasNext {
		t.Error("page 2 of 3 should have a next page")
	}
	if resp.Data == nil {
		t.Error("Data should be an empty slice, not nil")
	}

	last := NewPageResponse([]string{"a"}, 3, 10, 21)
	if last.HasNext {
		t.Error("last page should not have a next page")
	}
	empty := NewPageResponse[string](nil, 1, 10, 0)
	if empty.TotalPages != 0 || empty.HasNext {
		t.Errorf("empty response = %+v", empty)
	}
}
