package domain

import "testing"

func TestPaginationMetadata(t *testing.T) {
	tests := []struct {
		name         string
		pagination   Pagination
		totalRecords int
		wantLastPage int
	}{
		{"exact fit", Pagination{Page: 1, PageSize: 20}, 40, 2},
		{"partial last page", Pagination{Page: 2, PageSize: 20}, 41, 3},
		{"empty result", Pagination{Page: 1, PageSize: 20}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.pagination.Metadata(tt.totalRecords)

			if m.LastPage != tt.wantLastPage {
				t.Errorf("LastPage = %d, want %d", m.LastPage, tt.wantLastPage)
			}
			if m.CurrentPage != tt.pagination.Page {
				t.Errorf("CurrentPage = %d, want %d", m.CurrentPage, tt.pagination.Page)
			}
			if m.TotalRecords != tt.totalRecords {
				t.Errorf("TotalRecords = %d, want %d", m.TotalRecords, tt.totalRecords)
			}
		})
	}
}
