package domain

type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Limit() int {
	return p.PageSize
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Metadata describes the page a listing query returned relative to the full
// result set.
type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

// Metadata builds the page description for a listing that matched
// totalRecords rows in full.
func (p Pagination) Metadata(totalRecords int) *Metadata {
	return &Metadata{
		CurrentPage:  p.Page,
		FirstPage:    1,
		LastPage:     (totalRecords + p.PageSize - 1) / p.PageSize,
		PageSize:     p.PageSize,
		TotalRecords: totalRecords,
	}
}
