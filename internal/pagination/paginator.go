package pagination

// Controls describes the pagination bar for one page of results.
type Controls struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// Build derives the controls for a page. Previous is available only off the
// first page; next only while the window has not consumed the total.
func Build(page, pageSize int, total int64) Controls {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = 1
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return Controls{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 0,
		HasNext:    int64(page+1)*int64(pageSize) < total,
	}
}
