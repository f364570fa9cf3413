package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Metadata describes one page of a result set.
type Metadata struct {
	PageNumber      int  `json:"page_number"`
	PageSize        int  `json:"page_size"`
	TotalRecords    int  `json:"total_records"`
	TotalPages      int  `json:"total_pages"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// TotalPages returns ceil(totalRecords/pageSize), or 0 for an empty set.
func TotalPages(totalRecords, pageSize int) int {
	if totalRecords <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalRecords + pageSize - 1) / pageSize
}

// New computes pagination metadata.
// pageNumber is clamped into [1, max(totalPages, 1)] so a shrinking result
// set lands on its last valid page instead of an empty window.
func New(pageNumber, pageSize, totalRecords int) Metadata {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if totalRecords < 0 {
		totalRecords = 0
	}

	totalPages := TotalPages(totalRecords, pageSize)

	if pageNumber < 1 {
		pageNumber = 1
	}
	if totalPages > 0 && pageNumber > totalPages {
		pageNumber = totalPages
	}
	if totalPages == 0 {
		pageNumber = 1
	}

	return Metadata{
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalRecords:    totalRecords,
		TotalPages:      totalPages,
		HasPreviousPage: pageNumber > 1,
		HasNextPage:     pageNumber < totalPages,
	}
}

// Bounds returns the half-open slice window [start, end) of the page.
// Both values are within [0, TotalRecords] and start <= end.
func (m Metadata) Bounds() (start, end int) {
	return Window(m.PageNumber, m.PageSize, m.TotalRecords)
}

// Window returns the raw window [(page-1)*size, page*size) clipped to total.
// Pages above the last one yield an empty window at the end of the set.
func Window(pageNumber, pageSize, totalRecords int) (start, end int) {
	if pageSize <= 0 || totalRecords <= 0 {
		return 0, 0
	}
	if pageNumber < 1 {
		pageNumber = 1
	}

	start = (pageNumber - 1) * pageSize
	if start > totalRecords {
		start = totalRecords
	}
	end = start + pageSize
	if end > totalRecords {
		end = totalRecords
	}
	return start, end
}
