package models

// Pagination is the envelope describing one page of a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// PostPage is one page of posts with its pagination envelope.
type PostPage struct {
	Data       []*Post    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination builds the envelope for the given totals. Limit is
// treated as at least 1 so TotalPages is always defined.
func NewPagination(total int64, page, limit int) Pagination {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// SinglePage wraps a full, unpaginated result set as one page whose
// limit equals the row count.
func SinglePage(posts []*Post) PostPage {
	return PostPage{
		Data: posts,
		Pagination: Pagination{
			Total:      int64(len(posts)),
			Page:       1,
			Limit:      len(posts),
			TotalPages: 1,
		},
	}
}
