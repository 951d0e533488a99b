package pagination

// PageSize is the fixed number of rows on a list page.
const PageSize = 5

type PageInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// NormalizePage clamps page to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages is ceil(total/size).
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Bounds returns the half-open range [start, end) of a 1-indexed page over n
// rows. Pages past the end yield an empty range, however large page is.
func Bounds(page, size, n int) (int, int) {
	page = NormalizePage(page)
	if size <= 0 || n <= 0 {
		return 0, 0
	}
	// compare before multiplying so a huge page cannot wrap start
	if page-1 >= TotalPages(n, size) {
		return n, n
	}
	start := (page - 1) * size
	end := start + size
	if end > n {
		end = n
	}
	return start, end
}

// Paginate slices items to the requested page and reports page metadata.
func Paginate[T any](items []T, page, size int) ([]T, PageInfo) {
	page = NormalizePage(page)
	start, end := Bounds(page, size, len(items))

	out := make([]T, end-start)
	copy(out, items[start:end])

	total := len(items)
	totalPages := TotalPages(total, size)
	return out, PageInfo{
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
