package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 25
	// MaxPageSize caps how many rows any list query can request.
	MaxPageSize = 100
)

// Params holds page/size pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Page describes the slice of results a query should return.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the params to the configured default and maximum sizes.
func (p Params) Normalize() Page {
	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: page, Size: size}
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Result wraps a page of items plus the totals the list contract requires.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// NewResult assembles a Result, deriving total_pages from the count.
func NewResult[T any](items []T, page Page, totalCount int64) *Result[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if totalCount > 0 {
		totalPages = int((totalCount + int64(page.Size) - 1) / int64(page.Size))
	}
	return &Result[T]{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
