// internal/pkg/pagination/pagination.go
package pagination

import "strconv"

// PageSize is the number of catalog items per page
const PageSize = 5

// Page describes the position of a listing page
type Page struct {
	CurrentPage     int
	HasNextPage     bool
	HasPreviousPage bool
	NextPage        int
	PreviousPage    int
	LastPage        int
	TotalItems      int64
}

// Parse reads a ?page= value, defaulting to 1
func Parse(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Offset returns the number of items to skip for page
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// New computes the page links for page given total items
func New(page int, total int64) Page {
	if page < 1 {
		page = 1
	}
	lastPage := int((total + PageSize - 1) / PageSize)
	if lastPage < 1 {
		lastPage = 1
	}
	return Page{
		CurrentPage:     page,
		HasNextPage:     int64(page*PageSize) < total,
		HasPreviousPage: page > 1,
		NextPage:        page + 1,
		PreviousPage:    page - 1,
		LastPage:        lastPage,
		TotalItems:      total,
	}
}
