package catalog

import "fmt"

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// TotalPages returns ceil(n / pageSize) with a floor of one page. It holds
// for any positive pageSize, math.MaxInt included.
func TotalPages(n, pageSize int) int {
	if n <= 0 {
		return 1
	}
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}

// Paginate cuts items into the requested page. A page outside
// [1, TotalPages] yields an empty Items slice. The request is echoed back
// unchanged; clamping is the caller's job. Paginate panics when pageSize < 1.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		panic(fmt.Sprintf("catalog: page size must be positive, got %d", pageSize))
	}

	total := TotalPages(len(items), pageSize)
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(items),
		TotalPages: total,
	}
	if page < 1 || page > total {
		return p
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	if start < end {
		p.Items = items[start:end:end]
	}
	return p
}
