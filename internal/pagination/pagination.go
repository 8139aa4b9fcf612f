// Package pagination slices a fully fetched result set into fixed-size pages.
//
// The remote service returns whole result sets, so paging happens locally.
// That does not scale with large catalogs; server-side paging is the
// long-term fix.
package pagination

// DefaultPageSize is the number of movies shown per page.
const DefaultPageSize = 12

// Page is one window over a result set. Number is 1-based.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// HasPager reports whether the result set spans more than one page.
func (p Page[T]) HasPager() bool {
	return p.TotalItems > p.Size
}

// TotalPages returns ceil(n/size).
func TotalPages(n, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Slice returns page number of items. Pages below 1 clamp to 1; pages past
// the end are empty.
func Slice[T any](items []T, number, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}

	p := Page[T]{
		Number:     number,
		Size:       size,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), size),
		Items:      []T{},
	}

	if number > p.TotalPages {
		return p
	}
	start := (number - 1) * size
	end := min(start+size, len(items))
	p.Items = items[start:end:end]
	return p
}
