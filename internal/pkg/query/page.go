package query

// Page is one page of a list result.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
}

func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: p.Page, Size: p.Size}
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages() }

func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// Map converts the items of a page, keeping its counters.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Page[U]{Items: out, Total: p.Total, Page: p.Page, Size: p.Size}
}
