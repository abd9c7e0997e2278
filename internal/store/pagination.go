package store

// WindowRadius is how many page numbers are shown on each side of the current page.
const WindowRadius = 3

// Page describes one page of an offset-paginated listing.
type Page struct {
	Number    int // requested page, 1-based
	Size      int
	Total     int // total rows across all pages
	PageCount int
	Offset    int
}

// NewPage computes paging for the requested page. Requests below 1 are
// treated as 1; requests past the last page are kept as-is and simply
// select no rows.
func NewPage(requested, total, size int) Page {
	if size < 1 {
		size = 1
	}
	if requested < 1 {
		requested = 1
	}
	if total < 0 {
		total = 0
	}

	return Page{
		Number:    requested,
		Size:      size,
		Total:     total,
		PageCount: (total + size - 1) / size,
		Offset:    (requested - 1) * size,
	}
}

// Window returns the page numbers within WindowRadius of the current page,
// clamped to [1, PageCount]. It is empty when there are no pages.
func (p Page) Window() []int {
	first := max(1, p.Number-WindowRadius)
	last := min(p.PageCount, p.Number+WindowRadius)

	var pages []int
	for n := first; n <= last; n++ {
		pages = append(pages, n)
	}
	return pages
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 && p.PageCount > 0 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.PageCount }

// Prev returns the previous page number.
func (p Page) Prev() int { return p.Number - 1 }

// Next returns the next page number.
func (p Page) Next() int { return p.Number + 1 }
