package domain

import "time"

// Book is a catalog entry.
type Book struct {
	ID          int64
	Title       string
	Description string // Markdown source, sanitized on write
	Year        int
	Publisher   string
	Author      string
	Pages       int
	CoverID     string // optional reference to an externally stored cover
	Genres      []Genre
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GenreIDs returns the IDs of the attached genres in order.
func (b *Book) GenreIDs() []int64 {
	ids := make([]int64, len(b.Genres))
	for i, g := range b.Genres {
		ids[i] = g.ID
	}
	return ids
}

// HasGenre reports whether the book is linked to the given genre.
func (b *Book) HasGenre(id int64) bool {
	for _, g := range b.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

// BookSummary is a row on the paginated listing.
type BookSummary struct {
	ID          int64
	Title       string
	Year        int
	Author      string
	Genres      []string
	AvgRating   float64
	ReviewCount int
}
