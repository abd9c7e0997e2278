package domain

// Genre classifies books. Genres are managed by the seed tool and are
// read-only from the web application.
type Genre struct {
	ID   int64
	Name string
	Slug string
}
