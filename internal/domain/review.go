package domain

import "time"

// Review is a reader's rating and comment on a book.
// Text holds HTML rendered from the submitted Markdown.
type Review struct {
	ID        int64
	BookID    int64
	UserID    int64
	UserLogin string
	Rating    int
	Text      string
	CreatedAt time.Time
}

// RatingOption is one entry of the rating select on the review form.
type RatingOption struct {
	Value int
	Label string
}

// RatingOptions lists the ratings offered by the review form, best first.
// Submitted values are stored as-is; the form is the only place this range exists.
func RatingOptions() []RatingOption {
	return []RatingOption{
		{Value: 5, Label: "Excellent"},
		{Value: 4, Label: "Good"},
		{Value: 3, Label: "Satisfactory"},
		{Value: 2, Label: "Unsatisfactory"},
		{Value: 1, Label: "Poor"},
		{Value: 0, Label: "Terrible"},
	}
}

// FindByAuthor returns the first review written by userID, or nil.
func FindByAuthor(reviews []*Review, userID int64) *Review {
	for _, r := range reviews {
		if r.UserID == userID {
			return r
		}
	}
	return nil
}
