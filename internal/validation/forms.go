package validation

import (
	"net/url"
	"strconv"
	"strings"
)

// Publication year bounds, matching the range of a MySQL YEAR column the
// catalog was originally designed around.
const (
	MinYear = 1901
	MaxYear = 2155
)

// BookInput is a decoded create/edit submission.
type BookInput struct {
	Title       string  `form:"title" validate:"required,max=255"`
	Description string  `form:"description" validate:"max=20000"`
	Year        int     `form:"year" validate:"gte=1901,lte=2155"`
	Publisher   string  `form:"publisher" validate:"max=255"`
	Author      string  `form:"author" validate:"max=255"`
	Pages       int     `form:"pages" validate:"gte=0"`
	GenreIDs    []int64 `form:"genre_ids" validate:"min=1"`
}

// ReviewInput is a decoded review submission. Rating is stored as given.
type ReviewInput struct {
	Rating int    `form:"rating"`
	Text   string `form:"text" validate:"required,max=20000"`
}

// LoginInput is a decoded login submission.
type LoginInput struct {
	Login    string `form:"login" validate:"required,max=100"`
	Password string `form:"password" validate:"required,max=1024"`
	Remember bool   `form:"remember_me"`
}

// DecodeBookForm reads a book submission. It returns the input and any
// fields that could not be parsed; those should be passed to ValidateWith.
func DecodeBookForm(form url.Values) (BookInput, map[string]string) {
	parseErrors := make(map[string]string)

	in := BookInput{
		Title:       strings.TrimSpace(form.Get("title")),
		Description: form.Get("description"),
		Publisher:   strings.TrimSpace(form.Get("publisher")),
		Author:      strings.TrimSpace(form.Get("author")),
	}

	year, err := strconv.Atoi(strings.TrimSpace(form.Get("year")))
	if err != nil {
		parseErrors["year"] = "must be an integer"
	}
	in.Year = year

	if raw := strings.TrimSpace(form.Get("pages")); raw != "" {
		pages, err := strconv.Atoi(raw)
		if err != nil {
			parseErrors["pages"] = "must be an integer"
		}
		in.Pages = pages
	}

	seen := make(map[int64]bool)
	for _, raw := range form["genre_ids"] {
		genreID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || genreID <= 0 {
			parseErrors["genre_ids"] = "contains an unknown genre"
			continue
		}
		if !seen[genreID] {
			seen[genreID] = true
			in.GenreIDs = append(in.GenreIDs, genreID)
		}
	}

	return in, parseErrors
}

// DecodeReviewForm reads a review submission.
func DecodeReviewForm(form url.Values) (ReviewInput, map[string]string) {
	parseErrors := make(map[string]string)

	in := ReviewInput{Text: form.Get("text")}

	rating, err := strconv.Atoi(strings.TrimSpace(form.Get("rating")))
	if err != nil {
		parseErrors["rating"] = "must be an integer"
	}
	in.Rating = rating

	return in, parseErrors
}

// DecodeLoginForm reads a login submission.
func DecodeLoginForm(form url.Values) LoginInput {
	return LoginInput{
		Login:    strings.TrimSpace(form.Get("login")),
		Password: form.Get("password"),
		Remember: form.Get("remember_me") == "on",
	}
}
