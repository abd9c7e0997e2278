package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/service"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// Flash messages for book actions.
const (
	MsgBookCreated = "The book was added"
	MsgBookUpdated = "The book was updated"
	MsgBookDeleted = "The book was deleted"
)

// bookForm backs book_form.html for both create and edit. Values holds the
// raw submission so a failed save re-renders what the user typed.
type bookForm struct {
	Action  string
	Heading string
	Values  url.Values
	Errors  map[string]string
	Genres  []domain.Genre
	MinYear int
	MaxYear int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	listing, err := s.catalog.List(r.Context(), page)
	if err != nil {
		s.logger.Error("list books failed", "page", page, "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "The catalog could not be loaded")
		return
	}

	s.render(w, r, http.StatusOK, "index.html", "Catalog", listing)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.flashAndRedirect(w, r, domainerrors.NotFound(service.MsgBookNotFound), "/")
		return
	}

	view, err := s.catalog.View(r.Context(), id, currentUser(r.Context()))
	if err != nil {
		s.flashAndRedirect(w, r, err, "/")
		return
	}

	s.render(w, r, http.StatusOK, "view.html", view.Book.Title, view)
}

func (s *Server) handleNewBookForm(w http.ResponseWriter, r *http.Request) {
	s.renderBookForm(w, r, http.StatusOK, s.newBookForm("/new", "Add a book", url.Values{}))
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	in, parseErrors := validation.DecodeBookForm(r.PostForm)

	book, err := s.catalog.Create(r.Context(), currentUser(r.Context()), service.BookRequest{
		BookInput:   in,
		ParseErrors: parseErrors,
	})
	if err != nil {
		s.bookFormError(w, r, s.newBookForm("/new", "Add a book", r.PostForm), err)
		return
	}

	s.flashes.add(w, r, FlashSuccess, MsgBookCreated)
	http.Redirect(w, r, bookURL(book.ID), http.StatusFound)
}

func (s *Server) handleEditBookForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.flashAndRedirect(w, r, domainerrors.NotFound(service.MsgBookNotFound), "/")
		return
	}

	book, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.flashAndRedirect(w, r, err, "/")
		return
	}

	form := s.newBookForm(r.URL.Path, "Edit book", bookValues(book))
	s.renderBookForm(w, r, http.StatusOK, form)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.flashAndRedirect(w, r, domainerrors.NotFound(service.MsgBookNotFound), "/")
		return
	}

	in, parseErrors := validation.DecodeBookForm(r.PostForm)

	_, err := s.catalog.Update(r.Context(), currentUser(r.Context()), id, service.BookRequest{
		BookInput:   in,
		ParseErrors: parseErrors,
	})
	if err != nil {
		s.bookFormError(w, r, s.newBookForm(r.URL.Path, "Edit book", r.PostForm), err)
		return
	}

	s.flashes.add(w, r, FlashSuccess, MsgBookUpdated)
	http.Redirect(w, r, bookURL(id), http.StatusFound)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.flashAndRedirect(w, r, domainerrors.NotFound(service.MsgBookNotFound), "/")
		return
	}

	if err := s.catalog.Delete(r.Context(), currentUser(r.Context()), id); err != nil {
		s.flashAndRedirect(w, r, err, "/")
		return
	}

	s.flashes.add(w, r, FlashSuccess, MsgBookDeleted)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) newBookForm(action, heading string, values url.Values) *bookForm {
	return &bookForm{
		Action:  action,
		Heading: heading,
		Values:  values,
		Errors:  map[string]string{},
		MinYear: validation.MinYear,
		MaxYear: validation.MaxYear,
	}
}

func (s *Server) renderBookForm(w http.ResponseWriter, r *http.Request, status int, form *bookForm) {
	genres, err := s.catalog.Genres(r.Context())
	if err != nil {
		s.logger.Error("list genres failed", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "The form could not be loaded")
		return
	}
	form.Genres = genres
	s.render(w, r, status, "book_form.html", form.Heading, form)
}

// bookFormError re-renders the form for input problems and redirects for
// everything else.
func (s *Server) bookFormError(w http.ResponseWriter, r *http.Request, form *bookForm, err error) {
	de, ok := asDomainError(err)
	if !ok {
		s.logger.Error("book save failed", "path", r.URL.Path, "error", err)
		de = domainerrors.Internal(service.MsgSaveFailed)
	}

	switch de.Code {
	case domainerrors.CodeValidation:
		form.Errors = de.Fields()
		s.renderBookForm(w, r, de.HTTPStatus(), form)
	case domainerrors.CodeRejectedContent:
		form.Errors = de.Fields()
		s.flashes.add(w, r, FlashWarning, de.Message)
		s.renderBookForm(w, r, de.HTTPStatus(), form)
	case domainerrors.CodeNotFound, domainerrors.CodeForbidden:
		s.flashAndRedirect(w, r, de, "/")
	default:
		s.flashes.add(w, r, FlashDanger, de.Message)
		s.renderBookForm(w, r, de.HTTPStatus(), form)
	}
}

// bookValues turns a stored book into form values for the edit page.
func bookValues(book *domain.Book) url.Values {
	v := url.Values{}
	v.Set("title", book.Title)
	v.Set("description", book.Description)
	v.Set("year", strconv.Itoa(book.Year))
	v.Set("publisher", book.Publisher)
	v.Set("author", book.Author)
	v.Set("pages", strconv.Itoa(book.Pages))
	for _, id := range book.GenreIDs() {
		v.Add("genre_ids", strconv.FormatInt(id, 10))
	}
	return v
}
